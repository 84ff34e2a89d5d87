package relex

import (
	"fmt"
	"unicode/utf8"
)

// TokenType tags the tokens produced by a lexer rule. Values are chosen
// by the caller; the lexer never interprets them.
type TokenType int

// Token is one lexeme cut from the input stream. Start and End are
// symbol offsets (code points or bytes, per the lexer's alphabet), with
// End exclusive. Tokens are emitted in input order with contiguous
// spans.
type Token struct {
	Type  TokenType
	Text  string
	Start int
	End   int
}

// Rule pairs a pattern with the token type its matches produce. Position
// in the rule table is the tie-break priority: when two rules accept at
// the same end offset, the lower index wins. Longest match always beats
// priority. A Skip rule participates in matching as usual but its tokens
// are dropped, the conventional treatment for whitespace and comments.
type Rule struct {
	Type    TokenType
	Pattern *Regex
	Skip    bool
}

// Lexer cuts a symbol stream into tokens using longest-match-wins over a
// fixed rule table. Symbols are pushed in with Feed or FeedBytes as they
// become available; the lexer never looks ahead of what it has been
// given, so it can sit between Feed calls indefinitely without blocking
// anything. End flushes the final token once the stream is over.
//
// A Lexer is single-owner mutable state. The patterns inside its rules
// are immutable and may be shared across lexers freely.
type Lexer struct {
	alphabet Alphabet
	rules    []Rule
	matchers []*Matcher

	live     []int  // rule indexes still alive in the current scan, ascending
	start    int    // symbol offset where the current scan began
	pending  []rune // symbols consumed by the current scan
	bestEnd  int    // exclusive symbol offset of the best accepted match
	bestRule int
	bestOK   bool

	hold []byte // undecoded trailing UTF-8 bytes (text alphabet only)
	done bool
}

// NewLexer builds a lexer over the given alphabet and rule table. Every
// rule pattern must be well formed and defined over the lexer's alphabet
// (alphabet-independent patterns such as Any fit either).
func NewLexer(alphabet Alphabet, rules []Rule) (*Lexer, error) {
	if alphabet != Text && alphabet != Bytes {
		return nil, &ConstructionError{Reason: fmt.Sprintf("lexer alphabet must be text or bytes, got %s", alphabet)}
	}
	if len(rules) == 0 {
		return nil, &ConstructionError{Reason: "lexer needs at least one rule"}
	}
	l := &Lexer{
		alphabet: alphabet,
		rules:    rules,
		matchers: make([]*Matcher, len(rules)),
	}
	for i, rule := range rules {
		if rule.Pattern == nil {
			return nil, &ConstructionError{Reason: fmt.Sprintf("rule %d has no pattern", i)}
		}
		if err := rule.Pattern.Validate(); err != nil {
			return nil, err
		}
		if pa := rule.Pattern.Alphabet(); pa != AlphaNone && pa != alphabet {
			return nil, &ConstructionError{
				Reason: fmt.Sprintf("rule %d has %s alphabet, lexer uses %s", i, pa, alphabet),
			}
		}
		l.matchers[i] = NewMatcher(rule.Pattern)
	}
	l.resetScan()
	return l, nil
}

// Feed hands the lexer a chunk of input and returns the tokens completed
// by it, possibly none. Feeding one symbol at a time yields exactly the
// same tokens as feeding everything at once. Under the byte alphabet the
// chunk is consumed byte by byte.
func (l *Lexer) Feed(chunk string) ([]Token, error) {
	if l.done {
		return nil, fmt.Errorf("relex: Feed after End")
	}
	if len(l.hold) > 0 {
		// An earlier FeedBytes left a split code point pending; go through
		// the byte path so the chunk lands behind it.
		return l.FeedBytes([]byte(chunk))
	}
	return l.push(decodeString(l.alphabet, chunk))
}

// FeedBytes is Feed for raw bytes. Under the text alphabet a multi-byte
// code point split across chunks is held back until its remaining bytes
// arrive.
func (l *Lexer) FeedBytes(chunk []byte) ([]Token, error) {
	if l.done {
		return nil, fmt.Errorf("relex: FeedBytes after End")
	}
	if l.alphabet == Bytes {
		syms := make([]rune, len(chunk))
		for i, b := range chunk {
			syms[i] = rune(b)
		}
		return l.push(syms)
	}
	l.hold = append(l.hold, chunk...)
	var syms []rune
	for len(l.hold) > 0 {
		if l.hold[0] < utf8.RuneSelf {
			syms = append(syms, rune(l.hold[0]))
			l.hold = l.hold[1:]
			continue
		}
		if !utf8.FullRune(l.hold) {
			break
		}
		r, size := utf8.DecodeRune(l.hold)
		syms = append(syms, r)
		l.hold = l.hold[size:]
	}
	return l.push(syms)
}

// End signals end of input and returns any remaining tokens. A scan left
// mid-pattern with no accepted match reports IncompleteError; a scan
// whose remainder can never match reports NoMatchError.
func (l *Lexer) End() ([]Token, error) {
	if l.done {
		return nil, fmt.Errorf("relex: End called twice")
	}
	l.done = true

	var out []Token
	// Trailing bytes of an unfinished code point are malformed input;
	// surface them as replacement-rune symbols rather than dropping them.
	if len(l.hold) > 0 {
		syms := make([]rune, len(l.hold))
		for i := range l.hold {
			syms[i] = utf8.RuneError
		}
		l.hold = nil
		toks, err := l.push(syms)
		out = append(out, toks...)
		if err != nil {
			return out, err
		}
	}

	for len(l.pending) > 0 {
		if !l.bestOK {
			return out, &IncompleteError{Start: l.start, Text: l.encode(l.pending)}
		}
		tok, rest := l.emitBest()
		if tok != nil {
			out = append(out, *tok)
		}
		toks, err := l.push(rest)
		out = append(out, toks...)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// Offset returns the symbol offset the next scan starts at.
func (l *Lexer) Offset() int {
	return l.start + len(l.pending)
}

// push runs the scan state machine over syms. Trailing symbols past an
// emitted token cannot be rewound out of derivative state, so they are
// replayed into a fresh scan via the work queue.
func (l *Lexer) push(syms []rune) ([]Token, error) {
	var out []Token
	queue := syms
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		l.pending = append(l.pending, c)

		alive := l.live[:0]
		for _, idx := range l.live {
			m := l.matchers[idx]
			m.Step(c)
			if m.Dead() {
				continue
			}
			alive = append(alive, idx)
			if m.Accepting() {
				// Rules are visited in ascending index, so on a tie the
				// lowest index records first and strictly-longer is the
				// only way to displace it.
				if end := l.start + len(l.pending); !l.bestOK || end > l.bestEnd {
					l.bestEnd, l.bestRule, l.bestOK = end, idx, true
				}
			}
		}
		l.live = alive

		if len(l.live) > 0 {
			continue
		}
		if !l.bestOK {
			err := &NoMatchError{Start: l.start, Text: l.encode(l.pending)}
			// The failed scan is unrecoverable here; drop it so the
			// caller can apply its own policy and keep feeding.
			l.start += len(l.pending)
			l.resetScan()
			return out, err
		}
		tok, rest := l.emitBest()
		if tok != nil {
			out = append(out, *tok)
		}
		queue = append(rest, queue...)
	}
	return out, nil
}

// emitBest cuts the recorded best match into a token (nil for Skip
// rules), restarts the scan at its end offset, and returns the consumed
// symbols past that end for replay.
func (l *Lexer) emitBest() (*Token, []rune) {
	n := l.bestEnd - l.start
	rule := l.rules[l.bestRule]
	var tok *Token
	if !rule.Skip {
		tok = &Token{
			Type:  rule.Type,
			Text:  l.encode(l.pending[:n]),
			Start: l.start,
			End:   l.bestEnd,
		}
	}
	rest := append([]rune(nil), l.pending[n:]...)
	l.start = l.bestEnd
	l.resetScan()
	return tok, rest
}

func (l *Lexer) resetScan() {
	l.pending = l.pending[:0]
	l.bestOK = false
	l.live = l.live[:0]
	for i, m := range l.matchers {
		m.Reset()
		l.live = append(l.live, i)
	}
}

// encode renders scan symbols back into input text per the alphabet.
func (l *Lexer) encode(syms []rune) string {
	return encodeSymbols(l.alphabet, syms)
}

func decodeString(alpha Alphabet, s string) []rune {
	if alpha == Bytes {
		syms := make([]rune, len(s))
		for i := 0; i < len(s); i++ {
			syms[i] = rune(s[i])
		}
		return syms
	}
	return []rune(s)
}

func encodeSymbols(alpha Alphabet, syms []rune) string {
	if alpha == Bytes {
		bs := make([]byte, len(syms))
		for i, s := range syms {
			bs[i] = byte(s)
		}
		return string(bs)
	}
	return string(syms)
}
