package relex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokA TokenType = iota
	tokB
	tokC
)

func mustLexer(t *testing.T, alphabet Alphabet, rules []Rule) *Lexer {
	t.Helper()
	l, err := NewLexer(alphabet, rules)
	require.NoError(t, err)
	return l
}

// lexAll feeds the whole input, flushes, and returns everything emitted.
func lexAll(t *testing.T, l *Lexer, input string) ([]Token, error) {
	t.Helper()
	toks, err := l.Feed(input)
	if err != nil {
		return toks, err
	}
	final, err := l.End()
	return append(toks, final...), err
}

func TestLongestMatchWins(t *testing.T) {
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Plus(Sym('a'))},
		{Type: tokB, Pattern: Sym('a')},
	})

	toks, err := lexAll(t, l, "aaa")
	require.NoError(t, err)
	require.Equal(t, []Token{{Type: tokA, Text: "aaa", Start: 0, End: 3}}, toks)
}

func TestPriorityBreaksTies(t *testing.T) {
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Sym('a')},
		{Type: tokB, Pattern: Sym('a')},
	})

	toks, err := lexAll(t, l, "a")
	require.NoError(t, err)
	require.Equal(t, []Token{{Type: tokA, Text: "a", Start: 0, End: 1}}, toks)
}

func TestLongestBeatsPriority(t *testing.T) {
	// The lower-priority rule matches longer input and must win.
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Sym('a')},
		{Type: tokB, Pattern: Lit("aa")},
	})

	toks, err := lexAll(t, l, "aa")
	require.NoError(t, err)
	require.Equal(t, []Token{{Type: tokB, Text: "aa", Start: 0, End: 2}}, toks)
}

func wordRules() []Rule {
	letter := Alt(Sym('a'), Sym('b'), Sym('c'), Sym('f'), Sym('o'), Sym('r'))
	digit := Alt(Sym('0'), Sym('1'), Sym('2'), Sym('9'))
	return []Rule{
		{Type: tokA, Pattern: Plus(letter)},
		{Type: tokB, Pattern: Plus(digit)},
		{Type: tokC, Pattern: Plus(Sym(' '))},
	}
}

func TestTokenContiguity(t *testing.T) {
	input := "foo 12 bar 2900"
	l := mustLexer(t, Text, wordRules())

	toks, err := lexAll(t, l, input)
	require.NoError(t, err)
	require.NotEmpty(t, toks)

	rebuilt := ""
	offset := 0
	for _, tok := range toks {
		assert.Equal(t, offset, tok.Start, "token %v should start where the previous ended", tok)
		assert.Greater(t, tok.End, tok.Start, "token %v should not be empty", tok)
		rebuilt += tok.Text
		offset = tok.End
	}
	assert.Equal(t, input, rebuilt, "token texts should reassemble the input")
	assert.Equal(t, len(input), offset)
}

func TestStreamingEquivalence(t *testing.T) {
	input := "foo 12 bar 2900 c"

	whole := mustLexer(t, Text, wordRules())
	wantToks, err := lexAll(t, whole, input)
	require.NoError(t, err)

	symbolwise := mustLexer(t, Text, wordRules())
	var gotToks []Token
	for _, sym := range input {
		toks, err := symbolwise.Feed(string(sym))
		require.NoError(t, err)
		gotToks = append(gotToks, toks...)
	}
	final, err := symbolwise.End()
	require.NoError(t, err)
	gotToks = append(gotToks, final...)

	require.Equal(t, wantToks, gotToks, "symbol-at-a-time feed should emit the same tokens")
}

func TestNoMatch(t *testing.T) {
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Lit("a")},
	})

	_, err := l.Feed("xyz")
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, 0, noMatch.Start)
	assert.Equal(t, "x", noMatch.Text, "the scan fails on the first symbol")
}

func TestIncompleteAtEnd(t *testing.T) {
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Lit("ab")},
	})

	toks, err := l.Feed("a")
	require.NoError(t, err)
	require.Empty(t, toks, "no token can be cut yet")

	_, err = l.End()
	var incomplete *IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 0, incomplete.Start)
	assert.Equal(t, "a", incomplete.Text)
}

func TestTrailingSymbolsReplayed(t *testing.T) {
	// a+b can only accept on b, so every scan of "aaac" falls back to the
	// single-a rule and replays the rest into a fresh scan.
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Join(Plus(Sym('a')), Sym('b'))},
		{Type: tokB, Pattern: Sym('a')},
	})

	toks, err := l.Feed("aaac")
	require.Equal(t, []Token{
		{Type: tokB, Text: "a", Start: 0, End: 1},
		{Type: tokB, Text: "a", Start: 1, End: 2},
		{Type: tokB, Text: "a", Start: 2, End: 3},
	}, toks)

	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, 3, noMatch.Start)
	assert.Equal(t, "c", noMatch.Text)
}

func TestSkipRules(t *testing.T) {
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Plus(Alt(Sym('a'), Sym('b')))},
		{Type: tokC, Pattern: Plus(Sym(' ')), Skip: true},
	})

	toks, err := lexAll(t, l, "ab ba  a")
	require.NoError(t, err)
	require.Equal(t, []Token{
		{Type: tokA, Text: "ab", Start: 0, End: 2},
		{Type: tokA, Text: "ba", Start: 3, End: 5},
		{Type: tokA, Text: "a", Start: 7, End: 8},
	}, toks, "skipped spans still advance offsets")
}

func TestEndEmitsPendingMatch(t *testing.T) {
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Plus(Sym('a'))},
	})

	toks, err := l.Feed("aaa")
	require.NoError(t, err)
	require.Empty(t, toks, "a+ could still grow, so nothing is cut yet")

	final, err := l.End()
	require.NoError(t, err)
	require.Equal(t, []Token{{Type: tokA, Text: "aaa", Start: 0, End: 3}}, final)
}

func TestNoZeroWidthTokens(t *testing.T) {
	// a* accepts the empty string at every offset; emitting that would
	// loop forever without consuming anything.
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Star(Sym('a'))},
		{Type: tokB, Pattern: Sym('b')},
	})

	toks, err := lexAll(t, l, "bb")
	require.NoError(t, err)
	require.Equal(t, []Token{
		{Type: tokB, Text: "b", Start: 0, End: 1},
		{Type: tokB, Text: "b", Start: 1, End: 2},
	}, toks)
}

func TestByteAlphabet(t *testing.T) {
	eAcute := []byte("é") // 0xC3 0xA9
	l := mustLexer(t, Bytes, []Rule{
		{Type: tokA, Pattern: LitBytes(eAcute)},
		{Type: tokB, Pattern: ByteSym(0xC3)},
	})

	toks, err := lexAll(t, l, "é")
	require.NoError(t, err)
	// Two byte symbols, one token spanning both.
	require.Equal(t, []Token{{Type: tokA, Text: "\xc3\xa9", Start: 0, End: 2}}, toks)
}

func TestTextRuneSplitAcrossChunks(t *testing.T) {
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Lit("héllo")},
	})

	raw := []byte("héllo")
	var toks []Token
	// Split inside the two-byte é.
	for _, chunk := range [][]byte{raw[:2], raw[2:]} {
		out, err := l.FeedBytes(chunk)
		require.NoError(t, err)
		toks = append(toks, out...)
	}
	final, err := l.End()
	require.NoError(t, err)
	toks = append(toks, final...)

	require.Equal(t, []Token{{Type: tokA, Text: "héllo", Start: 0, End: 5}}, toks,
		"offsets count code points, not bytes")
}

func TestFeedResumesAfterNoMatch(t *testing.T) {
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Sym('a')},
	})

	_, err := l.Feed("x")
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	require.Equal(t, 1, l.Offset(), "the failed scan is consumed")

	toks, err := lexAll(t, l, "a")
	require.NoError(t, err)
	require.Equal(t, []Token{{Type: tokA, Text: "a", Start: 1, End: 2}}, toks)
}

func TestLexerConstructionErrors(t *testing.T) {
	var cons *ConstructionError

	_, err := NewLexer(AlphaNone, []Rule{{Type: tokA, Pattern: Sym('a')}})
	require.ErrorAs(t, err, &cons, "alphabet must be text or bytes")

	_, err = NewLexer(Text, nil)
	require.ErrorAs(t, err, &cons, "empty rule table")

	_, err = NewLexer(Text, []Rule{{Type: tokA}})
	require.ErrorAs(t, err, &cons, "rule without a pattern")

	_, err = NewLexer(Text, []Rule{{Type: tokA, Pattern: LitBytes([]byte("a"))}})
	require.ErrorAs(t, err, &cons, "byte pattern in a text lexer")

	_, err = NewLexer(Bytes, []Rule{{Type: tokA, Pattern: Concat(Lit("a"), LitBytes([]byte("b")))}})
	require.ErrorAs(t, err, &cons, "mixed-alphabet pattern")

	// Alphabet-independent patterns fit either unit.
	_, err = NewLexer(Bytes, []Rule{{Type: tokA, Pattern: Plus(Any)}})
	require.NoError(t, err)
}

func TestFeedAfterEnd(t *testing.T) {
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Sym('a')},
	})
	_, err := l.End()
	require.NoError(t, err)

	_, err = l.Feed("a")
	require.Error(t, err)
	var noMatch *NoMatchError
	require.False(t, errors.As(err, &noMatch), "misuse is not a scan failure")
	_, err = l.End()
	require.Error(t, err)
}

func TestEmptyInput(t *testing.T) {
	l := mustLexer(t, Text, []Rule{
		{Type: tokA, Pattern: Sym('a')},
	})
	toks, err := l.Feed("")
	require.NoError(t, err)
	require.Empty(t, toks)

	final, err := l.End()
	require.NoError(t, err)
	require.Empty(t, final, "end of empty input is clean")
}
