// Command relex tokenizes a file or stdin against a rule table given on
// the command line and prints the resulting token stream, one token per
// line. Rules are NAME=PATTERN pairs in priority order, using the
// package's textual pattern notation; prefix a name with "-" to match
// but not print (whitespace, comments). Input is fed to the lexer in
// chunks, so arbitrarily large inputs stream through without buffering.
//
// Example:
//
//	relex -f prog.src 'IDENT=(a|b|c)(a|b|c|0|1)*' 'NUM=(0|1)(0|1)*' '-WS= +'
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"relex"
)

type cli struct {
	Rules []string `arg:"" help:"Rules as NAME=PATTERN, highest priority first. A leading '-' on the name makes the rule match silently."`
	File  string   `help:"Input file (default stdin)." short:"f" type:"existingfile" optional:""`
	Chunk int      `help:"Feed size in bytes." default:"4096"`
	Bytes bool     `help:"Lex raw bytes instead of code points."`
	Quiet bool     `help:"Suppress token output, report errors only." short:"q"`
}

func main() {
	var params cli
	kong.Parse(&params)

	names := make([]string, 0, len(params.Rules))
	rules := make([]relex.Rule, 0, len(params.Rules))
	for i, arg := range params.Rules {
		name, pattern, ok := strings.Cut(arg, "=")
		if !ok {
			log.Fatalf("rule %d: want NAME=PATTERN, got %q", i, arg)
		}
		skip := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")
		re, err := relex.Parse(pattern)
		if err != nil {
			log.Fatalf("rule %s: %v", name, err)
		}
		rules = append(rules, relex.Rule{Type: relex.TokenType(i), Pattern: re, Skip: skip})
		names = append(names, name)
	}

	alphabet := relex.Text
	if params.Bytes {
		alphabet = relex.Bytes
	}
	lx, err := relex.NewLexer(alphabet, rules)
	if err != nil {
		log.Fatalln("lexer:", err)
	}

	var in io.Reader = os.Stdin
	if params.File != "" {
		f, err := os.Open(params.File)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		in = f
	}

	emit := func(toks []relex.Token) {
		if params.Quiet {
			return
		}
		for _, t := range toks {
			fmt.Printf("%s\t%d:%d\t%q\n", names[t.Type], t.Start, t.End, t.Text)
		}
	}

	buf := make([]byte, params.Chunk)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			toks, lerr := lx.FeedBytes(buf[:n])
			emit(toks)
			if lerr != nil {
				log.Fatalln("lex:", lerr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalln("read:", err)
		}
	}
	toks, lerr := lx.End()
	emit(toks)
	if lerr != nil {
		log.Fatalln("lex:", lerr)
	}
}
