package relex

import "fmt"

// NoMatchError reports that a scan consumed symbols no rule can ever
// match: every rule died without any rule having accepted at or past the
// scan start. Start is the symbol offset where the scan began and Text
// holds the symbols consumed, so callers can implement their own
// recovery, e.g. skip one symbol and re-feed the rest.
type NoMatchError struct {
	Start int
	Text  string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("relex: no rule matches at offset %d (consumed %q)", e.Start, e.Text)
}

// IncompleteError reports that input ended while a scan was still in
// progress with no accepted match recorded. Unlike NoMatchError, more
// input could have produced a match; streaming callers can use the
// distinction to tell "wait for more data" from "this will never match".
type IncompleteError struct {
	Start int
	Text  string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("relex: input ended mid-token at offset %d (pending %q)", e.Start, e.Text)
}

// ConstructionError reports a malformed regex tree or an invalid lexer
// configuration, such as rules mixing text and byte alphabets. The
// package combinators never produce malformed trees on their own.
type ConstructionError struct {
	Reason string
}

func (e *ConstructionError) Error() string {
	return "relex: " + e.Reason
}
