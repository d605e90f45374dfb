package hostcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/aql-lang/aql/lang/lexer"
	"github.com/aql-lang/aql/lang/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles scans each file in turn and prints its token stream, one
// token per line, continuing past per-file errors so a single invocation
// reports as much as possible.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	var failed bool
	for _, fname := range files {
		if err := tokenizeFile(stdio, fname); err != nil {
			printError(stdio, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("tokenize: one or more files failed")
	}
	return nil
}

func tokenizeFile(stdio mainer.Stdio, fname string) error {
	src, err := os.ReadFile(fname)
	if err != nil {
		return err
	}

	var errs lexer.ErrorList
	var l lexer.Lexer
	l.Init(fname, src, errs.Add)

	var val lexer.Value
	for {
		tok := l.Next(&val)
		fmt.Fprintf(stdio.Stdout, "%s: %s", val.Pos, tok)
		if lit := tokenLiteral(tok, val); lit != "" {
			fmt.Fprintf(stdio.Stdout, " %s", lit)
		}
		fmt.Fprintln(stdio.Stdout)
		if tok == token.EOF {
			break
		}
	}
	return errs.Err()
}

func tokenLiteral(tok token.Token, val lexer.Value) string {
	switch tok {
	case token.IDENT:
		return val.Str
	case token.STRING:
		return fmt.Sprintf("%q", val.Str)
	case token.INT:
		return fmt.Sprintf("%d", val.Int)
	case token.FLOAT:
		return fmt.Sprintf("%g", val.Float)
	default:
		return ""
	}
}
