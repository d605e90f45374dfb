package hostcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/aql-lang/aql/lang/compiler"
)

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(ctx, stdio, args...)
}

// CompileFiles compiles each file and prints a disassembly listing of its
// bytecode, continuing past per-file errors.
func CompileFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	var failed bool
	for _, fname := range files {
		if err := compileFile(stdio, fname); err != nil {
			printError(stdio, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("compile: one or more files failed")
	}
	return nil
}

func compileFile(stdio mainer.Stdio, fname string) error {
	src, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	proto, err := compiler.Compile(fname, src)
	if err != nil {
		return err
	}
	p := compiler.Printer{Output: stdio.Stdout}
	return p.Print(proto)
}
