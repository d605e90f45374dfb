package hostcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/aql-lang/aql/lang/compiler"
	"github.com/aql-lang/aql/lang/vm"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(ctx, stdio, args...)
}

// RunFiles compiles and executes each file in turn, in its own Thread with
// a fresh global environment, stopping at the first one that fails.
func RunFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, fname := range files {
		if err := runFile(ctx, stdio, fname); err != nil {
			printError(stdio, err)
			return err
		}
	}
	return nil
}

func runFile(ctx context.Context, stdio mainer.Stdio, fname string) error {
	src, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	proto, err := compiler.Compile(fname, src)
	if err != nil {
		return err
	}

	th := &vm.Thread{
		Name:   fname,
		Stdout: stdio.Stdout,
		Stderr: stdio.Stderr,
		Stdin:  stdio.Stdin,
	}
	result, err := th.RunProgram(ctx, proto)
	if err != nil {
		return err
	}
	if result != nil && result.Type() != "nil" {
		fmt.Fprintln(stdio.Stdout, result.String())
	}
	return nil
}
