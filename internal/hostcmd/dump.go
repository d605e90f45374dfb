package hostcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/aql-lang/aql/lang/compiler"
)

func (c *Cmd) Dump(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DumpFiles(ctx, stdio, c.Strip, args...)
}

// DumpFiles compiles the given file and writes its precompiled bytecode dump
// to stdout. Only a single file is accepted, since the dump format carries
// exactly one prototype tree.
func DumpFiles(ctx context.Context, stdio mainer.Stdio, strip bool, files ...string) error {
	if len(files) != 1 {
		return fmt.Errorf("dump: exactly one file must be provided")
	}

	src, err := os.ReadFile(files[0])
	if err != nil {
		printError(stdio, err)
		return err
	}
	proto, err := compiler.Compile(files[0], src)
	if err != nil {
		printError(stdio, err)
		return err
	}
	data, err := compiler.Dump(proto, strip)
	if err != nil {
		printError(stdio, err)
		return err
	}
	if _, err := stdio.Stdout.Write(data); err != nil {
		return err
	}
	return nil
}
