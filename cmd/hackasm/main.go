package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/hack/assembler"
	"github.com/slowlang/hack/assembler/format"
)

func main() {
	asmCmd := &cli.Command{
		Name:        "asm",
		Description: "translate .asm files into .hack files",
		Action:      asmAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "output file (single input only)"),
			cli.NewFlag("listing", "", "write listing to file"),
			verbosityFlag(),
		},
	}

	symbolsCmd := &cli.Command{
		Name:        "symbols",
		Description: "print the symbol table of assembled files",
		Action:      symbolsAct,
		Args:        cli.Args{},
		Flags:       []*cli.Flag{verbosityFlag()},
	}

	disasmCmd := &cli.Command{
		Name:        "disasm",
		Description: "print assembly for .hack files",
		Action:      disasmAct,
		Args:        cli.Args{},
		Flags:       []*cli.Flag{verbosityFlag()},
	}

	app := &cli.Command{
		Name:        "hackasm",
		Description: "hackasm is an assembler for the Hack platform",
		Commands: []*cli.Command{
			asmCmd,
			symbolsCmd,
			disasmCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func asmAct(c *cli.Command) (err error) {
	ctx := setup(c)

	out := c.String("output")
	if out != "" && len(c.Args) != 1 {
		return errors.New("--output needs exactly one input file, got %d", len(c.Args))
	}

	for _, a := range c.Args {
		name := out
		if name == "" {
			name = outputName(a, ".hack")
		}

		res, err := assembleTo(ctx, a, name, c.String("listing"))
		if err != nil {
			return errors.Wrap(err, "assemble %v", a)
		}

		fmt.Printf("%v: %d words -> %v\n", a, len(res.Words), name)
	}

	return nil
}

func symbolsAct(c *cli.Command) (err error) {
	ctx := setup(c)

	for _, a := range c.Args {
		res, err := assembler.AssembleFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "assemble %v", a)
		}

		if len(c.Args) > 1 {
			fmt.Printf("%v:\n", a)
		}

		for _, s := range res.Symbols.Sorted() {
			fmt.Printf("%-24s %5d\n", s.Name, s.Address)
		}
	}

	return nil
}

func disasmAct(c *cli.Command) (err error) {
	ctx := setup(c)

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read file")
		}

		tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", a)

		words, err := format.ParseBinary(text)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		obj, err := format.Disassembly(nil, words)
		if err != nil {
			return errors.Wrap(err, "disassemble %v", a)
		}

		fmt.Printf("%s", obj)
	}

	return nil
}

// assembleTo writes the .hack file for src and the listing, if asked for.
// Nothing is left at out when any step fails.
func assembleTo(ctx context.Context, src, out, listing string) (_ *assembler.Result, err error) {
	text, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", src)

	res, err := assembler.Assemble(ctx, src, text)
	if err != nil {
		return nil, err
	}

	err = writeFile(out, format.Binary(nil, res.Words))
	if err != nil {
		return nil, errors.Wrap(err, "write %v", out)
	}

	if listing == "" {
		return res, nil
	}

	b, err := format.Listing(nil, res.Words, res.SourceMap, text)
	if err == nil {
		err = writeFile(listing, b)
	}
	if err != nil {
		_ = os.Remove(out)

		return nil, errors.Wrap(err, "listing %v", listing)
	}

	return res, nil
}

// writeFile replaces name with data, going through a temporary file
// in the same directory so a failed write leaves nothing behind.
func writeFile(name string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp")
	}

	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	_, err = f.Write(data)
	if err != nil {
		_ = f.Close()
		return errors.Wrap(err, "write")
	}

	err = f.Close()
	if err != nil {
		return errors.Wrap(err, "close")
	}

	err = os.Chmod(f.Name(), 0o644)
	if err != nil {
		return errors.Wrap(err, "chmod")
	}

	err = os.Rename(f.Name(), name)
	if err != nil {
		return errors.Wrap(err, "rename")
	}

	return nil
}

func setup(c *cli.Command) context.Context {
	if v := c.String("v"); v != "" {
		tlog.SetVerbosity(v)
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	return ctx
}

func verbosityFlag() *cli.Flag {
	return cli.NewFlag("v", "", "verbosity topics: pass1,pass2,symtab")
}

func outputName(path, ext string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ext
}
