package assembler

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/hack/assembler/code"
	"github.com/slowlang/hack/assembler/format"
	"github.com/slowlang/hack/assembler/line"
	"github.com/slowlang/hack/assembler/symtab"
)

type (
	// Assembler holds the state of one translation run.
	Assembler struct {
		Symbols *symtab.Table

		rom int // instructions seen in pass 1
		ram int // next free variable address

		words     []code.Word
		sourceMap []int

		ignored []line.Line // labels bound before, by an earlier label or the platform
	}

	Result struct {
		Words []code.Word

		// SourceMap maps ROM address to the 1-based source line.
		SourceMap []int

		Symbols *symtab.Table
	}

	LineError struct {
		Line int
		Text string
		Err  error
	}
)

// VarBase is the RAM address of the first variable.
const VarBase = 16

var (
	ErrBadNumber = errors.New("bad number")
	ErrTooLarge  = errors.New("program too large")
	ErrSyntax    = code.ErrSyntax
)

func AssembleFile(ctx context.Context, name string) (*Result, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Assemble(ctx, name, text)
}

// Assemble runs both passes over text using fresh state.
func Assemble(ctx context.Context, name string, text []byte) (_ *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "assemble", "name", name)
	defer tr.Finish("err", &err)

	a := New()

	err = a.Pass1(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "pass1")
	}

	err = a.Pass2(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "pass2")
	}

	if tr.If("symtab") {
		tr.Printw("symbols", "table", a.Symbols)
	}

	tr.Printw("assembled", "words", len(a.words), "symbols", a.Symbols.Len(), "next_var", a.ram)

	return a.Result(), nil
}

// Translate turns assembly text into newline separated binary words.
func Translate(ctx context.Context, text []byte) ([]byte, error) {
	res, err := Assemble(ctx, "", text)
	if err != nil {
		return nil, err
	}

	return format.Binary(nil, res.Words), nil
}

func New() *Assembler {
	return &Assembler{
		Symbols: symtab.New(),
		ram:     VarBase,
	}
}

// Pass1 binds every label to the ROM address of the instruction following it.
func (a *Assembler) Pass1(ctx context.Context, text []byte) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "pass1")
	defer tr.Finish("err", &err)

	a.rom = 0
	a.ignored = a.ignored[:0]

	s := line.NewScanner(text)

	for s.Scan() {
		l := s.Line()

		if l.Kind == line.Label {
			if !a.Symbols.Add(l.Text, a.rom) {
				a.ignored = append(a.ignored, l)

				if symtab.Reserved(l.Text) {
					tr.Printw("label shadows reserved symbol, ignored", "name", l.Text, "line", l.Num, "addr", a.Symbols.Address(l.Text))
				} else {
					tr.Printw("label redefined, first wins", "name", l.Text, "line", l.Num, "addr", a.Symbols.Address(l.Text))
				}
			}

			if tr.If("pass1") {
				tr.Printw("label", "name", l.Text, "addr", a.rom, "line", l.Num)
			}

			continue
		}

		if a.rom > code.MaxAddress {
			return &LineError{Line: l.Num, Text: l.Text, Err: errors.Wrap(ErrTooLarge, "rom is %d words", code.MaxAddress+1)}
		}

		a.rom++
	}

	return s.Err()
}

// Pass2 resolves symbols, allocates variables and encodes instructions.
func (a *Assembler) Pass2(ctx context.Context, text []byte) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "pass2")
	defer tr.Finish("err", &err)

	a.ram = VarBase
	a.words = a.words[:0]
	a.sourceMap = a.sourceMap[:0]

	s := line.NewScanner(text)

	for s.Scan() {
		l := s.Line()

		var w code.Word

		switch l.Kind {
		case line.Label:
			continue
		case line.Address:
			var addr int

			addr, err = a.resolve(l.Text)
			if err == nil {
				w, err = code.A(addr)
			}
		case line.Compute:
			w, err = code.C(l.Text)
		}

		if err != nil {
			return &LineError{Line: l.Num, Text: l.Text, Err: err}
		}

		if tr.If("pass2") {
			tr.Printw("word", "rom", len(a.words), "line", l.Num, "text", l.Text, "word", w)
		}

		a.words = append(a.words, w)
		a.sourceMap = append(a.sourceMap, l.Num)
	}

	return s.Err()
}

func (a *Assembler) Result() *Result {
	return &Result{
		Words:     a.words,
		SourceMap: a.sourceMap,
		Symbols:   a.Symbols,
	}
}

func (a *Assembler) resolve(op string) (int, error) {
	if op == "" {
		return 0, errors.Wrap(ErrSyntax, "empty address")
	}

	if isDigit(op[0]) {
		addr, err := strconv.Atoi(op)
		if err != nil {
			return 0, errors.Wrap(ErrBadNumber, "decimal")
		}

		return addr, nil
	}

	if addr, ok := a.Symbols.Lookup(op); ok {
		return addr, nil
	}

	addr := a.ram
	a.ram++

	a.Symbols.Add(op, addr)

	return addr, nil
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
