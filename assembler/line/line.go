package line

import (
	"bufio"
	"bytes"
	"strconv"

	"tlog.app/go/errors"
)

type (
	Kind int

	// Line is one classified source line.
	// Text is the label name, the address operand or the whole compute instruction.
	Line struct {
		Num  int
		Kind Kind
		Text string
	}

	Scanner struct {
		s    *bufio.Scanner
		lnum int
		l    Line
	}
)

const (
	Blank Kind = iota
	Label
	Address
	Compute
)

// Parse classifies a raw source line.
// Only ASCII spaces are trimmed, tabs are left in place.
func Parse(raw []byte, num int) Line {
	if i := bytes.Index(raw, []byte("//")); i >= 0 {
		raw = raw[:i]
	}

	st := skipSpaces(raw, 0)
	end := skipSpacesBack(raw, len(raw))

	if st >= end {
		return Line{Num: num, Kind: Blank}
	}

	raw = raw[st:end]

	switch {
	case raw[0] == '(' && raw[len(raw)-1] == ')':
		return Line{Num: num, Kind: Label, Text: string(raw[1 : len(raw)-1])}
	case raw[0] == '@':
		return Line{Num: num, Kind: Address, Text: string(raw[1:])}
	default:
		return Line{Num: num, Kind: Compute, Text: string(raw)}
	}
}

// NewScanner iterates over non-blank lines of text.
func NewScanner(text []byte) *Scanner {
	s := bufio.NewScanner(bytes.NewReader(text))
	s.Buffer(nil, max(len(text)+1, bufio.MaxScanTokenSize))

	return &Scanner{s: s}
}

func (s *Scanner) Scan() bool {
	for s.s.Scan() {
		s.lnum++

		s.l = Parse(s.s.Bytes(), s.lnum)
		if s.l.Kind != Blank {
			return true
		}
	}

	return false
}

func (s *Scanner) Line() Line { return s.l }

func (s *Scanner) Err() error {
	if err := s.s.Err(); err != nil {
		return errors.Wrap(err, "scanner")
	}

	return nil
}

// Split returns all non-blank lines of text.
func Split(text []byte) (ls []Line, err error) {
	s := NewScanner(text)

	for s.Scan() {
		ls = append(ls, s.Line())
	}

	return ls, s.Err()
}

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Label:
		return "label"
	case Address:
		return "address"
	case Compute:
		return "compute"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

func skipSpaces(b []byte, i int) int {
	for i < len(b) && b[i] == ' ' {
		i++
	}

	return i
}

func skipSpacesBack(b []byte, i int) int {
	for i > 0 && b[i-1] == ' ' {
		i--
	}

	return i
}
