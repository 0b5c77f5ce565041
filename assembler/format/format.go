package format

import (
	"bufio"
	"bytes"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/hack/assembler/code"
	"github.com/slowlang/hack/assembler/line"
)

// Binary appends words as 16-character binary lines.
// There is no newline after the last word.
func Binary(b []byte, words []code.Word) []byte {
	for i, w := range words {
		if i != 0 {
			b = append(b, '\n')
		}

		b = w.AppendBinary(b)
	}

	return b
}

// ParseBinary reads words written by Binary. Empty lines are skipped.
func ParseBinary(text []byte) (words []code.Word, err error) {
	s := newScanner(text)

	lnum := 0
	for s.Scan() {
		lnum++

		l := bytes.TrimSpace(s.Bytes())
		if len(l) == 0 {
			continue
		}

		w, err := code.ParseWord(string(l))
		if err != nil {
			return nil, errors.Wrap(err, "line %d", lnum)
		}

		words = append(words, w)
	}

	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "scanner")
	}

	return words, nil
}

// Listing appends every source line prefixed with its number,
// and with the ROM address and word for lines which produced one.
// Label lines show the address they are bound to.
func Listing(b []byte, words []code.Word, sourceMap []int, text []byte) ([]byte, error) {
	if len(words) != len(sourceMap) {
		return nil, errors.New("source map mismatch: %d words, %d entries", len(words), len(sourceMap))
	}

	s := newScanner(text)

	lnum, j := 0, 0
	for s.Scan() {
		lnum++

		if j < len(sourceMap) && sourceMap[j] == lnum {
			b = app(b, "%5d  %v  %4d  %s\n", j, words[j], lnum, s.Bytes())
			j++

			continue
		}

		if line.Parse(s.Bytes(), lnum).Kind == line.Label {
			b = app(b, "%5d  %16s  %4d  %s\n", j, "", lnum, s.Bytes())

			continue
		}

		b = app(b, "%5s  %16s  %4d  %s\n", "", "", lnum, s.Bytes())
	}

	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "scanner")
	}

	if j != len(words) {
		return nil, errors.New("word %d: no source line %d", j, sourceMap[j])
	}

	return b, nil
}

// Disassembly appends one instruction per line.
func Disassembly(b []byte, words []code.Word) (_ []byte, err error) {
	for i, w := range words {
		var text string

		text, err = code.Decode(w)
		if err != nil {
			return nil, errors.Wrap(err, "word %d", i)
		}

		b = app(b, "%s\n", text)
	}

	return b, nil
}

func newScanner(text []byte) *bufio.Scanner {
	s := bufio.NewScanner(bytes.NewReader(text))
	s.Buffer(nil, max(len(text)+1, bufio.MaxScanTokenSize))

	return s
}

func app(b []byte, f string, args ...any) []byte {
	return hfmt.Appendf(b, f, args...)
}
