package code

import (
	"strconv"
	"strings"

	"tlog.app/go/errors"
)

type (
	// Word is one 16-bit Hack machine instruction.
	Word uint16
)

const (
	MaxAddress = 1<<15 - 1

	cPrefix Word = 0b111 << 13
)

var (
	ErrAddressRange    = errors.New("address out of range")
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	ErrSyntax          = errors.New("syntax error")
	ErrBadWord         = errors.New("bad word")
)

// a-bit followed by c1..c6.
var comp = map[string]Word{
	"0":   0b0101010,
	"1":   0b0111111,
	"-1":  0b0111010,
	"D":   0b0001100,
	"A":   0b0110000,
	"M":   0b1110000,
	"!D":  0b0001101,
	"!A":  0b0110001,
	"!M":  0b1110001,
	"-D":  0b0001111,
	"-A":  0b0110011,
	"-M":  0b1110011,
	"D+1": 0b0011111,
	"A+1": 0b0110111,
	"M+1": 0b1110111,
	"D-1": 0b0001110,
	"A-1": 0b0110010,
	"M-1": 0b1110010,
	"D+A": 0b0000010,
	"D+M": 0b1000010,
	"D-A": 0b0010011,
	"D-M": 0b1010011,
	"A-D": 0b0000111,
	"M-D": 0b1000111,
	"D&A": 0b0000000,
	"D&M": 0b1000000,
	"D|A": 0b0010101,
	"D|M": 0b1010101,
}

var dest = map[string]Word{
	"":    0b000,
	"M":   0b001,
	"D":   0b010,
	"MD":  0b011,
	"A":   0b100,
	"AM":  0b101,
	"AD":  0b110,
	"AMD": 0b111,
}

var jump = map[string]Word{
	"":    0b000,
	"JGT": 0b001,
	"JEQ": 0b010,
	"JGE": 0b011,
	"JLT": 0b100,
	"JNE": 0b101,
	"JLE": 0b110,
	"JMP": 0b111,
}

var (
	compNames = invert(comp)
	destNames = invert(dest)
	jumpNames = invert(jump)
)

// A encodes an address instruction.
func A(addr int) (Word, error) {
	if addr < 0 || addr > MaxAddress {
		return 0, errors.Wrap(ErrAddressRange, "%d", addr)
	}

	return Word(addr), nil
}

// C encodes a compute instruction of the form [dest=]comp[;jump].
func C(text string) (w Word, err error) {
	d, c, j, err := Split(text)
	if err != nil {
		return 0, err
	}

	cc, ok := comp[c]
	if !ok {
		return 0, errors.Wrap(ErrUnknownMnemonic, "comp %q", c)
	}

	dc, ok := dest[d]
	if !ok {
		return 0, errors.Wrap(ErrUnknownMnemonic, "dest %q", d)
	}

	jc, ok := jump[j]
	if !ok {
		return 0, errors.Wrap(ErrUnknownMnemonic, "jump %q", j)
	}

	return cPrefix | cc<<6 | dc<<3 | jc, nil
}

// Split cuts compute instruction text into its dest, comp and jump fields.
// A missing '=' means empty dest, a missing ';' means empty jump.
func Split(text string) (d, c, j string, err error) {
	eq := strings.IndexByte(text, '=')
	sc := strings.IndexByte(text, ';')

	if eq >= 0 && sc >= 0 && sc < eq {
		return "", "", "", errors.Wrap(ErrSyntax, "';' before '=' in %q", text)
	}

	st, end := 0, len(text)

	if eq >= 0 {
		d = text[:eq]
		st = eq + 1
	}

	if sc >= 0 {
		j = text[sc+1:]
		end = sc
	}

	return d, text[st:end], j, nil
}

// Decode turns a word back into assembly text.
func Decode(w Word) (string, error) {
	if w&(1<<15) == 0 {
		return "@" + strconv.Itoa(int(w)), nil
	}

	if w&cPrefix != cPrefix {
		return "", errors.Wrap(ErrBadWord, "%v: compute prefix", w)
	}

	c, ok := compNames[w>>6&0x7f]
	if !ok {
		return "", errors.Wrap(ErrUnknownMnemonic, "%v: comp %07b", w, uint16(w>>6&0x7f))
	}

	d := destNames[w>>3&0x7]
	j := jumpNames[w&0x7]

	var b strings.Builder

	if d != "" {
		b.WriteString(d)
		b.WriteByte('=')
	}

	b.WriteString(c)

	if j != "" {
		b.WriteByte(';')
		b.WriteString(j)
	}

	return b.String(), nil
}

// ParseWord parses 16 characters of '0' and '1'.
func ParseWord(s string) (Word, error) {
	if len(s) != 16 {
		return 0, errors.Wrap(ErrBadWord, "%q: want 16 bits, got %d", s, len(s))
	}

	x, err := strconv.ParseUint(s, 2, 16)
	if err != nil {
		return 0, errors.Wrap(ErrBadWord, "%q", s)
	}

	return Word(x), nil
}

func (w Word) AppendBinary(b []byte) []byte {
	for i := 15; i >= 0; i-- {
		b = append(b, '0'+byte(w>>i&1))
	}

	return b
}

func (w Word) String() string {
	var buf [16]byte

	return string(w.AppendBinary(buf[:0]))
}

func invert(m map[string]Word) map[Word]string {
	r := make(map[Word]string, len(m))

	for k, v := range m {
		r[v] = k
	}

	return r
}
