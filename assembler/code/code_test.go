package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestA(t *testing.T) {
	for _, tc := range []struct {
		addr int
		want string
	}{
		{0, "0000000000000000"},
		{2, "0000000000000010"},
		{25, "0000000000011001"},
		{16384, "0100000000000000"},
		{MaxAddress, "0111111111111111"},
	} {
		w, err := A(tc.addr)
		require.NoError(t, err, "addr %d", tc.addr)
		assert.Equal(t, tc.want, w.String(), "addr %d", tc.addr)
	}

	_, err := A(MaxAddress + 1)
	assert.ErrorIs(t, err, ErrAddressRange)

	_, err = A(-1)
	assert.ErrorIs(t, err, ErrAddressRange)
}

func TestC(t *testing.T) {
	for _, tc := range []struct {
		text string
		want string
	}{
		{"D=A", "1110110000010000"},
		{"D=D+A", "1110000010010000"},
		{"M=D", "1110001100001000"},
		{"M=1", "1110111111001000"},
		{"0;JMP", "1110101010000111"},
		{"D;JGT", "1110001100000001"},
		{"AMD=M-1;JNE", "1111110010111101"},
		{"D|M", "1111010101000000"},
	} {
		w, err := C(tc.text)
		require.NoError(t, err, "text %q", tc.text)
		assert.Equal(t, tc.want, w.String(), "text %q", tc.text)
	}
}

func TestCErrors(t *testing.T) {
	for _, text := range []string{"D=X", "Q=D", "D;JMPX", "D=", "", "D = A"} {
		_, err := C(text)
		assert.ErrorIs(t, err, ErrUnknownMnemonic, "text %q", text)
	}

	_, err := C("0;J=MP")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestSplit(t *testing.T) {
	for _, tc := range []struct {
		text    string
		d, c, j string
	}{
		{"D=A", "D", "A", ""},
		{"0;JMP", "", "0", "JMP"},
		{"AM=M+1;JEQ", "AM", "M+1", "JEQ"},
		{"D", "", "D", ""},
	} {
		d, c, j, err := Split(tc.text)
		require.NoError(t, err)
		assert.Equal(t, []string{tc.d, tc.c, tc.j}, []string{d, c, j}, "text %q", tc.text)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	w, err := ParseWord("0000000000011001")
	require.NoError(t, err)

	s, err := Decode(w)
	require.NoError(t, err)
	assert.Equal(t, "@25", s)

	for c := range comp {
		for d := range dest {
			for j := range jump {
				text := c
				if d != "" {
					text = d + "=" + text
				}
				if j != "" {
					text += ";" + j
				}

				w, err := C(text)
				require.NoError(t, err, "text %q", text)

				back, err := Decode(w)
				require.NoError(t, err, "word %v", w)
				assert.Equal(t, text, back)
			}
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(0b1000000000000000)
	assert.ErrorIs(t, err, ErrBadWord)

	_, err = Decode(0b1111111111000000)
	assert.ErrorIs(t, err, ErrUnknownMnemonic)

	_, err = ParseWord("0101")
	assert.ErrorIs(t, err, ErrBadWord)

	_, err = ParseWord("01010101010101x1")
	assert.ErrorIs(t, err, ErrBadWord)
}
