package line

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		kind Kind
		text string
	}{
		{"", Blank, ""},
		{"     ", Blank, ""},
		{"  // just a comment", Blank, ""},
		{"//", Blank, ""},
		{"(LOOP)", Label, "LOOP"},
		{"  (END)  // the end", Label, "END"},
		{"()", Label, ""},
		{"(", Compute, "("},
		{"(LOOP", Compute, "(LOOP"},
		{"@2", Address, "2"},
		{"@i// counter", Address, "i"},
		{"@", Address, ""},
		{"D=M+1", Compute, "D=M+1"},
		{"   0;JMP   ", Compute, "0;JMP"},
		{"\tD=A", Compute, "\tD=A"},
		{"\t", Compute, "\t"},
		{"@ x", Address, " x"},
	} {
		l := Parse([]byte(tc.raw), 7)

		assert.Equal(t, Line{Num: 7, Kind: tc.kind, Text: tc.text}, l, "raw %q", tc.raw)
	}
}

func TestSplit(t *testing.T) {
	text := "// header\n\n(LOOP)\r\n@LOOP\r\n  \n0;JMP"

	ls, err := Split([]byte(text))
	require.NoError(t, err)

	assert.Equal(t, []Line{
		{Num: 3, Kind: Label, Text: "LOOP"},
		{Num: 4, Kind: Address, Text: "LOOP"},
		{Num: 6, Kind: Compute, Text: "0;JMP"},
	}, ls)
}

func TestScannerRepeatable(t *testing.T) {
	text := []byte("@foo\nM=1\n(X)\n@X\n")

	a, err := Split(text)
	require.NoError(t, err)

	b, err := Split(text)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 4)
}

func TestSplitEmpty(t *testing.T) {
	ls, err := Split(nil)
	require.NoError(t, err)
	assert.Empty(t, ls)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "label", Label.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
