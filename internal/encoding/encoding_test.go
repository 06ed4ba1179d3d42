package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enc "github.com/avelines/remit/internal/encoding"
)

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := enc.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(out)
}

func TestNewUTF8Reader(t *testing.T) {
	type testCase struct {
		name  string
		input []byte
		want  string
	}

	tests := []testCase{
		{
			name:  "PlainASCII",
			input: []byte("name,iban\n"),
			want:  "name,iban\n",
		},
		{
			name:  "ValidUTF8PassesThrough",
			input: []byte("José,conta\n"),
			want:  "José,conta\n",
		},
		{
			name:  "UTF8BOMStripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("name")...),
			want:  "name",
		},
		{
			name:  "UTF16LE",
			input: []byte{0xFF, 0xFE, 'J', 0x00, 'o', 0x00},
			want:  "Jo",
		},
		{
			name:  "UTF16BE",
			input: []byte{0xFE, 0xFF, 0x00, 'J', 0x00, 'o'},
			want:  "Jo",
		},
		{
			name:  "Windows1252Fallback",
			input: []byte("Jos\xe9\n"),
			want:  "José\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decode(t, tt.input))
		})
	}
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	assert.Equal(t, "", decode(t, nil))
}
