package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/pdv/internal/encoding"
)

const header = "Nome;Preço;Estoque;Descrição\n"

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(header))
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(header))
	require.NoError(t, err)

	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(header))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "UTF8Passthrough",
			input: []byte("Nome;Preço\nCapinha Coração;12,50\nPelícula;-3,00\n"),
			want:  "Nome;Preço\nCapinha Coração;12,50\nPelícula;-3,00\n",
		},
		{
			name:  "UTF8BOM",
			input: append([]byte{0xEF, 0xBB, 0xBF}, header...),
			want:  header,
		},
		{
			name:  "Windows1252",
			input: latin1,
			want:  header,
		},
		{
			name:  "UTF16LE",
			input: utf16le,
			want:  header,
		},
		{
			name:  "UTF16BE",
			input: utf16be,
			want:  header,
		},
		{
			name:  "Empty",
			input: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decode(t, tt.input))
		})
	}
}

func TestCharset(t *testing.T) {
	assert.Equal(t, "UTF-8", encoding.Charset([]byte(header)))
	assert.Equal(t, "UTF-8", encoding.Charset(append([]byte{0xEF, 0xBB, 0xBF}, 'a')))
	assert.Equal(t, "UTF-16LE", encoding.Charset([]byte{0xFF, 0xFE, 'a', 0}))
	assert.Equal(t, "UTF-16BE", encoding.Charset([]byte{0xFE, 0xFF, 0, 'a'}))
	assert.NotEqual(t, "UTF-8", encoding.Charset([]byte{'P', 'r', 'e', 0xE7, 'o'}))
}

func TestNewUTF8Reader_LargeInput(t *testing.T) {
	row := "Capinha Silicone;25,00;10;Proteção\n"
	input := bytes.Repeat([]byte(row), 500)

	assert.Equal(t, string(input), decode(t, input))
}
