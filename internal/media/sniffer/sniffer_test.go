package sniffer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want MediaType
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10}, TypeJPEG},
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00"), TypePNG},
		{"gif89", []byte("GIF89a\x01\x00"), TypeGIF},
		{"webp", []byte("RIFF\x24\x00\x00\x00WEBPVP8 "), TypeWEBP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DetectHead(tt.head)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Type)
			assert.Equal(t, "image/"+string(tt.want), res.MIME)
		})
	}
}

func TestDetectRejects(t *testing.T) {
	for _, head := range [][]byte{
		nil,
		[]byte("<svg xmlns=\"http://www.w3.org/2000/svg\"></svg>"),
		[]byte("%PDF-1.7"),
		[]byte("RIFF\x24\x00\x00\x00WAVE"),
	} {
		_, err := DetectHead(head)
		assert.ErrorIs(t, err, ErrUnknownType)
	}
}

func TestDetectReturnsConsumedBytes(t *testing.T) {
	body := "\x89PNG\r\n\x1a\n" + strings.Repeat("x", 1000)
	r := strings.NewReader(body)

	res, head, err := Detect(r)
	require.NoError(t, err)
	assert.Equal(t, TypePNG, res.Type)
	assert.Len(t, head, 512)

	rest, err := io.ReadAll(io.MultiReader(bytes.NewReader(head), r))
	require.NoError(t, err)
	assert.Equal(t, body, string(rest))
}
