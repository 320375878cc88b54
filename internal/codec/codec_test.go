package codec

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

func TestEncode_TextStoredVerbatim(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		mimeType string
		content  string
	}{
		{"markdown extension", "report.md", "text/markdown", "# Title\nBody"},
		{"markdown without mime", "notes.md", "", "- one\n- two\n"},
		{"xml extension", "feed.xml", "application/octet-stream", "<a><b>1</b></a>"},
		{"txt extension", "todo.txt", "", "line one\r\nline two\ttabbed"},
		{"text mime no extension", "LICENSE", "text/plain", "MIT"},
		{"unicode", "greeting.txt", "text/plain", "héllo wörld ✓ 日本語"},
		{"empty text", "empty.md", "text/markdown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := Encode([]byte(tt.content), tt.mimeType, tt.file)

			assert.Equal(t, domain.EncodingText, ec.Encoding)
			assert.Equal(t, tt.content, ec.Data)

			decoded, err := Decode(ec)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(decoded))
		})
	}
}

func TestEncode_BinaryBase64(t *testing.T) {
	raw := []byte{0x25, 0x50, 0x44, 0x46, 0x2d, 0x00, 0xff, 0xfe}

	ec := Encode(raw, "application/pdf", "paper.pdf")

	assert.Equal(t, domain.EncodingBase64, ec.Encoding)
	assert.Equal(t, "JVBERi0A//4=", ec.Data)
}

func TestEncode_InvalidUTF8FallsBackToBase64(t *testing.T) {
	raw := []byte{'a', 0xff, 0xfe, 'b'}

	ec := Encode(raw, "text/plain", "broken.txt")

	assert.Equal(t, domain.EncodingBase64, ec.Encoding)
	decoded, err := Decode(ec)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestRoundTrip_RandomBinary(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for size := 0; size < 2048; size += 97 {
		raw := make([]byte, size)
		_, _ = rng.Read(raw)

		ec := Encode(raw, "application/vnd.openxmlformats-officedocument.presentationml.presentation", "slide.pptx")
		decoded, err := Decode(ec)

		require.NoError(t, err)
		assert.True(t, bytes.Equal(raw, decoded), "size %d", size)
	}
}

func TestDecode_CorruptPayload(t *testing.T) {
	t.Run("malformed base64", func(t *testing.T) {
		_, err := Decode(domain.EncodedContent{Encoding: domain.EncodingBase64, Data: "not base64!!"})
		assert.ErrorIs(t, err, domain.ErrCorruptPayload)
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, err := Decode(domain.EncodedContent{Encoding: "hex", Data: "00"})
		assert.ErrorIs(t, err, domain.ErrCorruptPayload)
	})
}

func TestText(t *testing.T) {
	text, ok := Text(&domain.EncodedContent{Encoding: domain.EncodingText, Data: "hello"})
	assert.True(t, ok)
	assert.Equal(t, "hello", text)

	_, ok = Text(&domain.EncodedContent{Encoding: domain.EncodingBase64, Data: "aGVsbG8="})
	assert.False(t, ok)

	_, ok = Text(nil)
	assert.False(t, ok)
}

func TestDisplayText(t *testing.T) {
	text, ok := DisplayText(&domain.EncodedContent{Encoding: domain.EncodingText, Data: "hello"})
	assert.True(t, ok)
	assert.Equal(t, "hello", text)

	latin1 := Encode([]byte("caf\xe9 menu"), "text/plain", "notes.txt")
	require.Equal(t, domain.EncodingBase64, latin1.Encoding)
	text, ok = DisplayText(&latin1)
	assert.True(t, ok)
	assert.Equal(t, "caf\uFFFD menu", text)

	_, ok = DisplayText(&domain.EncodedContent{Encoding: domain.EncodingBase64, Data: "!!"})
	assert.False(t, ok)

	_, ok = DisplayText(nil)
	assert.False(t, ok)
}

func TestIsTextual(t *testing.T) {
	assert.True(t, IsTextual("", "README.MD"))
	assert.True(t, IsTextual("text/csv", "data"))
	assert.True(t, IsTextual("application/xml; charset=utf-8", "feed"))
	assert.True(t, IsTextual("image/svg+xml", "logo"))
	assert.False(t, IsTextual("application/pdf", "paper.pdf"))
	assert.False(t, IsTextual("", "slide.pptx"))
	assert.True(t, IsTextual("TEXT/CSV; charset", "data"))
	assert.False(t, IsTextual("not a type", "data"))
}

func TestInferMIMEType(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		declared string
		expected string
	}{
		{"declared kept", "x.pdf", "text/plain", "text/plain"},
		{"empty inferred", "paper.pdf", "", "application/pdf"},
		{"generic inferred", "notes.md", "application/octet-stream", "text/markdown"},
		{"pptx inferred", "slide.PPTX", "", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
		{"unknown empty", "photo.heic", "", "application/octet-stream"},
		{"unknown generic", "photo.heic", "application/octet-stream", "application/octet-stream"},
		{"generic with params inferred", "notes.md", "application/octet-stream; name=notes.md", "text/markdown"},
		{"malformed inferred", "paper.pdf", "not a type", "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferMIMEType(tt.file, tt.declared))
		})
	}
}
