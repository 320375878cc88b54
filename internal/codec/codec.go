// Package codec converts raw file bytes into a persistable representation
// and back.
//
// Text-like files are stored verbatim as UTF-8; everything else is stored as
// standard base64 so it survives a string-only persistence layer. The round
// trip is lossless: Decode(Encode(b)) returns b byte-for-byte.
package codec

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// genericMIMEType is what browsers and file pickers report for unknown content.
const genericMIMEType = "application/octet-stream"

// textExtensions are stored as text regardless of the declared type.
var textExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".xml":      true,
}

// extensionMIMETypes is the fallback table for empty or generic media types.
var extensionMIMETypes = map[string]string{
	".pdf":      "application/pdf",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".xml":      "application/xml",
	".txt":      "text/plain",
	".pptx":     "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".ppt":      "application/vnd.ms-powerpoint",
}

// Encode converts raw bytes into their persistable form.
func Encode(raw []byte, mimeType, name string) domain.EncodedContent {
	if IsTextual(mimeType, name) && utf8.Valid(raw) {
		return domain.EncodedContent{Encoding: domain.EncodingText, Data: string(raw)}
	}
	return domain.EncodedContent{
		Encoding: domain.EncodingBase64,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}
}

// Decode reverses Encode. Malformed payloads wrap domain.ErrCorruptPayload.
func Decode(ec domain.EncodedContent) ([]byte, error) {
	switch ec.Encoding {
	case domain.EncodingText:
		return []byte(ec.Data), nil
	case domain.EncodingBase64:
		data, err := base64.StdEncoding.DecodeString(ec.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCorruptPayload, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %q", domain.ErrCorruptPayload, ec.Encoding)
	}
}

// Text returns the decoded text of text-encoded content.
// The boolean is false for nil or binary content.
func Text(ec *domain.EncodedContent) (string, bool) {
	if !ec.IsText() {
		return "", false
	}
	return ec.Data, true
}

// DisplayText returns content as text whatever its encoding. Bytes that
// are not valid UTF-8, such as a Latin-1 .txt file, become U+FFFD.
// The boolean is false for nil or undecodable content.
func DisplayText(ec *domain.EncodedContent) (string, bool) {
	if ec == nil {
		return "", false
	}
	if ec.IsText() {
		return ec.Data, true
	}
	raw, err := Decode(*ec)
	if err != nil {
		return "", false
	}
	return strings.ToValidUTF8(string(raw), "\uFFFD"), true
}

// IsTextual reports whether a file should be stored as text, judged by its
// extension first and its media type second.
func IsTextual(mimeType, name string) bool {
	if textExtensions[strings.ToLower(filepath.Ext(name))] {
		return true
	}

	mimeType = domain.BaseMediaType(mimeType)
	switch {
	case strings.HasPrefix(mimeType, "text/"):
		return true
	case mimeType == "application/xml", mimeType == "application/markdown":
		return true
	case strings.HasSuffix(mimeType, "+xml"):
		return true
	default:
		return false
	}
}

// InferMIMEType returns declared unless it is empty or generic, in which
// case the type is inferred from the file extension.
func InferMIMEType(name, declared string) string {
	base := domain.BaseMediaType(declared)
	if base != "" && base != genericMIMEType {
		return declared
	}
	if inferred, ok := extensionMIMETypes[strings.ToLower(filepath.Ext(name))]; ok {
		return inferred
	}
	if declared == "" {
		return genericMIMEType
	}
	return declared
}
