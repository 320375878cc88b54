package domain

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

// DocumentKind is the closed set of document classifications.
// It is computed once at ingestion and drives both rendering and summarisation.
type DocumentKind string

// Document kinds.
const (
	KindPDF          DocumentKind = "pdf"
	KindMarkdown     DocumentKind = "markdown"
	KindXML          DocumentKind = "xml"
	KindText         DocumentKind = "text"
	KindPresentation DocumentKind = "presentation"
	KindUnknown      DocumentKind = "unknown"
)

// IsValid returns true if the kind is recognised.
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindPDF, KindMarkdown, KindXML, KindText, KindPresentation, KindUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k DocumentKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the kind.
func (k DocumentKind) Description() string {
	switch k {
	case KindPDF:
		return "PDF document"
	case KindMarkdown:
		return "Markdown"
	case KindXML:
		return "XML"
	case KindText:
		return "Plain text"
	case KindPresentation:
		return "Presentation"
	default:
		return "Unsupported"
	}
}

// Classify maps a filename and media type to a DocumentKind.
// The media type wins when it is specific; the extension decides otherwise.
func Classify(name, mimeType string) DocumentKind {
	mimeType = BaseMediaType(mimeType)

	switch {
	case mimeType == "application/pdf":
		return KindPDF
	case mimeType == "text/markdown" || mimeType == "text/x-markdown" || mimeType == "application/markdown":
		return KindMarkdown
	case mimeType == "application/xml" || mimeType == "text/xml" || strings.HasSuffix(mimeType, "+xml"):
		return KindXML
	case mimeType == "application/vnd.openxmlformats-officedocument.presentationml.presentation" ||
		mimeType == "application/vnd.ms-powerpoint":
		return KindPresentation
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".md", ".markdown":
		return KindMarkdown
	case ".xml":
		return KindXML
	case ".txt":
		return KindText
	case ".pptx", ".ppt":
		return KindPresentation
	}

	if mimeType == "text/plain" {
		return KindText
	}
	return KindUnknown
}

// BaseMediaType returns the lowercased media type of mimeType without its
// parameters. Empty or malformed types yield "".
func BaseMediaType(mimeType string) string {
	if strings.TrimSpace(mimeType) == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return ""
	}
	return mediaType
}

// IsTextKind reports whether documents of kind k are read as text.
func (k DocumentKind) IsTextKind() bool {
	return k == KindMarkdown || k == KindText || k == KindXML
}
