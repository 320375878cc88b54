// Package pdf reads structural information from PDF documents with pdfcpu.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

// Ensure Inspector implements the interface.
var _ driven.PDFInspector = (*Inspector)(nil)

// Inspector counts PDF pages.
type Inspector struct {
	conf *model.Configuration
}

// NewInspector creates a PDF inspector using relaxed validation, so that
// slightly malformed files still report a page count.
func NewInspector() *Inspector {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Inspector{conf: conf}
}

// PageCount returns the number of pages in data.
// Unparseable input is reported as domain.ErrCorruptPayload.
func (i *Inspector) PageCount(ctx context.Context, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty pdf", domain.ErrCorruptPayload)
	}

	n, err := api.PageCount(bytes.NewReader(data), i.conf)
	if err != nil {
		return 0, fmt.Errorf("%w: read pdf: %w", domain.ErrCorruptPayload, err)
	}
	return n, nil
}
