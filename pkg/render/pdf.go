package render

import (
	"bytes"
	"context"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/matzehuels/sliced/pkg/errors"
)

// RenderPDF renders pages into one multi-page PDF.
func RenderPDF(ctx context.Context, pages [][]Image, opts ...Option) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to render: no pages")
	}
	svgs := RenderSVG(pages, opts...)
	pdfs := make([][]byte, len(svgs))
	for i, svg := range svgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pdf, err := ToPDF(ctx, svg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "convert page %d", i+1)
		}
		pdfs[i] = pdf
	}
	return MergePDF(pdfs)
}

// MergePDF concatenates PDF documents in order.
func MergePDF(pdfs [][]byte) ([]byte, error) {
	switch len(pdfs) {
	case 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to merge")
	case 1:
		return pdfs[0], nil
	}

	readers := make([]io.ReadSeeker, len(pdfs))
	for i, data := range pdfs {
		readers[i] = bytes.NewReader(data)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, model.NewDefaultConfiguration()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "merge %d pages", len(pdfs))
	}
	return out.Bytes(), nil
}

// PageCount returns the number of pages of a PDF document.
func PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "read pdf")
	}
	return n, nil
}
