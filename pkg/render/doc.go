// Package render turns a page assignment into printable documents.
//
// # Overview
//
// The layout optimizer decides how many images go on each page. This package
// decides where they go: each page's images are scaled to the printable width
// of the paper, shrunk uniformly when they overflow the printable height, and
// centered horizontally. When a page has room to spare and padding is enabled,
// the blank space is distributed evenly between page-break positions so
// systems spread over the whole sheet.
//
// # Formats
//
//   - SVG: one document per page, sized in millimetres, with the source
//     images embedded unchanged as data URIs ([RenderSVG])
//   - PDF: every SVG page converted with rsvg-convert and merged into one
//     file with pdfcpu ([RenderPDF])
//   - JSON: the page assignment and computed placements ([RenderJSON])
//
// PDF output requires librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// # Usage
//
//	pages := layout.GroupByPage(images, assignment)
//	pdf, err := render.RenderPDF(ctx, pages,
//	    render.WithPaper(paper.A4),
//	    render.WithMargin(10),
//	    render.WithTitle("Nocturne"),
//	)
package render
