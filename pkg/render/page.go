package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
)

// Placement is the position of one image on a page in millimetres,
// measured from the top-left corner of the sheet.
type Placement struct {
	ImageID int     `json:"image_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Place computes where the images of one page go.
//
// Images are scaled to the printable width. If their stacked height exceeds
// the printable height, all of them shrink by the same factor and are
// centered horizontally. With padding enabled, leftover height is divided
// evenly among the gaps after page-break positions, so the last system ends
// on the bottom margin.
func Place(page []Image, o Options) []Placement {
	width, height := o.Paper.Usable(o.Margin)

	total := 0.0
	wraps := 0
	for _, img := range page {
		total += img.HeightToWidthRatio() * width
		if img.AllowWrap {
			wraps++
		}
	}

	scale := 1.0
	if total >= height && total > 0 {
		scale = height / total
	}
	xOffset := (width - width*scale) / 2

	gap := 0.0
	if o.Padding && total < height && wraps > 1 {
		gap = (height - total) / float64(wraps-1)
	}

	out := make([]Placement, len(page))
	y := 0.0
	for i, img := range page {
		h := width * img.HeightToWidthRatio() * scale
		out[i] = Placement{
			ImageID: img.ID,
			X:       o.Margin + xOffset,
			Y:       o.Margin + y,
			Width:   width * scale,
			Height:  h,
		}
		y += h
		if img.AllowWrap {
			y += gap
		}
	}
	return out
}

// PageSVG renders one page as a standalone SVG document in millimetres.
func PageSVG(page []Image, opts ...Option) []byte {
	o := newOptions(opts...)
	return pageSVG(page, o)
}

func pageSVG(page []Image, o Options) []byte {
	w, h := o.Paper.Width, o.Paper.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%gmm" height="%gmm" viewBox="0 0 %g %g">`+"\n",
		w, h, w, h)
	if o.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(o.Title))
	}
	fmt.Fprintf(&buf, `  <rect width="%g" height="%g" fill="white"/>`+"\n", w, h)

	for i, p := range Place(page, o) {
		img := page[i]
		fmt.Fprintf(&buf, `  <image id="img-%d" x="%.3f" y="%.3f" width="%.3f" height="%.3f" preserveAspectRatio="none" xlink:href="data:%s;base64,`,
			img.ID, p.X, p.Y, p.Width, p.Height, img.MIME)
		enc := base64.NewEncoder(base64.StdEncoding, &buf)
		enc.Write(img.Data)
		enc.Close()
		buf.WriteString(`"/>` + "\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderSVG renders every page as its own SVG document.
func RenderSVG(pages [][]Image, opts ...Option) [][]byte {
	o := newOptions(opts...)
	out := make([][]byte, len(pages))
	for i, page := range pages {
		out[i] = pageSVG(page, o)
	}
	return out
}
