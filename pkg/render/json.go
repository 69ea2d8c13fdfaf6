package render

import (
	"encoding/json"

	"github.com/matzehuels/sliced/pkg/paper"
)

// Document is the JSON export of a computed layout.
type Document struct {
	Title      string     `json:"title,omitempty"`
	Paper      paper.Size `json:"paper"`
	Margin     float64    `json:"margin_mm"`
	PageHeight float64    `json:"page_height"`
	PageCount  int        `json:"page_count"`
	ImageCount int        `json:"image_count"`
	Pages      []Page     `json:"pages"`
}

// Page lists the images of one page with their placements.
type Page struct {
	Number     int         `json:"number"`
	Images     []PageImage `json:"images"`
	Scale      float64     `json:"scale"`
	FillFactor float64     `json:"fill"`
}

// PageImage is one image entry of a Page.
type PageImage struct {
	ID        int       `json:"id"`
	Name      string    `json:"name,omitempty"`
	AllowWrap bool      `json:"allow_wrap"`
	Placement Placement `json:"placement"`
}

// NewDocument describes pages as laid out with opts. pageHeight is the
// relative page height the assignment was computed for.
func NewDocument(pages [][]Image, pageHeight float64, opts ...Option) Document {
	o := newOptions(opts...)
	doc := Document{
		Title:      o.Title,
		Paper:      o.Paper,
		Margin:     o.Margin,
		PageHeight: pageHeight,
		PageCount:  len(pages),
		Pages:      make([]Page, len(pages)),
	}
	for i, page := range pages {
		placements := Place(page, o)
		total := 0.0
		entries := make([]PageImage, len(page))
		for j, img := range page {
			total += img.HeightToWidthRatio()
			entries[j] = PageImage{
				ID:        img.ID,
				Name:      img.Name,
				AllowWrap: img.AllowWrap,
				Placement: placements[j],
			}
		}
		scale := 1.0
		if total >= pageHeight && total > 0 {
			scale = pageHeight / total
		}
		fill := 0.0
		if pageHeight > 0 {
			fill = total / pageHeight
		}
		doc.Pages[i] = Page{Number: i + 1, Images: entries, Scale: scale, FillFactor: fill}
		doc.ImageCount += len(page)
	}
	return doc
}

// RenderJSON encodes doc with indentation.
func RenderJSON(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
