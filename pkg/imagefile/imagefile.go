// Package imagefile identifies image files and reads their pixel dimensions
// without decoding pixel data.
//
// The content type is detected from magic bytes, never from the file name,
// so a mislabelled scan is still accepted and a renamed PDF is rejected.
package imagefile

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/matzehuels/sliced/pkg/errors"
)

// Supported image MIME types.
var supported = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Info describes a probed image.
type Info struct {
	MIME   string `json:"mime"`
	Ext    string `json:"ext"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Ratio returns height divided by width, the unit the layout optimizer
// measures image heights in.
func (i Info) Ratio() float64 {
	if i.Width == 0 {
		return 0
	}
	return float64(i.Height) / float64(i.Width)
}

// Probe reads the file at path and returns its image info.
func Probe(path string) (Info, error) {
	info, _, err := Read(path)
	return info, err
}

// Read returns the image info together with the raw file contents.
func Read(path string) (Info, []byte, error) {
	if err := errors.ValidateImagePath(path); err != nil {
		return Info{}, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, nil, errors.Wrap(errors.ErrCodeNotFound, err, "image %s not found", path)
		}
		return Info{}, nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	info, err := ProbeBytes(data)
	if err != nil {
		return Info{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return info, data, nil
}

// ProbeBytes identifies in-memory image data.
func ProbeBytes(data []byte) (Info, error) {
	mt := mimetype.Detect(data)
	if !supported[mt.String()] {
		return Info{}, errors.New(errors.ErrCodeUnsupportedFormat,
			"unsupported content type %s", mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeInvalidImage, err, "read %s header", mt.String())
	}
	info := Info{
		MIME:   mt.String(),
		Ext:    mt.Extension(),
		Width:  cfg.Width,
		Height: cfg.Height,
	}
	if err := info.Validate(); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Validate rejects images without a usable size.
func (i Info) Validate() error {
	if i.Width <= 0 || i.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidImage, "image has no size (%dx%d)", i.Width, i.Height)
	}
	return nil
}
