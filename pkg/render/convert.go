package render

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/matzehuels/sliced/pkg/errors"
)

// converter is the external SVG to PDF converter.
var converter = "rsvg-convert"

// Available reports whether SVG to PDF conversion is possible.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// ToPDF converts one SVG page to a single-page PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, converter, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s: %s", converter, errBuf.String())
	}
	return out.Bytes(), nil
}
