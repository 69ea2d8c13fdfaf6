package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/matzehuels/sliced/pkg/buildinfo"
	"github.com/matzehuels/sliced/pkg/errors"
	"github.com/matzehuels/sliced/pkg/imagefile"
	"github.com/matzehuels/sliced/pkg/layout"
	"github.com/matzehuels/sliced/pkg/observability"
	"github.com/matzehuels/sliced/pkg/pipeline"
	"github.com/matzehuels/sliced/pkg/render"
)

// LayoutRequest is the body of POST /v1/layout. When PageHeight is zero it
// is derived from the paper and margin in Options.
type LayoutRequest struct {
	Images     []layout.Ratio    `json:"images"`
	PageHeight float64           `json:"page_height,omitempty"`
	Options    *pipeline.Options `json:"options,omitempty"`
}

// LayoutResponse is the result of POST /v1/layout.
type LayoutResponse struct {
	Pages      []int   `json:"pages"`
	PageCount  int     `json:"page_count"`
	ImageCount int     `json:"image_count"`
	PageHeight float64 `json:"page_height"`
}

// RenderImage is one uploaded image.
type RenderImage struct {
	Name      string `json:"name,omitempty"`
	Data      string `json:"data"`
	AllowWrap *bool  `json:"allow_wrap,omitempty"`
}

// RenderRequest is the body of POST /v1/render.
type RenderRequest struct {
	Images  []RenderImage     `json:"images"`
	Format  string            `json:"format,omitempty"`
	Options *pipeline.Options `json:"options,omitempty"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// defaultOptions is decoded into so omitted option fields keep their
// defaults.
func defaultOptions() *pipeline.Options {
	opts := pipeline.DefaultOptions()
	return &opts
}

func validOptions(in *pipeline.Options) (pipeline.Options, error) {
	if in == nil {
		in = defaultOptions()
	}
	opts := *in
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req := LayoutRequest{Options: defaultOptions()}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := validOptions(req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Images) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "no images"))
		return
	}
	for i, img := range req.Images {
		if !(img.Height > 0) || math.IsInf(img.Height, 0) {
			s.writeError(w, errors.New(errors.ErrCodeInvalidImage, "image %d: ratio must be positive", i))
			return
		}
	}
	req.Images[len(req.Images)-1].Wrap = true

	pageHeight := req.PageHeight
	if pageHeight < 0 || math.IsNaN(pageHeight) || math.IsInf(pageHeight, 0) {
		s.writeError(w, errors.New(errors.ErrCodeInvalidConfig, "page_height must be positive"))
		return
	}
	if pageHeight == 0 {
		pageHeight, _ = opts.PageHeight()
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(r.Context(), len(req.Images))
	start := time.Now()
	pages := layout.Layout(req.Images, pageHeight, opts.LayoutConfig())
	hooks.OnLayoutComplete(r.Context(), len(req.Images), len(pages), time.Since(start), nil)

	writeJSON(w, http.StatusOK, LayoutResponse{
		Pages:      pages,
		PageCount:  len(pages),
		ImageCount: len(req.Images),
		PageHeight: pageHeight,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req := RenderRequest{Options: defaultOptions()}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := validOptions(req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := req.Format
	if format == "" {
		format = pipeline.FormatPDF
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	images, err := decodeImages(req.Images)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), images, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("X-Page-Count", fmt.Sprint(result.Stats.PageCount))

	files := result.Artifacts[format]
	switch format {
	case pipeline.FormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", opts.Title+".pdf"))
		w.WriteHeader(http.StatusOK)
		w.Write(files[0])
	case pipeline.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(files[0])
	case pipeline.FormatSVG:
		pages := make([]string, len(files))
		for i, f := range files {
			pages[i] = string(f)
		}
		writeJSON(w, http.StatusOK, map[string]any{"pages": pages})
	}
}

func decodeImages(in []RenderImage) ([]render.Image, error) {
	if len(in) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no images")
	}
	images := make([]render.Image, len(in))
	for i, img := range in {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "image %d: invalid base64", i)
		}
		info, err := imagefile.ProbeBytes(data)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		images[i] = render.Image{
			ID:        i,
			Name:      img.Name,
			Data:      data,
			MIME:      info.MIME,
			Width:     info.Width,
			Height:    info.Height,
			AllowWrap: img.AllowWrap == nil || *img.AllowWrap,
		}
	}
	images[len(images)-1].AllowWrap = true
	return images, nil
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}
