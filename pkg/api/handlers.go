package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/flamekit/pkg/core/render"
	"github.com/matzehuels/flamekit/pkg/core/variation"
	"github.com/matzehuels/flamekit/pkg/errors"
	flameio "github.com/matzehuels/flamekit/pkg/io"
	"github.com/matzehuels/flamekit/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// VariationInfo describes a registered variation.
type VariationInfo struct {
	Name   string      `json:"name"`
	Params []ParamInfo `json:"params"`
}

// ParamInfo is a variation parameter and its default value.
type ParamInfo struct {
	Name    string  `json:"name"`
	Default float64 `json:"default"`
}

// Variations lists every registered variation in name order.
func Variations() []VariationInfo {
	names := variation.Names()
	out := make([]VariationInfo, 0, len(names))
	for _, name := range names {
		v, ok := variation.New(name)
		if !ok {
			continue
		}
		info := VariationInfo{Name: name, Params: []ParamInfo{}}
		values := v.ParamValues()
		for i, p := range v.ParamNames() {
			info.Params = append(info.Params, ParamInfo{Name: p, Default: values[i]})
		}
		out = append(out, info)
	}
	return out
}

func (s *Server) handleVariations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Variations())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	f, err := flameio.ReadTOML(http.MaxBytesReader(w, r.Body, s.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Code:  string(errors.ErrCodeInvalidInput),
				Error: "flame document too large",
			})
			return
		}
		s.writeError(w, r, err)
		return
	}
	opts.Flame = f

	ctx := r.Context()
	if s.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.RenderTimeout)
		defer cancel()
	}

	res, err := s.Runner.Execute(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheHit {
		cacheStatus = "hit"
	}
	h := w.Header()
	h.Set("Content-Type", render.ContentType(res.Format))
	h.Set("Content-Length", strconv.Itoa(len(res.Artifact)))
	h.Set("X-Run-ID", res.RunID)
	h.Set("X-Flame-Hash", res.FlameHash)
	h.Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

// renderOptions reads the /render query parameters.
func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Format: q.Get("format")}

	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"quality", &opts.Quality},
	}
	for _, p := range ints {
		if s := q.Get(p.name); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", p.name, s)
			}
			*p.dst = v
		}
	}
	if s := q.Get("seed"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid seed: %q", s)
		}
		opts.Seed = v
	}
	return opts, nil
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFlame,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPalette,
		errors.ErrCodeInvalidParameter,
		errors.ErrCodeUnknownVariation,
		errors.ErrCodeDiverged:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: string(code), Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}
