package server

import (
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"strconv"

	"github.com/qrforge/qrforge/pkg/errors"
	"github.com/qrforge/qrforge/pkg/pipeline"
	"github.com/qrforge/qrforge/pkg/verify"
)

// pngCacheControl allows clients and proxies to cache rendered images for a
// day. Rendering is deterministic, so equal URLs always mean equal bytes.
const pngCacheControl = "public, max-age=86400"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// handleRenderQuery renders a QR image from query parameters.
//
//	GET /v1/qr?data=https://example.com&style=circle&box_size=10&border=4
func (s *Server) handleRenderQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := pipeline.DefaultOptions()
	opts.Data = q.Get("data")
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("fill"); v != "" {
		opts.Fill = v
	}
	if v := q.Get("back"); v != "" {
		opts.Back = v
	}

	var err error
	if opts.BoxSize, err = queryInt(q.Get("box_size"), pipeline.DefaultBoxSize); err != nil {
		writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidSize), "invalid box_size")
		return
	}
	if opts.Border, err = queryInt(q.Get("border"), pipeline.DefaultBorder); err != nil {
		writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidSize), "invalid border")
		return
	}

	s.render(w, r, opts)
}

// handleRenderJSON renders a QR image from a JSON options body.
//
//	POST /v1/qr  {"data": "https://example.com", "style": "rounded"}
func (s *Server) handleRenderJSON(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.DefaultOptions()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "invalid JSON body: "+err.Error())
		return
	}

	// No server-side file reads or outbound fetches on behalf of clients.
	if opts.Logo != "" {
		writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "logo options are not supported over HTTP")
		return
	}
	opts.Output = ""

	s.render(w, r, opts)
}

// render runs the pipeline and writes the PNG response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	opts.Logger = s.logger

	result, err := s.runner.Compose(r.Context(), opts)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	s.recordHistory(r, opts, result)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", pngCacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PNG)))
	_, _ = w.Write(result.PNG)
}

// handleVerify decodes an uploaded image back to its payload.
//
//	POST /v1/verify  (raw PNG or JPEG body)
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	img, _, err := image.Decode(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "body is not a decodable image")
		return
	}

	text, err := verify.Decode(img)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, string(errors.ErrCodeDecode), "no QR code found in image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// handleHistory returns recent generation records, newest first.
//
//	GET /v1/history?limit=20
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, string(errors.ErrCodeUnsupported), "history store is not configured")
		return
	}

	limit, err := queryInt(r.URL.Query().Get("limit"), defaultHistoryLimit)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "invalid limit")
		return
	}

	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("history query failed", "err", err)
		writeError(w, http.StatusInternalServerError, string(errors.ErrCodeInternal), "history query failed")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// recordHistory stores a successful render. Failures are logged and never
// fail the render.
func (s *Server) recordHistory(r *http.Request, opts pipeline.Options, result *pipeline.Result) {
	if s.history == nil {
		return
	}
	if err := s.history.Insert(r.Context(), NewRecord(opts, result)); err != nil {
		s.logger.Warn("history insert failed", "err", err)
	}
}

// =============================================================================
// Response Helpers
// =============================================================================

// errorResponse is the JSON error body.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Error: msg})
}

// writePipelineError maps pipeline error codes to HTTP statuses: validation
// problems are the client's fault, an oversized payload maps to 413, and
// everything else is a server error.
func writePipelineError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := http.StatusInternalServerError

	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidColor,
		errors.ErrCodeInvalidSize, errors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case errors.ErrCodeDataTooLarge:
		status = http.StatusRequestEntityTooLarge
	}

	writeError(w, status, string(code), errors.UserMessage(err))
}

// queryInt parses an optional integer query parameter.
func queryInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
