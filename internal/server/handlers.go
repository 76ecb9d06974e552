package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/hexgrid/pkg/buildinfo"
	"github.com/matzehuels/hexgrid/pkg/errors"
	"github.com/matzehuels/hexgrid/pkg/layout"
	"github.com/matzehuels/hexgrid/pkg/pipeline"
	"github.com/matzehuels/hexgrid/pkg/source"
)

// LayoutRequest is the body of POST /v1/layouts. Exactly one of Entities
// and GeoJSON must be set.
type LayoutRequest struct {
	Entities []source.Record `json:"entities,omitempty"`
	GeoJSON  json.RawMessage `json:"geojson,omitempty"`
	Options  pipeline.Options `json:"options"`
}

// LayoutResponse is the body of a successful POST /v1/layouts.
type LayoutResponse struct {
	RequestID string            `json:"request_id"`
	Layout    layout.Layout     `json:"layout"`
	Artifacts map[string]string `json:"artifacts"`
	Cached    CacheStatus       `json:"cached"`
}

// CacheStatus reports which stages were served from the cache.
type CacheStatus struct {
	Layout    bool `json:"layout"`
	Artifacts bool `json:"artifacts"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.opts.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	}

	var req LayoutRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	records, err := requestRecords(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	opts.Logger = s.runner.Logger
	if err := opts.ValidateForPlace(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateForRender(); err != nil {
		s.writeError(w, r, err)
		return
	}

	l, placeHit, err := s.runner.PlaceWithCacheInfo(ctx, records, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, renderHit, err := s.runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := LayoutResponse{
		RequestID: RequestIDFromContext(ctx),
		Layout:    l,
		Artifacts: make(map[string]string, len(artifacts)),
		Cached:    CacheStatus{Layout: placeHit, Artifacts: renderHit},
	}
	for format, data := range artifacts {
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// requestRecords validates the entities of req or decodes its GeoJSON.
func requestRecords(req LayoutRequest) ([]source.Record, error) {
	hasGeoJSON := len(bytes.TrimSpace(req.GeoJSON)) > 0 && string(bytes.TrimSpace(req.GeoJSON)) != "null"
	switch {
	case hasGeoJSON && len(req.Entities) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "set either entities or geojson, not both")
	case hasGeoJSON:
		return source.ReadGeoJSON(bytes.NewReader(req.GeoJSON), req.Options.Source)
	}

	for i, e := range req.Entities {
		if err := errors.ValidateEntityID(e.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "entity %d", i)
		}
		if e.Color != "" {
			if err := errors.ValidateColor(e.Color); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "entity %q", e.ID)
			}
		}
	}
	return req.Entities, nil
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return 499
	}
	var maxBytes *http.MaxBytesError
	if stderrors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidColumn, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidConfig,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeDegenerateExtent, errors.ErrCodeInsufficientGridSize, errors.ErrCodeNotConverged:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFromContext(r.Context()), "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{
		RequestID: RequestIDFromContext(r.Context()),
		Code:      code,
		Message:   msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
