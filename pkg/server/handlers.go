package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/scribe/pkg/content"
	"mercator-hq/scribe/pkg/moderation"
	"mercator-hq/scribe/pkg/render"
	"mercator-hq/scribe/pkg/usage"
)

// DefaultMaxBodyBytes is used when server.max_body_bytes is unset.
const DefaultMaxBodyBytes = 1 << 20

// Error types returned in the "type" field of error bodies.
const (
	errorTypeInvalidRequest = "invalid_request_error"
	errorTypeRejected       = "content_rejected"
	errorTypeTooLarge       = "request_too_large"
	errorTypeTimeout        = "gateway_timeout"
	errorTypeServer         = "server_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Message    string   `json:"message"`
	Type       string   `json:"type"`
	Param      string   `json:"param,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// UsageResponse is the body of GET /v1/usage.
type UsageResponse struct {
	Providers map[string]usage.Record `json:"providers"`
	DailyCost float64                 `json:"daily_cost"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorTypeInvalidRequest, err.Error(), "format")
		return
	}

	limit := s.config.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var in content.Request
	if err := dec.Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, errorTypeTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), "")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, errorTypeInvalidRequest, "request body is empty", "")
		default:
			writeError(w, http.StatusBadRequest, errorTypeInvalidRequest, "invalid JSON: "+err.Error(), "")
		}
		return
	}

	req, err := content.NewRequest(in)
	if err != nil {
		s.writeGenerateError(w, r, err)
		return
	}

	result, err := s.backend.Generate(r.Context(), req)
	if err != nil {
		s.writeGenerateError(w, r, err)
		return
	}

	if format == render.FormatHTML {
		html, err := render.Convert(result.Content, format)
		if err != nil {
			s.writeGenerateError(w, r, err)
			return
		}
		out := *result
		out.Content = html
		result = &out
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *content.RequestError
	var rejected *moderation.RejectedError

	switch {
	case errors.As(err, &reqErr):
		writeError(w, http.StatusBadRequest, errorTypeInvalidRequest, reqErr.Message, reqErr.Field)
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Message:    rejected.Error(),
			Type:       errorTypeRejected,
			Categories: rejected.Categories,
		}})
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, errorTypeTimeout, "generation timed out", "")
	case errors.Is(err, context.Canceled):
		// Client went away; nobody is reading the response.
		s.logger.DebugContext(r.Context(), "generate canceled by client")
	default:
		s.logger.ErrorContext(r.Context(), "generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, errorTypeServer, "generation failed", "")
	}
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Preflight(r.Context()))
}

func (s *Server) handleUsage(w http.ResponseWriter, _ *http.Request) {
	records := s.backend.UsageReport()
	resp := UsageResponse{Providers: records}
	for _, rec := range records {
		resp.DailyCost += rec.DailyCost
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message, param string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Message: message, Type: errType, Param: param}})
}
