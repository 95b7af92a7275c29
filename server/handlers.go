package server

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wippyai/texsvg/bundle"
	"github.com/wippyai/texsvg/engine"
	"github.com/wippyai/texsvg/errors"
	"github.com/wippyai/texsvg/runtime"
	"github.com/wippyai/texsvg/svgdoc"
)

const ctxErrorKind = "error_kind"

// RenderRequest is the body of POST /v1/render.
type RenderRequest struct {
	TeX string `json:"tex"`
	// Display defaults to true.
	Display *bool `json:"display"`
}

// RenderResponse is the success body of POST /v1/render.
type RenderResponse struct {
	ID         string `json:"id"`
	SVG        string `json:"svg"`
	Mode       string `json:"mode"`
	DurationMS int64  `json:"duration_ms"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Phase   string `json:"phase,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	ID    string    `json:"id"`
	Error ErrorBody `json:"error"`
}

// StatusOf maps an error kind to an HTTP status.
func StatusOf(err error) int {
	switch errors.KindOf(err) {
	case errors.KindEvaluation:
		return http.StatusUnprocessableEntity
	case errors.KindResourceExceeded:
		return http.StatusRequestEntityTooLarge
	case errors.KindTypeMismatch:
		return http.StatusBadGateway
	case errors.KindNotReady, errors.KindInitialization:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// maxBodyBytes bounds a POST body: every TeX byte may be JSON-escaped to six
// bytes, plus room for the envelope.
func (s *Server) maxBodyBytes() int64 {
	return int64(s.maxTeX)*6 + 1024
}

func (s *Server) renderJSON(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes())

	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.tooLarge(c, "request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		s.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	mode := runtime.Display
	if req.Display != nil && !*req.Display {
		mode = runtime.Inline
	}
	if !s.checkSize(c, req.TeX) {
		return
	}

	start := time.Now()
	out, err := s.render(req.TeX, mode)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, RenderResponse{
		ID:         getRequestID(c),
		SVG:        out,
		Mode:       mode.String(),
		DurationMS: time.Since(start).Milliseconds(),
	})
}

func (s *Server) renderSVG(c *gin.Context) {
	tex := c.Query("tex")
	mode := runtime.Display
	if v := c.Query("display"); v != "" {
		display, err := strconv.ParseBool(v)
		if err != nil {
			s.badRequest(c, "display must be a boolean")
			return
		}
		if !display {
			mode = runtime.Inline
		}
	}
	if !s.checkSize(c, tex) {
		return
	}

	out, err := s.render(tex, mode)
	if err != nil {
		s.fail(c, err)
		return
	}
	svg, err := svgdoc.Standalone(out)
	if err != nil {
		s.fail(c, errors.Wrap(errors.PhaseValidate, errors.KindTypeMismatch, err, "render result has no svg element"))
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(svg))
}

type bundleInfo interface {
	Bundle() bundle.Source
	State() engine.State
}

func (s *Server) health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	status := http.StatusOK

	if info, ok := s.renderer.(bundleInfo); ok {
		s.mu.Lock()
		src, state := info.Bundle(), info.State()
		s.mu.Unlock()

		body["bundle"] = src.Name
		body["digest"] = src.ShortDigest()
		body["state"] = state.String()
		if state != engine.StateReady {
			body["status"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, body)
}

func (s *Server) checkSize(c *gin.Context, tex string) bool {
	if len(tex) <= s.maxTeX {
		return true
	}
	s.tooLarge(c, "tex exceeds "+strconv.Itoa(s.maxTeX)+" bytes")
	return false
}

func (s *Server) tooLarge(c *gin.Context, msg string) {
	c.Set(ctxErrorKind, "request_too_large")
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		ID:    getRequestID(c),
		Error: ErrorBody{Kind: "request_too_large", Message: msg},
	})
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.Set(ctxErrorKind, "bad_request")
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		ID:    getRequestID(c),
		Error: ErrorBody{Kind: "bad_request", Message: msg},
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	body := ErrorBody{Kind: "internal_error", Message: err.Error()}
	var te *errors.Error
	if stderrors.As(err, &te) {
		body.Kind = string(te.Kind)
		body.Phase = string(te.Phase)
	}
	c.Set(ctxErrorKind, body.Kind)
	c.AbortWithStatusJSON(StatusOf(err), ErrorResponse{ID: getRequestID(c), Error: body})
}
