// File: handler.go
package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handler exposes sessions over HTTP for the browser front end.
type Handler struct {
	store          *SessionStore
	renderSize     int
	maxFrameSide   int
	maxUploadBytes int64
	log            zerolog.Logger
}

func NewHandler(store *SessionStore, cfg CaptchaConfig, logger zerolog.Logger) *Handler {
	return &Handler{
		store:          store,
		renderSize:     cfg.RenderSize,
		maxFrameSide:   cfg.MaxFrameSide,
		maxUploadBytes: cfg.MaxUploadBytes,
		log:            logger,
	}
}

// NewRouter wires the captcha API and /metrics.
func NewRouter(h *Handler, gatherer prometheus.Gatherer, logger zerolog.Logger) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery(), requestLogger(logger))

	api := e.Group("/api").Group("/session")
	api.POST("", h.Create)
	api.GET("/:id", h.State)
	api.DELETE("/:id", h.Delete)
	api.POST("/:id/container", h.Container)
	api.POST("/:id/frame", h.Frame)
	api.POST("/:id/capture", h.Capture)
	api.POST("/:id/sectors/:sector/toggle", h.Toggle)
	api.POST("/:id/validate", h.Validate)
	api.POST("/:id/retry", h.Retry)
	api.GET("/:id/image", h.Image)

	if gatherer != nil {
		e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return e
}

func (h *Handler) Create(c *gin.Context) {
	s := h.store.Create()
	c.JSON(http.StatusCreated, s.Snapshot())
}

func (h *Handler) State(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.Remove(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Container(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req ContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json", "message": err.Error()})
		return
	}
	if err := s.Measure(Size{Width: req.Width, Height: req.Height}); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// Frame receives the latest camera frame as multipart field "file".
func (h *Handler) Frame(c *gin.Context) {
	frames, err := h.store.Frames(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	file, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Frame upload too large", "message": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read form file", "message": err.Error()})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open form file", "message": err.Error()})
		return
	}
	defer f.Close()

	img, err := DecodeFrame(f, h.maxFrameSide)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to decode frame", "message": err.Error()})
		return
	}
	if err := frames.Push(img); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Capture(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.OnCapture(c.Request.Context()); err != nil {
		if errors.Is(err, ErrConfiguration) {
			_ = h.store.Remove(s.ID())
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *Handler) Toggle(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("sector"))
	if err != nil {
		h.fail(c, ErrInvalidSector)
		return
	}
	selected, err := s.ToggleSectorSelection(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sector": id, "selected": selected, "selection": s.Snapshot().Selection})
}

func (h *Handler) Validate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	status, err := s.OnValidateSubmit()
	if err != nil {
		h.fail(c, err)
		return
	}
	st := s.Snapshot()
	c.JSON(http.StatusOK, ValidateResponse{
		Success:           status == StatusSuccess,
		Status:            status,
		AttemptsRemaining: st.Attempt.AttemptsRemaining,
		Message:           statusMessage(status, st.Attempt.AttemptsRemaining),
	})
}

func (h *Handler) Retry(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.OnRetry(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *Handler) Image(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	png, err := s.Render(h.renderSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		h.log.Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(code, gin.H{"error": http.StatusText(code), "message": err.Error()})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, ErrInvalidSector), errors.Is(err, ErrFrameTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrCapabilityUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func statusMessage(status UserStatus, remaining int) string {
	switch status {
	case StatusSuccess:
		return "Verification passed"
	case StatusBlocked:
		return "Too many failed attempts, access blocked"
	case StatusFailed:
		return "Verification failed, " + strconv.Itoa(remaining) + " attempt(s) left"
	default:
		return string(status)
	}
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
