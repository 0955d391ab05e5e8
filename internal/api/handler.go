package api

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/time/rate"

	"github.com/insightdelivered/transcript-gwa/internal/apperrors"
	"github.com/insightdelivered/transcript-gwa/internal/logger"
	"github.com/insightdelivered/transcript-gwa/internal/metrics"
	"github.com/insightdelivered/transcript-gwa/internal/models"
	"github.com/insightdelivered/transcript-gwa/internal/report"
	"github.com/insightdelivered/transcript-gwa/internal/session"
	"github.com/insightdelivered/transcript-gwa/internal/transcript"
	"github.com/insightdelivered/transcript-gwa/internal/writer"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// ComputationResponse is the JSON body of the upload and session endpoints.
type ComputationResponse struct {
	Success       bool                  `json:"success"`
	Error         string                `json:"error,omitempty"`
	StudentName   string                `json:"studentName,omitempty"`
	StudentNumber string                `json:"studentNumber,omitempty"`
	Records       []models.CourseRecord `json:"records"`
	TotalUnits    string                `json:"totalUnits,omitempty"`
	TotalWeighted string                `json:"totalWeighted,omitempty"`
	GWA           string                `json:"gwa,omitempty"`
	Honor         string                `json:"honor,omitempty"`
	Count         int                   `json:"count"`
	Stats         *models.ParseStats    `json:"stats,omitempty"`
	DebugLines    []models.DebugLine    `json:"debugLines,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	StaticDir    string
	Processor    *transcript.Processor
	Sessions     *session.Store
	Metrics      *metrics.Metrics
	CookieName   string
	CookieSecure bool
	// Limiter throttles uploads; nil disables throttling.
	Limiter *rate.Limiter
}

// NewApp creates a fiber app with the shared middleware and error envelope.
func NewApp(bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Content-Type",
		ExposeHeaders: "Content-Disposition",
	}))
	app.Use(requestLogger)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.handleHealth)
	api.Post("/upload", h.rateLimit, h.handleUpload)
	api.Get("/session", h.handleSession)
	api.Get("/report", h.handleReport)
	api.Get("/export/csv", h.handleExportCSV)
	api.Get("/export/xlsx", h.handleExportXLSX)

	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.Metrics.Handler()))
	}

	// Serve the frontend; unknown non-API paths fall back to index.html.
	if h.StaticDir != "" {
		app.Static("/", h.StaticDir)
		app.Get("/*", func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return fiber.ErrNotFound
			}
			return c.SendFile(filepath.Join(h.StaticDir, "index.html"))
		})
	}
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  Version,
		"engine":   "fiber",
		"sessions": h.Sessions.Len(),
	})
}

func (h *Handler) handleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
	}

	res, err := h.Processor.Process(c.UserContext(), fh.Filename, data)
	if err != nil {
		return writeError(c, statusFor(err), apperrors.Message(err))
	}

	id := h.Sessions.Save(c.Cookies(h.CookieName), res.Computation)
	c.Cookie(&fiber.Cookie{
		Name:     h.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(h.Sessions.TTL()),
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	if h.Metrics != nil {
		h.Metrics.ActiveSessions.Set(float64(h.Sessions.Len()))
	}

	resp := buildResponse(res.Computation)
	if c.Query("debug") == "true" {
		resp.DebugLines = res.DebugLines
	}
	return c.JSON(resp)
}

func (h *Handler) handleSession(c *fiber.Ctx) error {
	comp, err := h.computation(c)
	if err != nil {
		return writeError(c, statusFor(err), apperrors.Message(err))
	}
	return c.JSON(buildResponse(comp))
}

func (h *Handler) handleReport(c *fiber.Ctx) error {
	comp, err := h.computation(c)
	if err != nil {
		return writeError(c, statusFor(err), apperrors.Message(err))
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, comp); err != nil {
		logger.Error().Err(err).Msg("report rendering failed")
		return writeError(c, statusFor(err), apperrors.Message(err))
	}
	if h.Metrics != nil {
		h.Metrics.Reports.Inc()
	}

	setDownloadHeaders(c, report.Filename(comp.Header.StudentName))
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(buf.Bytes())
}

func (h *Handler) handleExportCSV(c *fiber.Ctx) error {
	comp, err := h.computation(c)
	if err != nil {
		return writeError(c, statusFor(err), apperrors.Message(err))
	}

	var buf bytes.Buffer
	w := &writer.CSVWriter{IncludeHeader: c.Query("header") != "false"}
	if err := w.Write(&buf, comp); err != nil {
		return writeError(c, statusFor(err), apperrors.Message(err))
	}

	setDownloadHeaders(c, exportName(comp, ".csv"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (h *Handler) handleExportXLSX(c *fiber.Ctx) error {
	comp, err := h.computation(c)
	if err != nil {
		return writeError(c, statusFor(err), apperrors.Message(err))
	}

	var buf bytes.Buffer
	if err := (&writer.XLSXWriter{}).Write(&buf, comp); err != nil {
		return writeError(c, statusFor(err), apperrors.Message(err))
	}

	setDownloadHeaders(c, exportName(comp, ".xlsx"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}

// computation loads the caller's session. A missing or expired session and
// an empty computation both count as "no data".
func (h *Handler) computation(c *fiber.Ctx) (*models.Computation, error) {
	comp, err := h.Sessions.Get(c.Cookies(h.CookieName))
	if err != nil {
		return nil, errors.Join(apperrors.ErrNoDataForReport, err)
	}
	if comp.Empty() {
		return nil, apperrors.ErrNoDataForReport
	}
	return comp, nil
}

func (h *Handler) rateLimit(c *fiber.Ctx) error {
	if h.Limiter != nil && !h.Limiter.Allow() {
		if h.Metrics != nil {
			h.Metrics.ObserveUpload("throttled")
		}
		return writeError(c, fiber.StatusTooManyRequests, "Too many uploads. Please try again shortly.")
	}
	return c.Next()
}

func buildResponse(comp *models.Computation) ComputationResponse {
	records := comp.Records
	if records == nil {
		records = []models.CourseRecord{}
	}
	stats := comp.Stats
	return ComputationResponse{
		Success:       true,
		StudentName:   comp.Header.StudentName,
		StudentNumber: comp.Header.StudentNumber,
		Records:       records,
		TotalUnits:    comp.Aggregate.TotalUnits.String(),
		TotalWeighted: comp.Aggregate.TotalWeighted.StringFixed(2),
		GWA:           comp.Aggregate.AverageText(),
		Honor:         string(comp.Honor),
		Count:         len(records),
		Stats:         &stats,
	}
}

func exportName(comp *models.Computation, ext string) string {
	return report.Surname(comp.Header.StudentName) + "_GWA Computation" + ext
}

// setDownloadHeaders marks the response as a non-cacheable attachment.
// fiber's Attachment URL-escapes spaces, so the disposition is built here.
func setDownloadHeaders(c *fiber.Ctx, filename string) {
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Set(fiber.HeaderContentSecurityPolicy, "default-src 'none';")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidFileType):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrNoDataForReport), errors.Is(err, apperrors.ErrSessionNotFound):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrEmptyExtraction), errors.Is(err, apperrors.ErrProcessingFailure):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ComputationResponse{
		Success: false,
		Error:   msg,
		Records: []models.CourseRecord{},
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Internal server error."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	}
	if status >= fiber.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return writeError(c, status, msg)
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logger.Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}

// StaticDirExists reports whether dir can be served as the frontend.
func StaticDirExists(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
