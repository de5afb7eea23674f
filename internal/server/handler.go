package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/gyeh/caselog/internal/jobstore"
	"github.com/gyeh/caselog/internal/model"
	"github.com/gyeh/caselog/internal/reference"
)

// Handler provides the job API endpoints.
type Handler struct {
	svc *Service
	ref *reference.Lexicon
}

// NewHandler creates the API handler.
func NewHandler(svc *Service, ref *reference.Lexicon) *Handler {
	return &Handler{svc: svc, ref: ref}
}

// RegisterRoutes registers the job API on the provided route group.
//
//	POST /api/upload          - Upload a case-log CSV and start a job
//	GET  /api/status/:job_id  - Poll job progress
//	GET  /api/result/:job_id  - Fetch standardized records
//	GET  /api/cpt-codes       - List the CPT reference lexicon
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/upload", h.Upload)
	g.GET("/status/:job_id", h.Status)
	g.GET("/result/:job_id", h.Result)
	g.GET("/cpt-codes", h.CPTCodes)
}

// statusResponse is the wire shape for upload and status responses.
type statusResponse struct {
	JobID          string  `json:"job_id"`
	Status         string  `json:"status"`
	Progress       float64 `json:"progress"`
	TotalCases     int     `json:"total_cases"`
	ProcessedCases int     `json:"processed_cases"`
	Error          string  `json:"error,omitempty"`
}

func toStatusResponse(job *model.Job) statusResponse {
	return statusResponse{
		JobID:          job.ID.String(),
		Status:         string(job.Status),
		Progress:       job.Progress,
		TotalCases:     job.TotalCases,
		ProcessedCases: job.ProcessedCases,
		Error:          job.Error,
	}
}

// Upload handles POST /api/upload. Only .csv uploads are accepted.
func (h *Handler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "multipart field 'file' is required",
		})
	}
	if !strings.EqualFold(strings.TrimPrefix(extOf(fh.Filename), "."), "csv") {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "only .csv files are supported",
		})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "could not read uploaded file",
		})
	}
	defer src.Close()

	job, err := h.svc.Submit(c.Request().Context(), fh.Filename, src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "could not start job: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, toStatusResponse(job))
}

// Status handles GET /api/status/:job_id.
func (h *Handler) Status(c echo.Context) error {
	job, err := h.lookupJob(c)
	if job == nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatusResponse(job))
}

// resultResponse is the wire shape for completed job results.
type resultResponse struct {
	JobID  string             `json:"job_id"`
	Status string             `json:"status"`
	Cases  []model.CaseRecord `json:"cases"`
}

// Result handles GET /api/result/:job_id. Results exist only for
// completed jobs.
func (h *Handler) Result(c echo.Context) error {
	job, err := h.lookupJob(c)
	if job == nil {
		return err
	}
	if job.Status != model.JobCompleted {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "job is not completed: " + string(job.Status),
		})
	}
	return c.JSON(http.StatusOK, resultResponse{
		JobID:  job.ID.String(),
		Status: string(job.Status),
		Cases:  job.Result,
	})
}

// CPTCodes handles GET /api/cpt-codes.
func (h *Handler) CPTCodes(c echo.Context) error {
	entries := h.ref.Entries()
	if entries == nil {
		entries = []model.CPTReference{}
	}
	return c.JSON(http.StatusOK, map[string]any{"cpt_codes": entries})
}

// lookupJob resolves :job_id to a stored job. On failure the error response
// has already been written and the returned job is nil.
func (h *Handler) lookupJob(c echo.Context) (*model.Job, error) {
	id, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid job id",
		})
	}
	job, err := h.svc.Jobs.Get(c.Request().Context(), id)
	if errors.Is(err, jobstore.ErrNotFound) {
		return nil, c.JSON(http.StatusNotFound, map[string]string{
			"error": "job not found",
		})
	}
	if err != nil {
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "job lookup failed: " + err.Error(),
		})
	}
	return job, nil
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// New builds the echo instance with middleware and routes registered.
func New(h *Handler, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(log))
	h.RegisterRoutes(e.Group("/api"))
	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	})
}
