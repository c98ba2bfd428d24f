package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/export"
	"github.com/joseph-ayodele/jobs-tracker/internal/jobs"
	"github.com/joseph-ayodele/jobs-tracker/internal/result"
)

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HTTPHandler serves the REST API under /api/jobs.
type HTTPHandler struct {
	jobs     *jobs.Service
	exporter *export.Service
	db       Pinger
	logger   *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc *jobs.Service, exporter *export.Service, db Pinger, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(logger), AccessLog(logger), CORS())

	h := &HTTPHandler{jobs: svc, exporter: exporter, db: db, logger: logger}

	router.GET("/", h.Root)
	router.GET("/healthz", h.Health)

	api := router.Group("/api/jobs")
	api.GET("", h.List)
	api.POST("", h.Create)
	api.GET("/result-types", h.ResultTypes)
	api.GET("/export", h.Export)
	api.GET("/:id", h.Get)
	api.PUT("/:id", h.Update)
	api.PATCH("/:id", h.Update)
	api.DELETE("/:id", h.Delete)
	return router
}

func (h *HTTPHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "API running")
}

func (h *HTTPHandler) Health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		common.LoggerFromContext(c.Request.Context(), h.logger).Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *HTTPHandler) List(c *gin.Context) {
	h.respond(c, http.StatusOK, result.FromJobs(h.jobs.List(c.Request.Context())))
}

func (h *HTTPHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, result.FromJob(h.jobs.Get(c.Request.Context(), id)))
}

func (h *HTTPHandler) Create(c *gin.Context) {
	fields, ok := h.bindFields(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusCreated, result.FromJob(h.jobs.Create(c.Request.Context(), fields)))
}

func (h *HTTPHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	fields, ok := h.bindFields(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, result.FromJob(h.jobs.Update(c.Request.Context(), id, fields)))
}

func (h *HTTPHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, result.FromDelete(h.jobs.Delete(c.Request.Context(), id)))
}

func (h *HTTPHandler) ResultTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"result_types": h.jobs.ResultTypes()})
}

// Export streams an XLSX workbook. Optional from/to query params are YYYY-MM-DD.
func (h *HTTPHandler) Export(c *gin.Context) {
	var from, to *time.Time
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &from}, {"to", &to}} {
		raw := strings.TrimSpace(c.Query(p.name))
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": p.name + " must be YYYY-MM-DD"})
			return
		}
		*p.dst = &t
	}

	data, err := h.exporter.ExportJobsXLSX(c.Request.Context(), from, to)
	if err != nil {
		h.respond(c, http.StatusOK, result.FromError(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="jobs.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *HTTPHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) bindFields(c *gin.Context) (entity.Fields, bool) {
	var fields entity.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return nil, false
	}
	if fields == nil {
		fields = entity.Fields{}
	}
	return fields, true
}

func (h *HTTPHandler) respond(c *gin.Context, okStatus int, o result.Outcome) {
	if o.Kind == result.KindOK {
		c.JSON(okStatus, o.Payload())
		return
	}
	logger := common.LoggerFromContext(c.Request.Context(), h.logger)
	if o.Kind == result.KindServerError {
		logger.Error("request failed", "error", o.Err)
	} else {
		logger.Debug("request refused", "kind", o.Kind.String(), "message", o.Message)
	}
	c.JSON(o.HTTPStatus(), o.Payload())
}
