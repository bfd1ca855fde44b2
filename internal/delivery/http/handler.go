package http

import (
	"errors"
	"net/http"

	"category/extractor/internal/domain"
	"category/extractor/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *service.Service
}

func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// extractRequest is bound from a JSON body on POST and from the query string on GET.
type extractRequest struct {
	Main        string `json:"main" form:"main"`
	Sub         string `json:"sub" form:"sub"`
	SubSub      string `json:"subsub" form:"subsub"`
	RetailerURL string `json:"retailer_url" form:"retailer_url"`
}

func (r extractRequest) toDomain() domain.ExtractionRequest {
	return domain.ExtractionRequest{
		Path:        domain.CategoryPath{Main: r.Main, Sub: r.Sub, SubSub: r.SubSub},
		RetailerURL: r.RetailerURL,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "category-extractor",
		"jobs":    h.service.JobsEnabled(),
	})
}

// Extract runs one synchronous extraction. GET and POST share semantics.
func (h *Handler) Extract(c *gin.Context) {
	req, ok := bindExtractRequest(c)
	if !ok {
		return
	}

	result, err := h.service.Extract(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) SubmitJob(c *gin.Context) {
	req, ok := bindExtractRequest(c)
	if !ok {
		return
	}

	job, err := h.service.Submit(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, job)
}

func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func bindExtractRequest(c *gin.Context) (extractRequest, bool) {
	var req extractRequest

	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return req, false
	}

	return req, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrJobsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Errorf("❌ Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
