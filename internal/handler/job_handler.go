package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxextract/internal/domain"
	"taxextract/internal/middleware"
	"taxextract/internal/service"
)

// JobHandler handles queued extraction endpoints.
type JobHandler struct {
	jobService service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// Create handles POST /api/v1/extraction-jobs
// @Summary Queue an extraction
// @Description Queue a stored document for background extraction
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body ExtractRequest true "Document to extract"
// @Success 202 {object} Response{data=domain.ExtractionJob} "Job queued"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 403 {object} ErrorResponseBody "Client not permitted"
// @Security BearerAuth
// @Router /extraction-jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.DryRun {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "dry_run is not supported for queued extractions")
		return
	}
	if !authorizeClient(c, req.ClientID) {
		return
	}

	job, err := h.jobService.Enqueue(c.Request.Context(), service.EnqueueInput{
		ClientID: req.ClientID,
		BlobName: req.BlobName,
		FormType: domain.FormType(req.FormType),
		AccessID: middleware.GetAccessID(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, job)
}

// Get handles GET /api/v1/extraction-jobs/:id
// @Summary Get an extraction job
// @Description Return the status of a queued extraction
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} Response{data=domain.ExtractionJob} "Job"
// @Failure 400 {object} ErrorResponseBody "Invalid job ID"
// @Failure 404 {object} ErrorResponseBody "Job not found"
// @Security BearerAuth
// @Router /extraction-jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job ID")
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Jobs of other clients are reported as missing.
	claims, err := middleware.GetClaims(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context")
		return
	}
	if !claims.CanAccessClient(job.ClientID) {
		HandleError(c, domain.ErrJobNotFound)
		return
	}

	RespondOK(c, job)
}
