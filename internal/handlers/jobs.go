package handlers

import (
	"errors"
	"net/http"

	"taskflow/internal/dto"
	"taskflow/internal/jobs"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	runner *jobs.Runner
}

func NewJobHandler(runner *jobs.Runner) *JobHandler {
	return &JobHandler{runner: runner}
}

// Enqueue godoc
// @Summary      Start a background job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      dto.JobRequest  true  "Job type"
// @Success      202   {object}  dto.JobResponse
// @Failure      400   {object}  map[string]string
// @Router       /jobs [post]
func (h *JobHandler) Enqueue(c *gin.Context) {
	var req dto.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.runner.Enqueue(c.Request.Context(), req.Type)
	if err != nil {
		if errors.Is(err, jobs.ErrInvalidType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue job"})
		return
	}
	c.JSON(http.StatusAccepted, dto.JobResponse{ID: id})
}

// Status godoc
// @Summary      Poll a background job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  jobs.Job
// @Failure      404  {object}  map[string]string
// @Router       /jobs/{id} [get]
func (h *JobHandler) Status(c *gin.Context) {
	j, err := h.runner.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, j)
}
