package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobboard-backend/internal/dtos"
	"jobboard-backend/internal/middleware"
	"jobboard-backend/internal/models"
	"jobboard-backend/internal/services"
)

// JobServicer is the slice of the job service the handlers use. Kept as an
// interface so handler tests can mock it.
type JobServicer interface {
	CreateJob(ctx context.Context, authorID uuid.UUID, req *dtos.CreateJobRequest) (*models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	ListJobsByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Job, error)
	ListAppliedJobs(ctx context.Context, userID uuid.UUID) ([]models.Job, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	Apply(ctx context.Context, jobID, userID uuid.UUID, message string, image []byte, contentType string) (string, error)
	Unapply(ctx context.Context, jobID, userID uuid.UUID) error
	Update(ctx context.Context, jobID, userID uuid.UUID, req *dtos.UpdateJobRequest) (*models.Job, error)
	Delete(ctx context.Context, jobID, userID uuid.UUID) error
}

type JobHandler struct {
	Jobs   JobServicer
	Logger *zap.Logger
}

func NewJobHandler(jobs JobServicer, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		Jobs:   jobs,
		Logger: logger,
	}
}

// RegisterRoutes mounts the job endpoints on an authenticated group.
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.CreateJob)
	rg.GET("/jobs", h.GetAllJobs)
	rg.GET("/jobs/mine", h.GetJobsByUser)
	rg.GET("/jobs/applied", h.GetAppliedJobsByUser)
	rg.GET("/jobs/:jobId", h.GetSingleJob)
	rg.POST("/jobs/:jobId/apply", h.ApplyToJob)
	rg.POST("/jobs/:jobId/unapply", h.UnapplyFromJob)
	rg.PATCH("/jobs/:jobId", h.UpdateJob)
	rg.DELETE("/jobs/:jobId", h.DeleteJob)
}

// POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dtos.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	job, err := h.Jobs.CreateJob(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err, "Server error while creating job")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Job created successfully",
		"job":     job,
	})
}

// GET /jobs
func (h *JobHandler) GetAllJobs(c *gin.Context) {
	jobs, err := h.Jobs.ListJobs(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Server error while fetching jobs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "jobs": jobs})
}

// GET /jobs/mine
func (h *JobHandler) GetJobsByUser(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	jobs, err := h.Jobs.ListJobsByAuthor(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Server error while fetching user jobs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "jobs": jobs})
}

// GET /jobs/applied
func (h *JobHandler) GetAppliedJobsByUser(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	jobs, err := h.Jobs.ListAppliedJobs(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Server error while fetching applied jobs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Jobs applied to by user",
		"count":   len(jobs),
		"jobs":    jobs,
	})
}

// GET /jobs/:jobId
func (h *JobHandler) GetSingleJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	job, err := h.Jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.respondError(c, err, "Server error while fetching job")
		return
	}

	c.JSON(http.StatusOK, job)
}

// POST /jobs/:jobId/apply (multipart: message, image)
func (h *JobHandler) ApplyToJob(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	message := c.PostForm("message")

	var image []byte
	var contentType string
	file, header, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()
		image, err = io.ReadAll(file)
		if err != nil {
			h.respondError(c, err, "Server error while applying to job")
			return
		}
		contentType = header.Header.Get("Content-Type")
	}

	resumeURL, err := h.Jobs.Apply(c.Request.Context(), jobID, userID, message, image, contentType)
	if err != nil {
		h.respondError(c, err, "Server error while applying to job")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Application submitted successfully",
		"resumeUrl": resumeURL,
	})
}

// POST /jobs/:jobId/unapply
func (h *JobHandler) UnapplyFromJob(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	if err := h.Jobs.Unapply(c.Request.Context(), jobID, userID); err != nil {
		h.respondError(c, err, "Server error while unapplying from job")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully removed your application from this job",
	})
}

// PATCH /jobs/:jobId
func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var req dtos.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	job, err := h.Jobs.Update(c.Request.Context(), jobID, userID, &req)
	if err != nil {
		h.respondError(c, err, "Server error while updating job")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job updated successfully",
		"job":     job,
	})
}

// DELETE /jobs/:jobId
func (h *JobHandler) DeleteJob(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	if err := h.Jobs.Delete(c.Request.Context(), jobID, userID); err != nil {
		h.respondError(c, err, "Server error while deleting job")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job deleted successfully",
	})
}

// respondError maps domain errors to status codes. Client mistakes are not
// logged; dependent-service failures are.
func (h *JobHandler) respondError(c *gin.Context, err error, serverMsg string) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		return
	}

	var ce *services.ConflictError
	if errors.As(err, &ce) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ce.Error()})
		return
	}

	if errors.Is(err, services.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	if errors.Is(err, services.ErrNotAuthor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to modify this job"})
		return
	}

	h.Logger.Error(serverMsg,
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": serverMsg})
}
