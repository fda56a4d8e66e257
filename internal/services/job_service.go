package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"jobboard-backend/internal/dtos"
	"jobboard-backend/internal/models"
)

const pgUniqueViolation = "23505"

// JobsCache is what the service needs from the listing cache. Nil is fine;
// every method tolerates running without one.
type JobsCache interface {
	GetJobs(ctx context.Context) ([]models.Job, bool)
	SetJobs(ctx context.Context, jobs []models.Job)
	Invalidate(ctx context.Context)
}

type JobService struct {
	DB     *gorm.DB
	Media  *MediaService
	Cache  JobsCache
	Logger *zap.Logger
}

func NewJobService(db *gorm.DB, media *MediaService, cache JobsCache, logger *zap.Logger) *JobService {
	return &JobService{
		DB:     db,
		Media:  media,
		Cache:  cache,
		Logger: logger,
	}
}

// CreateJob validates the payload, rejects a duplicate (title, company,
// author) triple and persists the new posting. The unique index backs the
// pre-check: if two identical creates race, the loser's insert comes back as
// a unique violation and is mapped to the same conflict.
func (s *JobService) CreateJob(ctx context.Context, authorID uuid.UUID, req *dtos.CreateJobRequest) (*models.Job, error) {
	title := strings.TrimSpace(req.Title)
	role := strings.TrimSpace(req.Role)
	category := strings.TrimSpace(req.Category)
	companyName := strings.TrimSpace(req.CompanyName)
	description := strings.TrimSpace(req.Description)

	if title == "" || role == "" || category == "" || companyName == "" || description == "" {
		return nil, validationf("Please fill in all required fields")
	}

	employmentType := req.EmploymentType
	if employmentType == "" {
		employmentType = models.EmploymentFulltime
	}
	if !models.ValidEmploymentType(employmentType) {
		return nil, validationf("Invalid employment type")
	}

	if req.Salary != nil {
		if req.Salary.Min == nil || req.Salary.Max == nil {
			return nil, validationf("Salary range must contain valid numbers")
		}
		if *req.Salary.Min > *req.Salary.Max {
			return nil, validationf("Salary min must not be greater than max")
		}
	}

	if req.Deadline != nil && !req.Deadline.After(time.Now()) {
		return nil, validationf("Deadline must be a valid future date")
	}

	city := strings.TrimSpace(req.City)
	if city == "" {
		city = "addis abeba"
	}
	country := strings.TrimSpace(req.Country)
	if country == "" {
		country = "Ethiopa"
	}

	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Job{}).
		Where("title = ? AND company_name = ? AND author_id = ?", title, companyName, authorID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("check duplicate job: %w", err)
	}
	if count > 0 {
		return nil, conflictf("You have already posted a job with the same title and company")
	}

	job := &models.Job{
		Title:          title,
		Role:           role,
		Category:       category,
		CompanyName:    companyName,
		Description:    description,
		City:           city,
		Country:        country,
		EmploymentType: employmentType,
		Deadline:       req.Deadline,
		Skills:         req.Skills,
		AuthorID:       authorID,
	}
	if req.Salary != nil {
		job.SalaryMin = req.Salary.Min
		job.SalaryMax = req.Salary.Max
	}

	if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, conflictf("You have already posted a job with the same title and company")
		}
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.invalidateListing(ctx)

	s.Logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("author_id", authorID.String()),
	)

	return job, nil
}

// ListJobs returns every posting with the author resolved to display
// attributes. Served from the cache when it is warm.
func (s *JobService) ListJobs(ctx context.Context) ([]models.Job, error) {
	if s.Cache != nil {
		if jobs, ok := s.Cache.GetJobs(ctx); ok {
			return jobs, nil
		}
	}

	var jobs []models.Job
	err := s.DB.WithContext(ctx).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "profile_picture")
		}).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	if s.Cache != nil {
		s.Cache.SetJobs(ctx, jobs)
	}

	return jobs, nil
}

// ListJobsByAuthor returns the caller's own postings with each applicant's
// identity resolved.
func (s *JobService) ListJobsByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := s.DB.WithContext(ctx).
		Where("author_id = ?", authorID).
		Preload("Applicants.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "profile_picture")
		}).
		Preload("Applicants").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs by author: %w", err)
	}

	return jobs, nil
}

// ListAppliedJobs returns postings the caller has applied to. Resume URLs are
// not selected, so other applicants' resumes never leave the database.
func (s *JobService) ListAppliedJobs(ctx context.Context, userID uuid.UUID) ([]models.Job, error) {
	sub := s.DB.WithContext(ctx).Model(&models.Applicant{}).
		Select("job_id").
		Where("user_id = ?", userID)

	var jobs []models.Job
	err := s.DB.WithContext(ctx).
		Where("id IN (?)", sub).
		Preload("Applicants", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "created_at", "job_id", "user_id", "message")
		}).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "email", "profile_picture")
		}).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("list applied jobs: %w", err)
	}

	return jobs, nil
}

func (s *JobService) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "email")
		}).
		Preload("Applicants.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "email")
		}).
		Preload("Applicants").
		First(&job, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	return &job, nil
}

// Apply runs the full application pipeline: existence and duplicate checks,
// payload validation, resume processing and upload, then a single applicant
// insert. The insert happens only after the upload returned a usable URL.
func (s *JobService) Apply(ctx context.Context, jobID, userID uuid.UUID, message string, image []byte, contentType string) (string, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).First(&job, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrJobNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find job: %w", err)
	}

	var count int64
	err = s.DB.WithContext(ctx).Model(&models.Applicant{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("check existing application: %w", err)
	}
	if count > 0 {
		return "", conflictf("You have already applied to this job")
	}

	if len(image) == 0 {
		return "", validationf("Resume image is required")
	}
	if message == "" {
		return "", validationf("Message is required")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", validationf("Resume must be an image")
	}

	resumeURL, err := s.Media.UploadResume(ctx, image)
	if err != nil {
		return "", err
	}

	applicant := &models.Applicant{
		JobID:   jobID,
		UserID:  userID,
		Message: message,
		Resume:  resumeURL,
	}

	if err := s.DB.WithContext(ctx).Create(applicant).Error; err != nil {
		if isUniqueViolation(err) {
			return "", conflictf("You have already applied to this job")
		}
		return "", fmt.Errorf("create applicant: %w", err)
	}

	s.invalidateListing(ctx)

	s.Logger.Info("application submitted",
		zap.String("job_id", jobID.String()),
		zap.String("user_id", userID.String()),
	)

	return resumeURL, nil
}

// Unapply removes exactly the caller's application from the job.
func (s *JobService) Unapply(ctx context.Context, jobID, userID uuid.UUID) error {
	var job models.Job
	err := s.DB.WithContext(ctx).First(&job, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrJobNotFound
	}
	if err != nil {
		return fmt.Errorf("find job: %w", err)
	}

	res := s.DB.WithContext(ctx).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Delete(&models.Applicant{})
	if res.Error != nil {
		return fmt.Errorf("delete applicant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return conflictf("You have not applied to this job")
	}

	s.invalidateListing(ctx)

	s.Logger.Info("application withdrawn",
		zap.String("job_id", jobID.String()),
		zap.String("user_id", userID.String()),
	)

	return nil
}

// Update applies a partial patch to the caller's own posting. The whole
// patch is validated before any field is assigned, so a rejected field never
// leaves the job half-updated.
func (s *JobService) Update(ctx context.Context, jobID, userID uuid.UUID, req *dtos.UpdateJobRequest) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).First(&job, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}

	if job.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	type patch struct {
		name  string
		value *string
		dst   *string
	}
	strFields := []patch{
		{"Job title", req.Title, &job.Title},
		{"Role", req.Role, &job.Role},
		{"Category", req.Category, &job.Category},
		{"Company name", req.CompanyName, &job.CompanyName},
		{"Job description", req.Description, &job.Description},
		{"City", req.City, &job.City},
		{"Country", req.Country, &job.Country},
	}
	for _, f := range strFields {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return nil, validationf("%s must not be blank", f.name)
		}
	}

	if req.EmploymentType != nil && !models.ValidEmploymentType(*req.EmploymentType) {
		return nil, validationf("Invalid employment type")
	}

	if req.Deadline != nil && !req.Deadline.After(time.Now()) {
		return nil, validationf("Deadline must be a valid future date")
	}

	salaryMin := job.SalaryMin
	salaryMax := job.SalaryMax
	if req.Salary != nil {
		if req.Salary.Min != nil {
			salaryMin = req.Salary.Min
		}
		if req.Salary.Max != nil {
			salaryMax = req.Salary.Max
		}
		if salaryMin != nil && salaryMax != nil && *salaryMin > *salaryMax {
			return nil, validationf("Salary min must not be greater than max")
		}
	}

	// Validation passed; now assign.
	for _, f := range strFields {
		if f.value != nil {
			*f.dst = strings.TrimSpace(*f.value)
		}
	}
	if req.EmploymentType != nil {
		job.EmploymentType = *req.EmploymentType
	}
	if req.Deadline != nil {
		job.Deadline = req.Deadline
	}
	if req.Salary != nil {
		job.SalaryMin = salaryMin
		job.SalaryMax = salaryMax
	}
	if req.Skills != nil {
		job.Skills = *req.Skills
	}

	if err := s.DB.WithContext(ctx).Save(&job).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, conflictf("You have already posted a job with the same title and company")
		}
		return nil, fmt.Errorf("update job: %w", err)
	}

	s.invalidateListing(ctx)

	s.Logger.Info("job updated", zap.String("job_id", jobID.String()))

	return &job, nil
}

// Delete removes the caller's own posting. Applicant rows go with it via the
// FK cascade.
func (s *JobService) Delete(ctx context.Context, jobID, userID uuid.UUID) error {
	var job models.Job
	err := s.DB.WithContext(ctx).First(&job, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrJobNotFound
	}
	if err != nil {
		return fmt.Errorf("find job: %w", err)
	}

	if job.AuthorID != userID {
		return ErrNotAuthor
	}

	if err := s.DB.WithContext(ctx).Select("Applicants").Delete(&job).Error; err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	s.invalidateListing(ctx)

	s.Logger.Info("job deleted", zap.String("job_id", jobID.String()))

	return nil
}

func (s *JobService) invalidateListing(ctx context.Context) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
