package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Employment types a job posting may carry.
const (
	EmploymentFulltime   = "fulltime"
	EmploymentFreelance  = "freelance"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
)

func ValidEmploymentType(t string) bool {
	switch t {
	case EmploymentFulltime, EmploymentFreelance, EmploymentContract, EmploymentInternship:
		return true
	}
	return false
}

// User is the join target for author and applicant lookups. Account
// management lives in a separate service; this table only has to exist so
// listings can resolve display attributes.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username       string `gorm:"not null" json:"username,omitempty"`
	Email          string `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Password       string `gorm:"not null" json:"-"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type Job struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// One author may not post the same title+company twice. The composite
	// index backs the create-time pre-check so a lost race still fails.
	Title       string    `gorm:"not null;uniqueIndex:idx_jobs_title_company_author" json:"title"`
	CompanyName string    `gorm:"not null;uniqueIndex:idx_jobs_title_company_author" json:"company_name"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_jobs_title_company_author" json:"author_id"`
	Author      *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Role           string         `gorm:"not null" json:"role"`
	Category       string         `gorm:"not null" json:"category"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	City           string         `json:"city"`
	Country        string         `json:"country"`
	EmploymentType string         `gorm:"not null;default:fulltime" json:"employment_type"`
	Deadline       *time.Time     `json:"deadline,omitempty"`
	SalaryMin      *float64       `json:"salary_min,omitempty"`
	SalaryMax      *float64       `json:"salary_max,omitempty"`
	Skills         pq.StringArray `gorm:"type:text[]" json:"skills,omitempty"`

	Applicants []Applicant `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applicants"`
}

// Applicant is one user's application to one job. Kept as its own table so
// apply/unapply are single-row writes instead of whole-document rewrites.
type Applicant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	JobID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applicants_job_user" json:"job_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applicants_job_user" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Message string `gorm:"type:text;not null" json:"message"`
	Resume  string `gorm:"not null" json:"resume,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

func (a *Applicant) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
