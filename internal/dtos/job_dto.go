package dtos

import "time"

// SalaryRange mirrors the {min,max} object the frontend sends. Pointers so a
// half-specified range is distinguishable from zero salaries.
type SalaryRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type CreateJobRequest struct {
	Title       string `json:"title" binding:"required"`
	Role        string `json:"role" binding:"required"`
	Category    string `json:"category" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
	Description string `json:"description" binding:"required"`

	// Optional fields
	City           string       `json:"city"`
	Country        string       `json:"country"`
	EmploymentType string       `json:"employment_type"`
	Deadline       *time.Time   `json:"deadline"`
	Salary         *SalaryRange `json:"salary"`
	Skills         []string     `json:"skills"`
}

// UpdateJobRequest is a partial patch. Every field is a pointer: nil means
// "not supplied" and is left alone, a present-but-blank string is a
// validation error rather than a silent no-op.
type UpdateJobRequest struct {
	Title          *string      `json:"title"`
	Role           *string      `json:"role"`
	Category       *string      `json:"category"`
	CompanyName    *string      `json:"company_name"`
	Description    *string      `json:"description"`
	City           *string      `json:"city"`
	Country        *string      `json:"country"`
	EmploymentType *string      `json:"employment_type"`
	Deadline       *time.Time   `json:"deadline"`
	Salary         *SalaryRange `json:"salary"`
	Skills         *[]string    `json:"skills"`
}
