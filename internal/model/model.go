// Package model defines the entity types exchanged with the campus
// administration backend, together with the pagination envelope and
// client-side payload validation.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Entity is implemented by every record type managed by a resource store.
// Key returns the natural identifier used for equality matching on
// update and delete.
type Entity interface {
	Key() string
}

// College is a college record.
type College struct {
	CollegeCode string `json:"college_code"`
	CollegeName string `json:"college_name"`
}

// Key returns the college code.
func (c College) Key() string { return c.CollegeCode }

// Program is a degree program offered by a college.
type Program struct {
	ProgramCode string `json:"program_code"`
	ProgramName string `json:"program_name"`
	CollegeCode string `json:"college_code"`
}

// Key returns the program code.
func (p Program) Key() string { return p.ProgramCode }

// YearLevel is a student's year level. The backend has served the column
// both as a JSON string and as a bare number; both decode to the string
// form.
type YearLevel string

// UnmarshalJSON accepts "3" and 3 alike.
func (y *YearLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = YearLevel(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year_level must be a string or number: %s", data)
	}
	*y = YearLevel(n.String())
	return nil
}

// Student is a student record. ImageURL is empty when no photo is set.
type Student struct {
	StudentID   string    `json:"student_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	YearLevel   YearLevel `json:"year_level"`
	Gender      string    `json:"gender"`
	ProgramCode string    `json:"program_code"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// Key returns the student id.
func (s Student) Key() string { return s.StudentID }

// PageInfo describes the pagination window reported by the backend.
type PageInfo struct {
	TotalRecords int `json:"total_records"`
	TotalPages   int `json:"total_pages"`
	CurrentPage  int `json:"current_page"`
	Limit        int `json:"limit"`
}

// CollegePayload is the request body for creating or updating a college.
type CollegePayload struct {
	CollegeCode string `json:"college_code" validate:"required"`
	CollegeName string `json:"college_name" validate:"required"`
}

// ProgramPayload is the request body for creating or updating a program.
type ProgramPayload struct {
	ProgramCode string `json:"program_code" validate:"required"`
	ProgramName string `json:"program_name" validate:"required"`
	CollegeCode string `json:"college_code" validate:"required"`
}

// StudentPayload is the request body for creating or updating a student.
// The field set mirrors the backend's required fields.
type StudentPayload struct {
	StudentID   string `json:"student_id" validate:"required"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	YearLevel   string `json:"year_level" validate:"required"`
	Gender      string `json:"gender" validate:"required"`
	ProgramCode string `json:"program_code" validate:"required"`
}

// ValidationError reports a client-side validation failure. It is raised
// before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a payload against its struct tags. It returns a
// ValidationError naming the first missing field.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return NewValidationError("%s is required", errs[0].Field())
	}
	return NewValidationError("invalid payload: %v", err)
}
