//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxExamTitleLen = 200

// ExamStatus is the publication state of an exam.
type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "DRAFT"
	ExamStatusPublished ExamStatus = "PUBLISHED"
	ExamStatusArchived  ExamStatus = "ARCHIVED"
)

// Valid reports whether the exam status is supported.
func (s ExamStatus) Valid() bool {
	switch s {
	case ExamStatusDraft, ExamStatusPublished, ExamStatusArchived:
		return true
	default:
		return false
	}
}

func normalizeExamStatus(s ExamStatus) ExamStatus {
	v := ExamStatus(strings.ToUpper(strings.TrimSpace(string(s))))
	if v == "" {
		return ExamStatusDraft
	}
	return v
}

// Exam is an assessment a learner can take.
type Exam struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Level           string     `json:"level,omitempty"`
	Status          ExamStatus `json:"status"`
	DurationMinutes int        `json:"durationMinutes"`
	QuestionCount   int        `json:"questionCount,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreateExamRequest represents parameters to create an Exam.
type CreateExamRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Level           string     `json:"level,omitempty"`
	Status          ExamStatus `json:"status,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
}

// Validate validates CreateExamRequest and normalizes the status.
func (r *CreateExamRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > maxExamTitleLen {
		return errors.New("title cannot exceed 200 characters")
	}
	if r.DurationMinutes <= 0 {
		return errors.New("durationMinutes must be > 0")
	}
	r.Title = title
	r.Status = normalizeExamStatus(r.Status)
	if !r.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

// UpdateExamRequest represents a partial update of an Exam.
type UpdateExamRequest struct {
	Title           *string     `json:"title,omitempty"`
	Description     *string     `json:"description,omitempty"`
	Level           *string     `json:"level,omitempty"`
	Status          *ExamStatus `json:"status,omitempty"`
	DurationMinutes *int        `json:"durationMinutes,omitempty"`
}

// HasUpdates reports whether any field is set.
func (r *UpdateExamRequest) HasUpdates() bool {
	return r.Title != nil || r.Description != nil || r.Level != nil || r.Status != nil ||
		r.DurationMinutes != nil
}

// Validate ensures at least one field is set and values are sane.
func (r *UpdateExamRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(t) > maxExamTitleLen {
			return errors.New("title cannot exceed 200 characters")
		}
		*r.Title = t
	}
	if r.DurationMinutes != nil && *r.DurationMinutes <= 0 {
		return errors.New("durationMinutes must be > 0")
	}
	if r.Status != nil {
		s := normalizeExamStatus(*r.Status)
		if !s.Valid() {
			return errors.New("invalid status")
		}
		*r.Status = s
	}
	return nil
}

// ImportExamRequest carries an exam definition document to import.
type ImportExamRequest struct {
	FileName string `json:"fileName"`
	Content  []byte `json:"content"`
}

// Validate validates ImportExamRequest.
func (r *ImportExamRequest) Validate() error {
	if strings.TrimSpace(r.FileName) == "" {
		return errors.New("fileName is required")
	}
	if len(r.Content) == 0 {
		return errors.New("content is required")
	}
	return nil
}

// ImportResult summarizes an exam import.
type ImportResult struct {
	ExamID        string   `json:"examId"`
	QuestionCount int      `json:"questionCount"`
	Warnings      []string `json:"warnings,omitempty"`
}

// ExamAttempt is one learner's run through an exam.
type ExamAttempt struct {
	ID          string     `json:"id"`
	ExamID      string     `json:"examId"`
	UserID      string     `json:"userId"`
	UserEmail   string     `json:"userEmail,omitempty"`
	Score       *float64   `json:"score,omitempty"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Finished reports whether the attempt has been completed.
func (a ExamAttempt) Finished() bool {
	return a.CompletedAt != nil
}
