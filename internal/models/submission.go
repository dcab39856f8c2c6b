package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FormType string

const (
	FormContent      FormType = "content"
	FormOccurrence   FormType = "occurrence"
	FormAnnouncement FormType = "announcement"
)

type SubmissionStatus string

const (
	SubmissionDelivered SubmissionStatus = "delivered"
	SubmissionFailed    SubmissionStatus = "failed"
)

// Submission is the audit record of one webhook delivery attempt cycle: the
// exact payload snapshot that went out, who submitted it, and how delivery
// ended. One row per submit, regardless of how many retries it took.
type Submission struct {
	ID        string           `json:"id" gorm:"primaryKey;size:36"`
	FormType  FormType         `json:"form_type" gorm:"not null;size:20;index"`
	Status    SubmissionStatus `json:"status" gorm:"not null;size:20;index"`
	Payload   datatypes.JSON   `json:"payload" gorm:"not null"`
	Professor string           `json:"professor" gorm:"not null;size:255;index"`
	Attempts  int              `json:"attempts" gorm:"not null;default:1"`
	Error     *string          `json:"error,omitempty" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Submission) TableName() string {
	return "form_submissions"
}
