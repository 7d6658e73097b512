package audit

import (
	"encoding/json"
	"time"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"

	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

type EmailRecord struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Recipient    string    `json:"recipient" gorm:"column:recipient_email;size:255;not null;index"`
	Subject      string    `json:"subject" gorm:"size:255"`
	Status       string    `json:"status" gorm:"size:16;not null"`
	ErrorMessage string    `json:"error_message,omitempty"`
	LocationIDs  string    `json:"location_ids,omitempty" gorm:"column:location_ids_included"`
	SentAt       time.Time `json:"sent_at" gorm:"index"`
}

func (EmailRecord) TableName() string {
	return "email_history"
}

// IDs decodes the JSON array of referenced location ids.
func (r EmailRecord) IDs() []uint {
	if r.LocationIDs == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(r.LocationIDs), &ids); err != nil {
		return nil
	}
	return ids
}

// EncodeIDs is the inverse of IDs; an empty set encodes to "".
func EncodeIDs(ids []uint) string {
	if len(ids) == 0 {
		return ""
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return ""
	}
	return string(b)
}

type JobRun struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	RunID      string    `json:"run_id" gorm:"size:36;uniqueIndex"`
	JobName    string    `json:"job_name" gorm:"size:64;not null;index:idx_job_runs_name_started"`
	StartedAt  time.Time `json:"started_at" gorm:"index:idx_job_runs_name_started"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status" gorm:"size:16"`
	Error      string    `json:"error,omitempty"`
}

func (JobRun) TableName() string {
	return "job_runs"
}
