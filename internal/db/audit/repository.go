package audit

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"ulascansenturk/weather-reports/internal/db/gateway"
)

var ErrNotFound = errors.New("audit record not found")

type Repository interface {
	InsertEmailRecord(ctx context.Context, record *EmailRecord) error
	ListEmailHistory(ctx context.Context, limit int) ([]EmailRecord, error)
	RecordJobRun(ctx context.Context, run *JobRun) error
	LastJobRun(ctx context.Context, jobName string) (*JobRun, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type AuditSQLRepository struct {
	gw *gateway.Gateway
}

func NewRepository(gw *gateway.Gateway) Repository {
	return &AuditSQLRepository{gw: gw}
}

func (r *AuditSQLRepository) db(ctx context.Context) (*gorm.DB, error) {
	db := r.gw.DB()
	if db == nil {
		return nil, gateway.ErrNotConnected
	}
	return db.WithContext(ctx), nil
}

func (r *AuditSQLRepository) InsertEmailRecord(ctx context.Context, record *EmailRecord) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}
	if record.SentAt.IsZero() {
		record.SentAt = time.Now().UTC()
	}
	return db.Create(record).Error
}

func (r *AuditSQLRepository) ListEmailHistory(ctx context.Context, limit int) ([]EmailRecord, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	var records []EmailRecord
	if err := db.Order("sent_at DESC").Order("id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *AuditSQLRepository) RecordJobRun(ctx context.Context, run *JobRun) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}
	return db.Create(run).Error
}

func (r *AuditSQLRepository) LastJobRun(ctx context.Context, jobName string) (*JobRun, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	var run JobRun
	err = db.Where("job_name = ?", jobName).Order("started_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// PruneBefore deletes email history and job runs older than cutoff and
// returns the number of rows removed.
func (r *AuditSQLRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	emails, err := r.gw.ExecuteAffected(ctx, `DELETE FROM email_history WHERE sent_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}

	runs, err := r.gw.ExecuteAffected(ctx, `DELETE FROM job_runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return emails, err
	}

	return emails + runs, nil
}
