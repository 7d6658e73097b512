package service

import (
	"context"
	"errors"

	"ulascansenturk/weather-reports/config"
	"ulascansenturk/weather-reports/internal/db/audit"
	"ulascansenturk/weather-reports/internal/scheduler"
)

// Callbacks maps configured job names to pipeline steps.
func Callbacks(svc WeatherReportService) map[string]scheduler.JobFunc {
	return map[string]scheduler.JobFunc{
		config.JobWeatherUpdate: func(ctx context.Context) error {
			_, err := svc.Refresh(ctx)
			return err
		},
		config.JobReportGeneration: func(ctx context.Context) error {
			_, err := svc.GenerateReport(ctx)
			return err
		},
		config.JobEmailDispatch: func(ctx context.Context) error {
			_, err := svc.SendReport(ctx)
			return err
		},
		config.JobLogCleanup: func(ctx context.Context) error {
			_, err := svc.CleanupOldLogs(ctx)
			return err
		},
	}
}

// JobRunRecorder persists scheduler runs to the job_runs table and reads
// the latest one back when a job is registered.
type JobRunRecorder struct {
	repo audit.Repository
}

var (
	_ scheduler.RunRecorder = (*JobRunRecorder)(nil)
	_ scheduler.RunHistory  = (*JobRunRecorder)(nil)
)

func NewJobRunRecorder(repo audit.Repository) *JobRunRecorder {
	return &JobRunRecorder{repo: repo}
}

func (r *JobRunRecorder) RecordRun(ctx context.Context, run scheduler.RunRecord) error {
	record := &audit.JobRun{
		RunID:      run.ID,
		JobName:    run.Job,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Status:     audit.RunSucceeded,
	}
	if run.Err != nil {
		record.Status = audit.RunFailed
		record.Error = run.Err.Error()
	}
	return r.repo.RecordJobRun(ctx, record)
}

func (r *JobRunRecorder) LastRun(ctx context.Context, job string) (scheduler.RunRecord, bool, error) {
	record, err := r.repo.LastJobRun(ctx, job)
	if errors.Is(err, audit.ErrNotFound) {
		return scheduler.RunRecord{}, false, nil
	}
	if err != nil {
		return scheduler.RunRecord{}, false, err
	}

	run := scheduler.RunRecord{
		ID:         record.RunID,
		Job:        record.JobName,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
	}
	if record.Status == audit.RunFailed {
		run.Err = errors.New(record.Error)
	}
	return run, true, nil
}
