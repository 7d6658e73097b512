package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var (
	ErrJobBusy    = errors.New("job is already running")
	ErrUnknownJob = errors.New("unknown job")
	ErrStopping   = errors.New("scheduler is stopping")
)

type JobFunc func(ctx context.Context) error

// RunRecord describes one finished execution of a job.
type RunRecord struct {
	ID         string
	Job        string
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

type RunRecorder interface {
	RecordRun(ctx context.Context, run RunRecord) error
}

// RunHistory supplies the last recorded run of a job, so status survives a
// restart. ok is false when the job never ran.
type RunHistory interface {
	LastRun(ctx context.Context, job string) (run RunRecord, ok bool, err error)
}

type Observer interface {
	JobRun(name string, err error, duration time.Duration)
	JobSkipped(name string)
}

type JobStatus struct {
	Name      string    `json:"name"`
	Spec      string    `json:"spec"`
	Running   bool      `json:"running"`
	LastRun   time.Time `json:"last_run,omitempty"`
	NextRun   time.Time `json:"next_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

type Options struct {
	Logger   zerolog.Logger
	Recorder RunRecorder
	History  RunHistory
	Observer Observer
	// Location is used to evaluate schedules; defaults to time.Local.
	Location *time.Location
}

type job struct {
	name     string
	spec     string
	schedule cron.Schedule
	fn       JobFunc
	busy     *atomic.Bool

	next    time.Time
	last    time.Time
	lastErr string
}

// Runner evaluates job schedules in a single goroutine and runs due jobs on
// worker goroutines. A job never has more than one instance in flight.
type Runner struct {
	parser   cron.Parser
	logger   zerolog.Logger
	recorder RunRecorder
	history  RunHistory
	observer Observer
	loc      *time.Location

	mu       sync.Mutex
	jobs     map[string]*job
	running  bool
	stopping bool
	stop    chan struct{}
	wake    chan struct{}
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc

	wg sync.WaitGroup
}

func New(opts Options) *Runner {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Runner{
		parser:   cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		logger:   opts.Logger,
		recorder: opts.Recorder,
		history:  opts.History,
		observer: opts.Observer,
		loc:      opts.Location,
		jobs:     make(map[string]*job),
	}
}

func (r *Runner) now() time.Time {
	return time.Now().In(r.loc)
}

// Register parses spec and registers fn under name, replacing any previous
// registration.
func (r *Runner) Register(name, spec string, fn JobFunc) error {
	schedule, err := r.parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	return r.register(name, spec, schedule, fn)
}

func (r *Runner) RegisterSchedule(name string, schedule cron.Schedule, fn JobFunc) error {
	if schedule == nil {
		return fmt.Errorf("nil schedule for job %s", name)
	}
	return r.register(name, fmt.Sprintf("%T", schedule), schedule, fn)
}

func (r *Runner) register(name, spec string, schedule cron.Schedule, fn JobFunc) error {
	if name == "" {
		return errors.New("job name is required")
	}
	if fn == nil {
		return fmt.Errorf("nil callback for job %s", name)
	}

	j := &job{name: name, spec: spec, schedule: schedule, fn: fn, busy: &atomic.Bool{}}
	r.restore(j)

	r.mu.Lock()
	if prev, ok := r.jobs[name]; ok {
		// An in-flight instance of the replaced job still holds the flag.
		j.busy = prev.busy
		j.last = prev.last
		j.lastErr = prev.lastErr
		r.logger.Info().Str("job", name).Str("spec", spec).Msg("Replacing job registration")
	}
	if r.running {
		j.next = schedule.Next(r.now())
	}
	r.jobs[name] = j
	running := r.running
	wake := r.wake
	r.mu.Unlock()

	if running {
		select {
		case wake <- struct{}{}:
		default:
		}
	}

	r.logger.Info().Str("job", name).Str("spec", spec).Msg("Job registered")
	return nil
}

func (r *Runner) restore(j *job) {
	if r.history == nil {
		return
	}
	run, ok, err := r.history.LastRun(context.Background(), j.name)
	if err != nil {
		r.logger.Warn().Err(err).Str("job", j.name).Msg("Failed to load last run")
		return
	}
	if !ok {
		return
	}
	j.last = run.StartedAt
	if run.Err != nil {
		j.lastErr = run.Err.Error()
	}
}

// Start launches the scheduling goroutine. Calling Start on a running
// Runner is a no-op.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running || r.stopping {
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.wake = make(chan struct{}, 1)
	r.done = make(chan struct{})
	r.ctx, r.cancel = context.WithCancel(context.Background())

	now := r.now()
	for _, j := range r.jobs {
		j.next = j.schedule.Next(now)
	}

	go r.loop(r.stop, r.wake, r.done)
	r.logger.Info().Int("jobs", len(r.jobs)).Msg("Scheduler started")
}

// Stop halts scheduling and waits for in-flight jobs. Calling Stop on a
// stopped Runner is a no-op.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.stopping = true
	close(r.stop)
	done := r.done
	cancel := r.cancel
	r.mu.Unlock()

	<-done
	r.wg.Wait()
	cancel()

	r.mu.Lock()
	r.stopping = false
	r.mu.Unlock()
	r.logger.Info().Msg("Scheduler stopped")
}

func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) loop(stop <-chan struct{}, wake <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		due, next := r.collectDue()
		for _, j := range due {
			r.dispatch(j)
		}

		var timer <-chan time.Time
		if !next.IsZero() {
			t := time.NewTimer(time.Until(next))
			timer = t.C
			select {
			case <-stop:
				t.Stop()
				return
			case <-wake:
				t.Stop()
			case <-timer:
			}
			continue
		}

		select {
		case <-stop:
			return
		case <-wake:
		}
	}
}

// collectDue advances every due job and returns them with the earliest
// upcoming run time.
func (r *Runner) collectDue() ([]*job, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var (
		due      []*job
		earliest time.Time
	)
	for _, j := range r.jobs {
		// A zero next time means the schedule never fires again.
		if j.next.IsZero() {
			continue
		}
		if !j.next.After(now) {
			due = append(due, j)
			j.next = j.schedule.Next(now)
			if j.next.IsZero() {
				continue
			}
		}
		if earliest.IsZero() || j.next.Before(earliest) {
			earliest = j.next
		}
	}
	return due, earliest
}

func (r *Runner) dispatch(j *job) {
	if !j.busy.CompareAndSwap(false, true) {
		r.logger.Warn().Str("job", j.name).Msg("Previous run still in progress, skipping tick")
		if r.observer != nil {
			r.observer.JobSkipped(j.name)
		}
		return
	}

	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer j.busy.Store(false)
		r.execute(ctx, j)
	}()
}

// RunNow runs the named job on the calling goroutine. It shares the busy
// flag with scheduled runs.
func (r *Runner) RunNow(ctx context.Context, name string) error {
	r.mu.Lock()
	j, ok := r.jobs[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	// Stop is waiting on wg; an Add from zero must not race that Wait.
	if r.stopping {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrStopping, name)
	}
	if !j.busy.CompareAndSwap(false, true) {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobBusy, name)
	}
	r.wg.Add(1)
	r.mu.Unlock()

	defer r.wg.Done()
	defer j.busy.Store(false)
	return r.execute(ctx, j)
}

func (r *Runner) execute(ctx context.Context, j *job) (err error) {
	run := RunRecord{ID: uuid.NewString(), Job: j.name, StartedAt: time.Now().UTC()}
	logger := r.logger.With().Str("job", j.name).Str("run_id", run.ID).Logger()
	logger.Info().Msg("Job started")

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job %s panicked: %v", j.name, p)
			logger.Error().Str("stack", string(debug.Stack())).Msg("Job panicked")
		}

		run.FinishedAt = time.Now().UTC()
		run.Err = err
		duration := run.FinishedAt.Sub(run.StartedAt)

		r.mu.Lock()
		j.last = run.StartedAt
		j.lastErr = ""
		if err != nil {
			j.lastErr = err.Error()
		}
		r.mu.Unlock()

		if err != nil {
			logger.Error().Err(err).Dur("duration", duration).Msg("Job failed")
		} else {
			logger.Info().Dur("duration", duration).Msg("Job finished")
		}

		if r.observer != nil {
			r.observer.JobRun(j.name, err, duration)
		}
		if r.recorder != nil {
			if recErr := r.recorder.RecordRun(context.WithoutCancel(ctx), run); recErr != nil {
				logger.Warn().Err(recErr).Msg("Failed to record job run")
			}
		}
	}()

	return j.fn(ctx)
}

func (r *Runner) Status() []JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	statuses := make([]JobStatus, 0, len(r.jobs))
	for _, j := range r.jobs {
		s := JobStatus{
			Name:      j.name,
			Spec:      j.spec,
			Running:   j.busy.Load(),
			LastRun:   j.last,
			LastError: j.lastErr,
		}
		if r.running {
			s.NextRun = j.next
		}
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(a, b int) bool { return statuses[a].Name < statuses[b].Name })
	return statuses
}
