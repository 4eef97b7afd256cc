// Package scheduler runs periodic maintenance tasks on cron schedules.
package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/metrics"
)

// Task represents a scheduled task
type Task struct {
	Name     string
	Schedule string // Cron expression: "0 2 * * *", "@hourly", "@every 5m"
	Fn       func() error
	entryID  cron.EntryID
	enabled  bool
	lastRun  *time.Time
	mu       sync.Mutex
}

// Scheduler manages scheduled tasks using robfig/cron
type Scheduler struct {
	cron  *cron.Cron
	tasks map[string]*Task
	log   *zap.Logger
	mu    sync.RWMutex
}

// NewScheduler creates a scheduler supporting standard cron expressions
// plus descriptors ("@hourly", "@every 5m").
func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))

	return &Scheduler{
		cron:  c,
		tasks: make(map[string]*Task),
		log:   log,
	}
}

// AddTask registers a task under the given cron schedule.
func (s *Scheduler) AddTask(name, schedule string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &Task{
		Name:     name,
		Schedule: schedule,
		Fn:       fn,
		enabled:  true,
	}

	entryID, err := s.cron.AddFunc(schedule, func() { s.runTask(task) })
	if err != nil {
		return err
	}
	task.entryID = entryID
	s.tasks[name] = task

	s.log.Info("task scheduled", zap.String("task", name), zap.String("schedule", schedule))
	return nil
}

func (s *Scheduler) runTask(task *Task) {
	task.mu.Lock()
	if !task.enabled {
		task.mu.Unlock()
		return
	}
	task.mu.Unlock()

	start := time.Now()
	err := task.Fn()
	duration := time.Since(start)

	task.mu.Lock()
	now := time.Now()
	task.lastRun = &now
	task.mu.Unlock()

	if err != nil {
		metrics.RecordSchedulerTask(task.Name, "error", duration)
		s.log.Error("task failed", zap.String("task", task.Name), zap.Duration("duration", duration), zap.Error(err))
		return
	}
	metrics.RecordSchedulerTask(task.Name, "ok", duration)
	s.log.Debug("task completed", zap.String("task", task.Name), zap.Duration("duration", duration))
}

// RunNow executes a task immediately, outside its schedule.
func (s *Scheduler) RunNow(name string) bool {
	s.mu.RLock()
	task, ok := s.tasks[name]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	s.runTask(task)
	return true
}

// SetEnabled toggles a task without removing it from the schedule.
func (s *Scheduler) SetEnabled(name string, enabled bool) bool {
	s.mu.RLock()
	task, ok := s.tasks[name]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	task.mu.Lock()
	task.enabled = enabled
	task.mu.Unlock()
	return true
}

// LastRun returns when the task last executed, if ever.
func (s *Scheduler) LastRun(name string) (time.Time, bool) {
	s.mu.RLock()
	task, ok := s.tasks[name]
	s.mu.RUnlock()
	if !ok {
		return time.Time{}, false
	}
	task.mu.Lock()
	defer task.mu.Unlock()
	if task.lastRun == nil {
		return time.Time{}, false
	}
	return *task.lastRun, true
}

// TaskNames lists registered tasks.
func (s *Scheduler) TaskNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	return names
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running tasks to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
