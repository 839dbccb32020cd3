package rxgo

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// CronScheduler schedules recurring work against a cron expression instead
// of a fixed time.Duration interval: the expression is parsed once and the
// scheduler reschedules itself after every firing via schedule.Next.
type CronScheduler struct {
	inner    Scheduler
	mu       sync.Mutex
	schedule cron.Schedule
}

// NewCronScheduler parses expr with the standard five/six-field cron parser
// (seconds optional) and returns a scheduler whose Schedule/ScheduleAfter
// ignore their caller-supplied timing and instead fire on the cron
// expression's own cadence; base is the scheduler actions ultimately run
// on.
func NewCronScheduler(expr string, base Scheduler) (*CronScheduler, error) {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &CronScheduler{inner: base, schedule: schedule}, nil
}

// Schedule runs action at every cron firing from now on, recurring until
// the returned Disposable is disposed.
func (s *CronScheduler) Schedule(action func()) Disposable {
	var cancelled cancelFlag
	var loop func()
	loop = func() {
		if cancelled.isSet() {
			return
		}
		now := s.inner.Now()
		next := s.schedule.Next(now)
		s.inner.ScheduleAfter(next.Sub(now), func() {
			if cancelled.isSet() {
				return
			}
			action()
			loop()
		})
	}
	loop()
	return NewDisposable(func() { cancelled.set() })
}

// ScheduleAfter ignores delay and behaves like Schedule: cron cadence is
// the only timing this scheduler understands.
func (s *CronScheduler) ScheduleAfter(_ time.Duration, action func()) Disposable {
	return s.Schedule(action)
}

func (s *CronScheduler) Now() time.Time { return s.inner.Now() }

// Cron emits the firing time on every match of expr, analogous to Interval
// but calendar-driven rather than fixed-period.
func Cron(expr string, opts ...Option) (Observable, error) {
	cfg := applyOptions(opts...)
	base := cfg.Scheduler
	if base == nil {
		base = NewGoroutine
	}
	scheduler, err := NewCronScheduler(expr, base)
	if err != nil {
		return nil, err
	}
	return Create(func(observer Observer) Disposable {
		return scheduler.Schedule(func() {
			observer.OnNext(scheduler.Now())
		})
	}), nil
}

type cancelFlag struct {
	mu  sync.Mutex
	set_ bool
}

func (f *cancelFlag) isSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set_
}

func (f *cancelFlag) set() {
	f.mu.Lock()
	f.set_ = true
	f.mu.Unlock()
}
