// Package scheduler implements ports.NotificationScheduler with cron jobs
// that fire once a day at a wall-clock time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/middleware"
	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

const deliveryTimeout = 30 * time.Second

var deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sasuke_reminder_deliveries_total",
	Help: "Fired reminders by delivery result.",
}, []string{"result"})

// Deliverer hands a fired notification to the user.
type Deliverer interface {
	Deliver(ctx context.Context, n ports.ScheduledNotification) error
}

// Config contains the dependencies of a CronScheduler.
type Config struct {
	// Location is the time zone of daily triggers. Defaults to time.Local.
	Location  *time.Location
	Deliverer Deliverer
	Logger    *slog.Logger

	// DenyNotifications starts the scheduler without permission to
	// schedule, as when the user has turned notifications off.
	DenyNotifications bool
}

type job struct {
	entry cron.EntryID
	n     ports.ScheduledNotification
}

// CronScheduler schedules daily notifications on a robfig/cron runner.
type CronScheduler struct {
	cron      *cron.Cron
	location  *time.Location
	deliverer Deliverer
	logger    *slog.Logger

	mu        sync.Mutex
	jobs      map[string]job
	permitted bool
}

// New creates a stopped scheduler. Call Start to begin firing.
func New(cfg Config) (*CronScheduler, error) {
	if cfg.Deliverer == nil {
		return nil, fmt.Errorf("scheduler: deliverer is required")
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CronScheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		location:  loc,
		deliverer: cfg.Deliverer,
		logger:    logger.With(slog.String("component", "scheduler.Cron")),
		jobs:      make(map[string]job),
		permitted: !cfg.DenyNotifications,
	}, nil
}

// LoadLocation resolves a configured time zone name. "Local" and "" map to
// the process time zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", name, err)
	}

	return loc, nil
}

// Start runs the cron loop in the background.
func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop stops the cron loop and waits for running deliveries or ctx.
func (s *CronScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetPermitted grants or revokes permission to schedule notifications.
// While revoked, Schedule fails with a domain.PermissionDeniedError.
func (s *CronScheduler) SetPermitted(permitted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.permitted = permitted
}

// Schedule registers n to fire every day at trigger's time.
func (s *CronScheduler) Schedule(ctx context.Context, n ports.Notification, trigger ports.DailyTrigger) (string, error) {
	if err := domain.ValidateTimeOfDay(trigger.Hour, trigger.Minute); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.permitted {
		return "", domain.NewPermissionDeniedError("notifications")
	}

	id := uuid.NewString()
	expr := fmt.Sprintf("%d %d * * *", trigger.Minute, trigger.Hour)

	entry, err := s.cron.AddFunc(expr, func() { s.fire(id) })
	if err != nil {
		return "", fmt.Errorf("adding cron entry %q: %w", expr, err)
	}

	s.jobs[id] = job{
		entry: entry,
		n: ports.ScheduledNotification{
			ID:           id,
			Notification: n,
			Trigger:      trigger,
		},
	}

	s.logger.InfoContext(ctx, "notification scheduled",
		slog.String("id", id),
		slog.String("expr", expr),
		slog.String("location", s.location.String()))

	return id, nil
}

// CancelAll removes every scheduled notification.
func (s *CronScheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, j := range s.jobs {
		s.cron.Remove(j.entry)
		delete(s.jobs, id)
	}

	s.logger.DebugContext(ctx, "all notifications cancelled")

	return nil
}

// Scheduled lists the scheduled notifications ordered by next run.
func (s *CronScheduler) Scheduled() []ports.ScheduledNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().In(s.location)
	out := make([]ports.ScheduledNotification, 0, len(s.jobs))

	for _, j := range s.jobs {
		n := j.n
		if entry := s.cron.Entry(j.entry); entry.Valid() {
			n.NextRun = entry.Schedule.Next(now)
		}

		out = append(out, n)
	}

	sort.Slice(out, func(i, k int) bool {
		return out[i].NextRun.Before(out[k].NextRun)
	})

	return out
}

// fire delivers the notification registered under id.
func (s *CronScheduler) fire(id string) {
	s.mu.Lock()
	j, ok := s.jobs[id]
	s.mu.Unlock()

	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	// The webhook sees the notification ID as the correlation ID of every fire.
	ctx = middleware.ContextWithCorrelationID(middleware.ContextWithRequestID(ctx, uuid.NewString()), id)

	if err := s.deliverer.Deliver(ctx, j.n); err != nil {
		deliveries.WithLabelValues("error").Inc()
		s.logger.ErrorContext(ctx, "reminder delivery failed", slog.String("id", id), slog.Any("error", err))

		return
	}

	deliveries.WithLabelValues("ok").Inc()
}
