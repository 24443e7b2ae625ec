package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/i18n"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

// KeyReminder stores the daily reminder settings as a JSON object.
const KeyReminder = "@sasuke_app:reminder"

// Translator resolves user-facing messages.
type Translator interface {
	T(lang, key string, args ...any) string
}

// ReminderService manages the single daily quote reminder.
// Enabling always replaces whatever was scheduled before.
type ReminderService struct {
	quotes    *QuoteService
	scheduler ports.NotificationScheduler
	kv        ports.KeyValueStore
	state     *StateStore
	messages  Translator
	logger    *slog.Logger

	mu       sync.Mutex
	reminder domain.Reminder
}

// ReminderServiceConfig contains the dependencies of a ReminderService.
type ReminderServiceConfig struct {
	Quotes    *QuoteService
	Scheduler ports.NotificationScheduler
	Store     ports.KeyValueStore
	State     *StateStore
	Messages  Translator
	Logger    *slog.Logger
}

// NewReminderService creates a reminder service. Panics if a dependency is missing.
func NewReminderService(cfg ReminderServiceConfig) *ReminderService {
	if cfg.Quotes == nil || cfg.Scheduler == nil || cfg.Store == nil || cfg.State == nil || cfg.Messages == nil {
		panic("ReminderService: Quotes, Scheduler, Store, State and Messages are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ReminderService{
		quotes:    cfg.Quotes,
		scheduler: cfg.Scheduler,
		kv:        cfg.Store,
		state:     cfg.State,
		messages:  cfg.Messages,
		logger:    logger.With(slog.String("component", "app.ReminderService")),
		reminder:  domain.DefaultReminder(),
	}
}

// Enable schedules a daily reminder at hour:minute carrying a freshly
// fetched quote. When the quote cannot be fetched the fallback quote is
// used. Any previously scheduled reminder is cancelled first.
func (s *ReminderService) Enable(ctx context.Context, hour, minute int) (domain.Reminder, error) {
	if err := domain.ValidateTimeOfDay(hour, minute); err != nil {
		return domain.Reminder{}, err
	}

	logger := logging.FromContextOr(ctx, s.logger)

	quote, err := s.quotes.RandomQuote(ctx)
	if err != nil {
		logger.WarnContext(ctx, "scheduling reminder with fallback quote", slog.Any("error", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reminder := domain.Reminder{
		Enabled: true,
		Hour:    hour,
		Minute:  minute,
		Title:   s.messages.T(string(s.state.Language()), i18n.KeyReminderTitle),
		Body:    quote.Quote,
	}

	if cancelled, err := s.schedule(ctx, reminder, quote.ID); err != nil {
		if cancelled && s.reminder.Enabled {
			// The old reminder is gone; stop reporting and restoring it.
			s.reminder.Enabled = false
			s.persist(ctx)
			logger.WarnContext(ctx, "previous daily reminder cancelled by failed reschedule",
				slog.Any("error", err))
		}

		return domain.Reminder{}, err
	}

	s.reminder = reminder
	s.persist(ctx)

	logger.InfoContext(ctx, "daily reminder enabled",
		slog.String("time", reminder.TimeOfDay()),
		slog.Int("quote_id", quote.ID))

	return reminder, nil
}

// Disable cancels the reminder and remembers it as disabled.
func (s *ReminderService) Disable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.scheduler.CancelAll(ctx); err != nil {
		return fmt.Errorf("cancelling reminders: %w", err)
	}

	s.reminder.Enabled = false
	s.persist(ctx)

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "daily reminder disabled")

	return nil
}

// Restore reads the persisted reminder and schedules it again when it was
// enabled. A missing or unreadable record leaves the reminder disabled.
func (s *ReminderService) Restore(ctx context.Context) (domain.Reminder, error) {
	logger := logging.FromContextOr(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, KeyReminder)
	if err != nil {
		logger.WarnContext(ctx, "failed to read persisted reminder", slog.Any("error", err))
		return s.reminder, nil
	}

	if !ok {
		return s.reminder, nil
	}

	var stored domain.Reminder
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.WarnContext(ctx, "ignoring persisted reminder", slog.Any("error", err))
		return s.reminder, nil
	}

	if err := domain.ValidateTimeOfDay(stored.Hour, stored.Minute); err != nil {
		logger.WarnContext(ctx, "ignoring persisted reminder", slog.Any("error", err))
		return s.reminder, nil
	}

	if !stored.Enabled {
		s.reminder = stored
		return stored, nil
	}

	if _, err := s.schedule(ctx, stored, domain.FallbackQuoteID); err != nil {
		return s.reminder, fmt.Errorf("restoring reminder: %w", err)
	}

	s.reminder = stored
	logger.InfoContext(ctx, "daily reminder restored", slog.String("time", stored.TimeOfDay()))

	return stored, nil
}

// Status returns the current reminder settings.
func (s *ReminderService) Status() domain.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reminder
}

// schedule replaces every scheduled notification with r. cancelled reports
// whether the previous notifications were removed, which is also true when
// scheduling r itself then fails.
func (s *ReminderService) schedule(ctx context.Context, r domain.Reminder, quoteID int) (cancelled bool, err error) {
	if err := s.scheduler.CancelAll(ctx); err != nil {
		return false, fmt.Errorf("cancelling reminders: %w", err)
	}

	n := ports.Notification{Title: r.Title, Body: r.Body}
	if quoteID != domain.FallbackQuoteID {
		n.Data = map[string]string{"quoteId": strconv.Itoa(quoteID)}
	}

	if _, err := s.scheduler.Schedule(ctx, n, ports.DailyTrigger{Hour: r.Hour, Minute: r.Minute}); err != nil {
		return true, fmt.Errorf("scheduling reminder: %w", err)
	}

	return true, nil
}

func (s *ReminderService) persist(ctx context.Context) {
	data, err := json.Marshal(s.reminder)
	if err == nil {
		err = s.kv.Set(ctx, KeyReminder, string(data))
	}

	if err != nil {
		persistFailures.WithLabelValues(KeyReminder).Inc()
		logging.FromContextOr(ctx, s.logger).ErrorContext(ctx, "failed to persist reminder, keeping it in memory",
			slog.Any("error", err))
	}
}
