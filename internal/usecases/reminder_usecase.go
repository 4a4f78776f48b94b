package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/abelzeko/brew-bot/internal/logger"
	"github.com/abelzeko/brew-bot/internal/metrics"
	"github.com/abelzeko/brew-bot/internal/repository"
)

// Notifier delivers a text message to the brewer
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// ReminderUseCase tells the brewer when a batch needs attention
type ReminderUseCase struct {
	store    repository.ProjectRepository
	notifier Notifier
	now      func() time.Time
}

// NewReminderUseCase creates a new reminder use case
func NewReminderUseCase(store repository.ProjectRepository, notifier Notifier) *ReminderUseCase {
	return &ReminderUseCase{store: store, notifier: notifier, now: time.Now}
}

// SendDueReminders notifies about every project whose next action is due and marks it
// reminded, so each scheduled action is announced once. A failed delivery leaves the
// project unmarked for the next run.
func (uc *ReminderUseCase) SendDueReminders(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)
	now := uc.now()

	due, err := uc.store.ProjectsDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to load due projects: %w", err)
	}
	log.Info("Checked for due projects", "due", len(due))

	sent := 0
	for i := range due {
		p := &due[i]
		if err := uc.notifier.Notify(ctx, FormatReminder(p, now)); err != nil {
			log.Error("Failed to send reminder", "project", p.ID, "error", err)
			continue
		}
		if err := uc.store.MarkReminded(ctx, p.ID, now); err != nil {
			return sent, fmt.Errorf("failed to mark project %d reminded: %w", p.ID, err)
		}
		metrics.RemindersSent.Inc()
		sent++
	}
	return sent, nil
}

// FormatReminder builds the reminder text for one project
func FormatReminder(p *entities.Project, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ %s (#%d): %s\n", DisplayName(p.Name), p.ID, orDefault(p.NextAction, "time to check on it"))
	fmt.Fprintf(&b, "Status: %s", p.Status)
	if p.StartedAt != nil {
		fmt.Fprintf(&b, ", day %d", int(now.Sub(*p.StartedAt).Hours()/24)+1)
	}
	if p.NextActionAt != nil && now.Sub(*p.NextActionAt) > 24*time.Hour {
		fmt.Fprintf(&b, "\nOverdue since %s", p.NextActionAt.Local().Format("2006-01-02"))
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
