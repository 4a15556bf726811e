package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
)

// ScanRemindersConfig tunes the scanner's windows.
type ScanRemindersConfig struct {
	// Kinds is the ordered reminder kind set to evaluate.
	Kinds []domain.ReminderKind

	// Tolerance widens each kind's window on both sides. It must exceed
	// the scan interval or reminders can be silently missed.
	Tolerance time.Duration

	// LookaheadHorizon is the forward window of sessions to inspect.
	LookaheadHorizon time.Duration
}

// DefaultScanRemindersConfig returns the standard scanner settings.
func DefaultScanRemindersConfig() ScanRemindersConfig {
	return ScanRemindersConfig{
		Kinds:            domain.AllReminderKinds(),
		Tolerance:        5 * time.Minute,
		LookaheadHorizon: 25 * time.Hour,
	}
}

// ScanRemindersResult summarizes one scanner run.
type ScanRemindersResult struct {
	SessionsScanned int
	RemindersDue    int
	RemindersSent   int
	AlreadySent     int
	SendFailures    int
}

// ScanRemindersHandler walks upcoming sessions and fires each due reminder
// kind exactly once per recipient. The reminder record is the idempotency
// ledger: it is written only after a successful send, so a failed send is
// naturally retried on a later scan inside the tolerance window.
type ScanRemindersHandler struct {
	sessionRepo  domain.SessionRepository
	reminderRepo domain.ReminderRepository
	grants       domain.GrantReader
	sender       domain.NotificationSender
	cfg          ScanRemindersConfig
	logger       *slog.Logger
	now          func() time.Time
}

// NewScanRemindersHandler creates a new handler.
func NewScanRemindersHandler(
	sessionRepo domain.SessionRepository,
	reminderRepo domain.ReminderRepository,
	grants domain.GrantReader,
	sender domain.NotificationSender,
	cfg ScanRemindersConfig,
	logger *slog.Logger,
) *ScanRemindersHandler {
	if len(cfg.Kinds) == 0 {
		cfg.Kinds = domain.AllReminderKinds()
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 5 * time.Minute
	}
	if cfg.LookaheadHorizon <= 0 {
		cfg.LookaheadHorizon = 25 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanRemindersHandler{
		sessionRepo:  sessionRepo,
		reminderRepo: reminderRepo,
		grants:       grants,
		sender:       sender,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// Handle runs one reminder scan.
func (h *ScanRemindersHandler) Handle(ctx context.Context) (*ScanRemindersResult, error) {
	now := h.now()

	sessions, err := h.sessionRepo.FindScheduledInRange(ctx, now, now.Add(h.cfg.LookaheadHorizon))
	if err != nil {
		return nil, err
	}

	result := &ScanRemindersResult{SessionsScanned: len(sessions)}

	for _, session := range sessions {
		timeUntil := session.TimeUntil(now)

		for _, kind := range h.cfg.Kinds {
			if !kind.DueWithin(timeUntil, h.cfg.Tolerance) {
				continue
			}
			result.RemindersDue++
			h.remindSession(ctx, session, kind, now, result)
		}
	}

	h.logger.Info("reminder scan finished",
		"sessions_scanned", result.SessionsScanned,
		"due", result.RemindersDue,
		"sent", result.RemindersSent,
		"already_sent", result.AlreadySent,
		"failures", result.SendFailures,
	)

	return result, nil
}

// remindSession sends one due (session, kind) pair to every recipient that
// has not received it yet. One recipient's failure never blocks the rest.
func (h *ScanRemindersHandler) remindSession(
	ctx context.Context,
	session *domain.ClassSession,
	kind domain.ReminderKind,
	now time.Time,
	result *ScanRemindersResult,
) {
	recipients, err := h.resolveRecipients(ctx, session)
	if err != nil {
		h.logger.Error("failed to resolve recipients",
			"session_id", session.ID(),
			"kind", kind,
			"error", err,
		)
		result.SendFailures++
		return
	}

	sessionCtx := domain.SessionContext{
		SessionID:   session.ID(),
		LiveClassID: session.LiveClassID(),
		Slot:        session.Slot(),
		StartsAt:    session.ScheduledAt(),
		IsFree:      session.IsFree(),
	}

	for _, recipient := range recipients {
		sent, err := h.reminderRepo.Exists(ctx, session.ID(), kind, recipient)
		if err != nil {
			h.logger.Error("reminder lookup failed",
				"session_id", session.ID(),
				"kind", kind,
				"recipient", recipient,
				"error", err,
			)
			result.SendFailures++
			continue
		}
		if sent {
			result.AlreadySent++
			continue
		}

		if err := h.sender.Send(ctx, recipient, kind, sessionCtx); err != nil {
			// No record is written, so a later scan inside the
			// window retries this recipient.
			h.logger.Error("reminder send failed",
				"session_id", session.ID(),
				"kind", kind,
				"recipient", recipient,
				"error", err,
			)
			result.SendFailures++
			continue
		}

		record := domain.NewReminderRecord(session.ID(), kind, recipient, now)
		if err := h.reminderRepo.Create(ctx, record); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// A concurrent scan beat us to it.
				result.AlreadySent++
				continue
			}
			h.logger.Error("reminder record write failed",
				"session_id", session.ID(),
				"kind", kind,
				"recipient", recipient,
				"error", err,
			)
			result.SendFailures++
			continue
		}

		result.RemindersSent++
	}
}

// resolveRecipients unions per-session grants with whole-class grants,
// deduplicated by recipient identity, preserving first-seen order.
func (h *ScanRemindersHandler) resolveRecipients(ctx context.Context, session *domain.ClassSession) ([]uuid.UUID, error) {
	sessionGrants, err := h.grants.SessionRecipients(ctx, session.ID())
	if err != nil {
		return nil, err
	}

	classGrants, err := h.grants.ClassRecipients(ctx, session.LiveClassID())
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(sessionGrants)+len(classGrants))
	recipients := make([]uuid.UUID, 0, len(sessionGrants)+len(classGrants))
	for _, r := range sessionGrants {
		if !seen[r] {
			seen[r] = true
			recipients = append(recipients, r)
		}
	}
	for _, r := range classGrants {
		if !seen[r] {
			seen[r] = true
			recipients = append(recipients, r)
		}
	}

	return recipients, nil
}
