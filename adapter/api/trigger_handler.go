package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/application/commands"
	"github.com/coursecast/coursecast/internal/shared/infrastructure/runlock"
)

// ExtendRunner runs one schedule extension pass.
type ExtendRunner interface {
	Handle(ctx context.Context) (*commands.ExtendSchedulesResult, error)
}

// ScanRunner runs one reminder scan.
type ScanRunner interface {
	Handle(ctx context.Context) (*commands.ScanRemindersResult, error)
}

// TriggerHandler serves the cron endpoints. Each job takes the advisory run
// lock so a slow pass and an eager cron don't run concurrently; the storage
// constraints stay authoritative either way.
type TriggerHandler struct {
	extend ExtendRunner
	scan   ScanRunner
	lock   runlock.RunLock
	logger *slog.Logger
}

// NewTriggerHandler creates a new trigger handler.
func NewTriggerHandler(extend ExtendRunner, scan ScanRunner, lock runlock.RunLock, logger *slog.Logger) *TriggerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if lock == nil {
		lock = runlock.NewNoopLock()
	}
	return &TriggerHandler{
		extend: extend,
		scan:   scan,
		lock:   lock,
		logger: logger,
	}
}

// ExtendSchedules handles POST /internal/v1/schedules/extend.
func (h *TriggerHandler) ExtendSchedules(w http.ResponseWriter, r *http.Request) {
	release, acquired, err := h.lock.Acquire(r.Context(), "schedule-extend", 10*time.Minute)
	if err != nil {
		h.logger.Error("failed to acquire run lock", "job", "schedule-extend", "error", err)
		writeError(w, http.StatusInternalServerError, "run lock unavailable")
		return
	}
	if !acquired {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "already_running"})
		return
	}
	defer release()

	result, err := h.extend.Handle(r.Context())
	if err != nil {
		h.logger.Error("schedule extension failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"classes_processed": result.ClassesProcessed,
		"classes_extended":  result.ClassesExtended,
		"classes_skipped":   result.ClassesSkipped,
		"classes_failed":    result.ClassesFailed,
		"sessions_created":  result.SessionsCreated,
	})
}

// ScanReminders handles POST /internal/v1/reminders/scan.
func (h *TriggerHandler) ScanReminders(w http.ResponseWriter, r *http.Request) {
	release, acquired, err := h.lock.Acquire(r.Context(), "reminder-scan", time.Minute)
	if err != nil {
		h.logger.Error("failed to acquire run lock", "job", "reminder-scan", "error", err)
		writeError(w, http.StatusInternalServerError, "run lock unavailable")
		return
	}
	if !acquired {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "already_running"})
		return
	}
	defer release()

	result, err := h.scan.Handle(r.Context())
	if err != nil {
		h.logger.Error("reminder scan failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessions_scanned": result.SessionsScanned,
		"reminders_due":    result.RemindersDue,
		"reminders_sent":   result.RemindersSent,
		"already_sent":     result.AlreadySent,
		"send_failures":    result.SendFailures,
	})
}
