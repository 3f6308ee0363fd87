package gallery

import (
	"sync"
	"time"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"github.com/samvad-hq/samvad-media-wall/internal/logger"
)

const readyMessage = "Ready"

// StatusBoard is the shared status indicator. Safe for concurrent use.
type StatusBoard struct {
	mu     sync.RWMutex
	status domain.Status
	now    func() time.Time
	log    logger.Logger
}

// NewStatusBoard starts in the "Ready" state.
func NewStatusBoard(log logger.Logger) *StatusBoard {
	b := &StatusBoard{now: time.Now, log: logger.Ensure(log)}
	b.status = domain.Status{Message: readyMessage, UpdatedAt: b.now()}
	return b
}

// Report replaces the current status and mirrors it to the log.
func (b *StatusBoard) Report(message string, isError bool) {
	b.mu.Lock()
	b.status = domain.Status{Message: message, IsError: isError, UpdatedAt: b.now()}
	b.mu.Unlock()

	if isError {
		b.log.WarnObj("status", "status", map[string]any{"message": message, "error": true})
		return
	}
	b.log.DebugObj("status", "status", map[string]any{"message": message})
}

// Current returns the latest status.
func (b *StatusBoard) Current() domain.Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

// scopedReporter drops reports from refreshes that have been superseded.
type scopedReporter struct {
	svc *Service
	gen uint64
}

func (r scopedReporter) Report(message string, isError bool) {
	if !r.svc.isCurrent(r.gen) {
		return
	}
	r.svc.status.Report(message, isError)
}
