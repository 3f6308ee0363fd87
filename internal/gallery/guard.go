package gallery

import (
	"errors"
	"fmt"
)

// Guard runs one user-triggered action. Errors and panics are logged and
// surfaced on the status board; nothing escapes to the caller. Errors already
// reported by the action keep their more specific status message.
func (s *Service) Guard(action string, fn func() error) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}()
	if err == nil {
		return
	}

	if errors.Is(err, ErrSuperseded) {
		s.log.DebugObj("action superseded", "guard", map[string]any{"action": action})
		return
	}

	s.log.ErrorObj("action failed", "guard", map[string]any{
		"action": action,
		"error":  err.Error(),
	})
	if !s.status.Current().IsError {
		s.status.Report(fmt.Sprintf("Error during %s: %v", action, err), true)
	}
}
