package watch

import (
	"time"

	"github.com/USRSE/usrse-go/internal/result"
)

// Result captures the outcome of one watch run. Errors are stored in
// Err/ErrStage rather than returned, so the caller always has something
// to display.
type Result struct {
	Endpoint string
	Fetched  int
	New      []result.Record
	Notified []string // services notified (or would-notify)
	DryRun   bool
	Duration time.Duration
	Err      error
	ErrStage string // "fetch", "template", "notify"
}
