package watch

import (
	"log/slog"
	"strings"
	"time"

	"github.com/mikanfactory/hibiki/internal/model"
)

// StatusFunc fetches the current change entries for a path. The remote
// backend's Status is plugged in here.
type StatusFunc func() ([]model.ChangeEntry, error)

// poller periodically fetches status over the network and notifies only
// when a cheap fingerprint of the result changes, so consumers are not
// flooded with no-op notifications.
type poller struct {
	done chan struct{}
}

// StartPoller begins polling path at the given interval. A failed poll
// (connection drop) skips that cycle without touching the stored
// fingerprint, so reconnecting does not fabricate a change event.
func StartPoller(path string, interval time.Duration, status StatusFunc, notify func(Event)) Notifier {
	p := &poller{done: make(chan struct{})}
	go p.loop(path, interval, status, notify)
	return p
}

func (p *poller) loop(path string, interval time.Duration, status StatusFunc, notify func(Event)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last string
	primed := false
	if entries, err := status(); err == nil {
		last = Fingerprint(entries)
		primed = true
	}

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			entries, err := status()
			if err != nil {
				slog.Debug("status poll failed, skipping cycle",
					slog.String("path", path), slog.Any("error", err))
				continue
			}
			fp := Fingerprint(entries)
			if !primed {
				last = fp
				primed = true
				continue
			}
			if fp != last {
				last = fp
				notify(Event{Path: path})
			}
		}
	}
}

func (p *poller) Stop() {
	close(p.done)
}

// Fingerprint reduces a status snapshot to a comparable string: the
// ordered join of each entry's path, status and staged flag.
func Fingerprint(entries []model.ChangeEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		staged := "0"
		if e.IsStaged {
			staged = "1"
		}
		parts = append(parts, e.Path+"|"+string(e.Status)+"|"+staged)
	}
	return strings.Join(parts, "\n")
}
