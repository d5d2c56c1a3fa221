// Package watch keeps consumers informed of repository mutations. Local
// working trees are observed with a debounced recursive filesystem
// watcher; remote ones with a fingerprinting status poller. Either way,
// one underlying resource per path is shared by all subscribers and
// reference-counted by subscription count.
package watch

import (
	"fmt"
	"sync"
)

// Event is a change notification for one watched path. A non-nil Err is
// a one-time watcher failure: the subscription is dead afterwards and
// the consumer should fall back to manual refresh.
type Event struct {
	Path string
	Err  error
}

// Notifier is an active underlying watcher or poller.
type Notifier interface {
	Stop()
}

// StartFunc creates the underlying resource for a path and delivers its
// coalesced notifications through notify.
type StartFunc func(path string, notify func(Event)) (Notifier, error)

type entry struct {
	res  Notifier
	subs map[string]chan Event
}

// Registry is the shared map of path to active watcher/poller. It is an
// explicit object with its own lifecycle: created at process start,
// injected where needed, drained at shutdown.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	nextID  int
	start   StartFunc
}

func NewRegistry(start StartFunc) *Registry {
	return &Registry{entries: map[string]*entry{}, start: start}
}

// Watch subscribes to changes under path. The first subscription for a
// path starts the underlying resource; later ones share it. The
// returned channel is buffered and never blocks the watcher: a consumer
// that falls behind misses intermediate events, not the latest state.
func (r *Registry) Watch(path string) (string, <-chan Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[path]
	if !ok {
		e = &entry{subs: map[string]chan Event{}}
		res, err := r.start(path, func(ev Event) { r.dispatch(path, ev) })
		if err != nil {
			return "", nil, fmt.Errorf("starting watcher for %s: %w", path, err)
		}
		e.res = res
		r.entries[path] = e
	}

	r.nextID++
	id := fmt.Sprintf("w%d", r.nextID)
	ch := make(chan Event, 8)
	e.subs[id] = ch
	return id, ch, nil
}

// Unwatch releases one subscription. The underlying resource is torn
// down only when the last subscription for the path is released.
func (r *Registry) Unwatch(path, id string) {
	r.mu.Lock()
	e, ok := r.entries[path]
	if !ok {
		r.mu.Unlock()
		return
	}
	ch, ok := e.subs[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(e.subs, id)
	close(ch)
	var res Notifier
	if len(e.subs) == 0 {
		delete(r.entries, path)
		res = e.res
	}
	r.mu.Unlock()

	if res != nil {
		res.Stop()
	}
}

// Watching reports whether a path currently has an active resource.
func (r *Registry) Watching(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[path]
	return ok
}

// dispatch broadcasts an event to every subscriber of a path. An error
// event additionally tears the entry down: all subscriptions are
// dropped after the error is delivered.
func (r *Registry) dispatch(path string, ev Event) {
	r.mu.Lock()
	e, ok := r.entries[path]
	if !ok {
		r.mu.Unlock()
		return
	}
	// Sends are non-blocking, so broadcasting under the lock is safe and
	// keeps sends ordered against Unwatch closing a channel.
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	var res Notifier
	if ev.Err != nil {
		delete(r.entries, path)
		res = e.res
		for _, ch := range e.subs {
			close(ch)
		}
	}
	r.mu.Unlock()

	if res != nil {
		res.Stop()
	}
}

// Close drains the registry, stopping every active resource.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = map[string]*entry{}
	r.mu.Unlock()

	for _, e := range entries {
		e.res.Stop()
		for _, ch := range e.subs {
			close(ch)
		}
	}
}
