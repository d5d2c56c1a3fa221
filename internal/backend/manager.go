// Package backend routes repository operations to a local or remote
// implementation based on the configured remote projects. The two
// backends expose one contract (*git.Repo); only the runner and
// filesystem they are constructed with differ.
package backend

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/mikanfactory/hibiki/internal/config"
	"github.com/mikanfactory/hibiki/internal/git"
	"github.com/mikanfactory/hibiki/internal/model"
	"github.com/mikanfactory/hibiki/internal/sshexec"
	"github.com/mikanfactory/hibiki/internal/watch"
)

// DialFunc opens an SSH session for a remote project. Overridable in
// tests.
type DialFunc func(project model.RemoteProject) (sshexec.Session, error)

func defaultDial(project model.RemoteProject) (sshexec.Session, error) {
	return sshexec.NewClient(project.Host, project.Port, project.User, project.KeyPath)
}

// Manager resolves working-tree paths to backends and owns the shared
// watcher registry and the SSH connection pool. Connections are dialed
// lazily and shared per connection id.
type Manager struct {
	cfg      model.Config
	registry *watch.Registry
	dial     DialFunc

	mu       sync.Mutex
	sessions map[string]sshexec.Session
}

func NewManager(cfg model.Config) *Manager {
	m := &Manager{
		cfg:      cfg,
		dial:     defaultDial,
		sessions: map[string]sshexec.Session{},
	}
	m.registry = watch.NewRegistry(m.startNotifier)
	return m
}

// NewManagerWithDial is the test constructor.
func NewManagerWithDial(cfg model.Config, dial DialFunc) *Manager {
	m := NewManager(cfg)
	m.dial = dial
	return m
}

// Repo returns the backend for a working-tree path: remote when the
// path belongs to a configured remote project, local otherwise.
func (m *Manager) Repo(path string) (*git.Repo, error) {
	project := config.ResolveRemoteProject(m.cfg, path)
	if project == nil {
		return git.NewLocal(path), nil
	}

	sess, err := m.session(*project)
	if err != nil {
		return nil, err
	}

	root, err := remoteRoot(*project, path)
	if err != nil {
		return nil, err
	}
	return git.New(root, sshexec.NewRunner(sess), sshexec.NewFS(sess)), nil
}

// remoteRoot maps a path under the project's local mount onto the
// remote checkout.
func remoteRoot(project model.RemoteProject, path string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(project.Path), filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("mapping %s into %s: %w", path, project.RemotePath, err)
	}
	if rel == "." {
		return project.RemotePath, nil
	}
	return filepath.ToSlash(filepath.Join(project.RemotePath, rel)), nil
}

func (m *Manager) session(project model.RemoteProject) (sshexec.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[project.ConnectionID]; ok {
		return sess, nil
	}
	sess, err := m.dial(project)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", project.ConnectionID, err)
	}
	m.sessions[project.ConnectionID] = sess
	return sess, nil
}

// Watch subscribes to change notifications for a path; see
// watch.Registry for the sharing and teardown semantics.
func (m *Manager) Watch(path string) (string, <-chan watch.Event, error) {
	return m.registry.Watch(path)
}

// Unwatch releases one subscription.
func (m *Manager) Unwatch(path, id string) {
	m.registry.Unwatch(path, id)
}

// Watching reports whether a path has an active watcher or poller.
func (m *Manager) Watching(path string) bool {
	return m.registry.Watching(path)
}

func (m *Manager) startNotifier(path string, notify func(watch.Event)) (watch.Notifier, error) {
	if config.ResolveRemoteProject(m.cfg, path) != nil {
		repo, err := m.Repo(path)
		if err != nil {
			return nil, err
		}
		return watch.StartPoller(path, config.PollInterval(m.cfg), repo.Status, notify), nil
	}
	return watch.StartLocal(path, config.Debounce(m.cfg), notify)
}

// Close drains the watcher registry and closes pooled connections.
func (m *Manager) Close() {
	m.registry.Close()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if closer, ok := sess.(*sshexec.Client); ok {
			closer.Close()
		}
		delete(m.sessions, id)
	}
}
