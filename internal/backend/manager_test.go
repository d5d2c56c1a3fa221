package backend

import (
	"errors"
	"testing"

	"github.com/mikanfactory/hibiki/internal/model"
	"github.com/mikanfactory/hibiki/internal/sshexec"
)

type stubSession struct {
	results map[string]sshexec.Result
}

func (s *stubSession) Run(cmd string) (sshexec.Result, error) {
	if res, ok := s.results[cmd]; ok {
		return res, nil
	}
	return sshexec.Result{}, nil
}

func remoteConfig() model.Config {
	return model.Config{
		PollIntervalMs: 3000,
		DebounceMs:     350,
		RemoteProjects: []model.RemoteProject{{
			Path:         "/home/me/api",
			ConnectionID: "build-box",
			Host:         "build.example.com",
			User:         "me",
			KeyPath:      "/keys/id",
			RemotePath:   "/srv/api",
		}},
	}
}

func TestRepo_LocalPathUsesLocalBackend(t *testing.T) {
	m := NewManager(remoteConfig())
	defer m.Close()

	repo, err := m.Repo("/home/me/scratch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Root() != "/home/me/scratch" {
		t.Errorf("got root %q", repo.Root())
	}
}

func TestRepo_RemotePathDialsAndMapsRoot(t *testing.T) {
	dials := 0
	sess := &stubSession{results: map[string]sshexec.Result{
		"cd /srv/api && git status --porcelain": {Stdout: " M main.go\n"},
		"cd /srv/api && git diff --numstat":     {Stdout: "1\t0\tmain.go\n"},
		"cd /srv/api && git diff --cached --numstat": {},
	}}
	m := NewManagerWithDial(remoteConfig(), func(p model.RemoteProject) (sshexec.Session, error) {
		dials++
		return sess, nil
	})
	defer m.Close()

	repo, err := m.Repo("/home/me/api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Root() != "/srv/api" {
		t.Errorf("got root %q, want /srv/api", repo.Root())
	}

	entries, err := repo.Status()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "main.go" {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if dials != 1 {
		t.Errorf("expected 1 dial, got %d", dials)
	}
}

func TestRepo_ConnectionIsPooled(t *testing.T) {
	dials := 0
	m := NewManagerWithDial(remoteConfig(), func(p model.RemoteProject) (sshexec.Session, error) {
		dials++
		return &stubSession{}, nil
	})
	defer m.Close()

	if _, err := m.Repo("/home/me/api"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Repo("/home/me/api/internal"); err != nil {
		t.Fatal(err)
	}
	if dials != 1 {
		t.Errorf("expected 1 dial, got %d", dials)
	}
}

func TestRepo_NestedRemotePathMapsUnderRemoteRoot(t *testing.T) {
	m := NewManagerWithDial(remoteConfig(), func(p model.RemoteProject) (sshexec.Session, error) {
		return &stubSession{}, nil
	})
	defer m.Close()

	repo, err := m.Repo("/home/me/api/services/auth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Root() != "/srv/api/services/auth" {
		t.Errorf("got root %q", repo.Root())
	}
}

func TestRepo_DialFailurePropagates(t *testing.T) {
	dialErr := errors.New("no route to host")
	m := NewManagerWithDial(remoteConfig(), func(p model.RemoteProject) (sshexec.Session, error) {
		return nil, dialErr
	})
	defer m.Close()

	if _, err := m.Repo("/home/me/api"); !errors.Is(err, dialErr) {
		t.Fatalf("expected dial error, got %v", err)
	}
}

func TestWatch_RemotePathGetsPoller(t *testing.T) {
	m := NewManagerWithDial(remoteConfig(), func(p model.RemoteProject) (sshexec.Session, error) {
		return &stubSession{}, nil
	})
	defer m.Close()

	id, _, err := m.Watch("/home/me/api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Watching("/home/me/api") {
		t.Error("expected active poller")
	}
	m.Unwatch("/home/me/api", id)
	if m.Watching("/home/me/api") {
		t.Error("expected poller torn down")
	}
}

func TestWatch_LocalPathGetsWatcher(t *testing.T) {
	m := NewManager(model.Config{DebounceMs: 10, PollIntervalMs: 1000})
	defer m.Close()

	dir := t.TempDir()
	id1, _, err := m.Watch(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id2, _, err := m.Watch(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.Unwatch(dir, id1)
	if !m.Watching(dir) {
		t.Error("one subscription must keep the watcher alive")
	}
	m.Unwatch(dir, id2)
	if m.Watching(dir) {
		t.Error("last unwatch must tear the watcher down")
	}
}
