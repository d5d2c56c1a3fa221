package git

import (
	"fmt"
	"os"
)

// FS abstracts the few direct file operations the backend needs outside
// of git itself: reading untracked files for diff fallbacks and
// deleting untracked files on revert. The local backend uses the OS
// filesystem; the remote backend routes these through the SSH channel.
type FS interface {
	ReadFile(path string) (string, error)
	FileSize(path string) (int64, error)
	Remove(path string) error
}

// OSFS implements FS against the local filesystem.
type OSFS struct{}

func (OSFS) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (OSFS) FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (OSFS) Remove(path string) error {
	return os.Remove(path)
}

// FakeFS is a test double backed by a map of path to content.
type FakeFS struct {
	Files   map[string]string
	Removed []string
}

func (f *FakeFS) ReadFile(path string) (string, error) {
	content, ok := f.Files[path]
	if !ok {
		return "", fmt.Errorf("FakeFS: no file %q", path)
	}
	return content, nil
}

func (f *FakeFS) FileSize(path string) (int64, error) {
	content, ok := f.Files[path]
	if !ok {
		return 0, fmt.Errorf("FakeFS: no file %q", path)
	}
	return int64(len(content)), nil
}

func (f *FakeFS) Remove(path string) error {
	if _, ok := f.Files[path]; !ok {
		return fmt.Errorf("FakeFS: no file %q", path)
	}
	delete(f.Files, path)
	f.Removed = append(f.Removed, path)
	return nil
}
