package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadSessionsReadsTextFiles(t *testing.T) {
	t.Parallel()

	dirA, dirB := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(dirA, "a.txt"), "hand one\n\n")
	writeFile(t, filepath.Join(dirA, "notes.md"), "ignored\n\n")
	writeFile(t, filepath.Join(dirB, "b.txt"), "\xEF\xBB\xBFhand two\r\n")
	if err := os.Mkdir(filepath.Join(dirB, "nested.txt"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	sessions, err := LoadSessions([]string{dirA, dirB})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	got := map[string]string{}
	for _, s := range sessions {
		got[filepath.Base(s.Path)] = s.Text
	}
	if got["a.txt"] != "hand one" {
		t.Errorf("a.txt = %q, want %q", got["a.txt"], "hand one")
	}
	if got["b.txt"] != "hand two" {
		t.Errorf("b.txt = %q, want BOM and trailer stripped", got["b.txt"])
	}
}

func TestLoadSessionsMissingDirectoryAborts(t *testing.T) {
	t.Parallel()

	ok := t.TempDir()
	writeFile(t, filepath.Join(ok, "a.txt"), "hand\n\n")
	missing := filepath.Join(t.TempDir(), "gone")

	_, err := LoadSessions([]string{ok, missing})
	var dnf *DirectoryNotFoundError
	if !errors.As(err, &dnf) {
		t.Fatalf("err = %v, want *DirectoryNotFoundError", err)
	}
	if dnf.Dir != missing {
		t.Fatalf("dir = %q, want %q", dnf.Dir, missing)
	}
}

func TestLoadSessionsFileAsDirectory(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, file, "hand\n\n")

	_, err := LoadSessions([]string{file})
	var dnf *DirectoryNotFoundError
	if !errors.As(err, &dnf) {
		t.Fatalf("err = %v, want *DirectoryNotFoundError", err)
	}
}

func TestLoadSessionsSkipsUnreadableFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.txt"), "hand\n\n")
	if err := os.Symlink(filepath.Join(dir, "does-not-exist"), filepath.Join(dir, "broken.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	res, err := LoadSessionsContext(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Sessions) != 1 || filepath.Base(res.Sessions[0].Path) != "good.txt" {
		t.Fatalf("sessions = %+v, want only good.txt", res.Sessions)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(res.Skipped))
	}
	if !errors.Is(res.Skipped[0], os.ErrNotExist) {
		t.Fatalf("skipped err = %v, want os.ErrNotExist", res.Skipped[0])
	}
}

func TestLoadSessionsContextCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hand\n\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadSessionsContext(ctx, []string{dir}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestTrimTrailing(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":        "",
		"a":       "",
		"ab":      "",
		"abc":     "a",
		"hand♠\n": "hand",
	}
	for in, want := range tests {
		if got := trimTrailing(in, 2); got != want {
			t.Errorf("trimTrailing(%q) = %q, want %q", in, got, want)
		}
	}
}
