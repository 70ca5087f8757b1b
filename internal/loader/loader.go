// Package loader reads hand-history session files from disk.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Extension is the file extension of session files.
const Extension = ".txt"

// trailingArtifact is the number of characters the poker client leaves
// after the last hand of every session file.
const trailingArtifact = 2

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Session is the text of one session file.
type Session struct {
	Path string
	Text string
}

// DirectoryNotFoundError is returned when a configured directory is missing
// or is not a directory.
type DirectoryNotFoundError struct {
	Dir string
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("hand history directory not found: %s", e.Dir)
}

// ReadError records a session file that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

// Result is the outcome of a load: the sessions read plus the files skipped.
type Result struct {
	Sessions []Session
	Skipped  []*ReadError
}

// LoadSessions reads every session file in dirs.
// A missing directory aborts the whole load; unreadable files are logged
// and skipped.
func LoadSessions(dirs []string) ([]Session, error) {
	res, err := LoadSessionsContext(context.Background(), dirs)
	if err != nil {
		return nil, err
	}
	return res.Sessions, nil
}

// LoadSessionsContext is LoadSessions with cancellation checked between
// files. It also reports the skipped files.
func LoadSessionsContext(ctx context.Context, dirs []string) (Result, error) {
	var res Result
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return Result{}, &DirectoryNotFoundError{Dir: dir}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return Result{}, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			text, err := readSession(path)
			if err != nil {
				slog.Warn("skip unreadable session file", "path", path, "error", err)
				res.Skipped = append(res.Skipped, &ReadError{Path: path, Err: err})
				continue
			}
			res.Sessions = append(res.Sessions, Session{Path: path, Text: text})
		}
		slog.Debug("loaded hand history directory", "dir", dir, "sessions", len(res.Sessions))
	}
	return res, nil
}

func readSession(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	return trimTrailing(string(data), trailingArtifact), nil
}

// trimTrailing drops the last n characters of s.
func trimTrailing(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return ""
	}
	return string(r[:len(r)-n])
}
