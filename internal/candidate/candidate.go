// Package candidate describes audio files discovered in the watch directory
// and decides when they are safe to read.
package candidate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// audioExtensions is the fixed allow-list, compared lower-case.
var audioExtensions = map[string]struct{}{
	".m4a":  {},
	".ogg":  {},
	".wav":  {},
	".mp3":  {},
	".opus": {},
	".flac": {},
	".wma":  {},
}

// Candidate is an observed audio file. It is rebuilt on every attempt.
type Candidate struct {
	Path    string
	Name    string
	Ext     string
	Size    int64
	ModTime time.Time
}

// Age is how long ago the file was last modified.
func (c Candidate) Age(now time.Time) time.Duration {
	return now.Sub(c.ModTime)
}

// IsAudio reports whether path has an allow-listed extension.
func IsAudio(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Stat builds a Candidate from the file at path. Directories are rejected.
func Stat(path string) (Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Candidate{}, err
	}
	if !info.Mode().IsRegular() {
		return Candidate{}, fmt.Errorf("%s is not a regular file", path)
	}
	return Candidate{
		Path:    path,
		Name:    info.Name(),
		Ext:     strings.ToLower(filepath.Ext(path)),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Scan lists audio files directly inside dir in lexicographic order.
// Subdirectories are not descended into.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read watch dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if IsAudio(e.Name()) && IsFile(dir, e) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsFile reports whether the entry is a regular file, following symlinks.
func IsFile(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}
