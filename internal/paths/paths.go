// Package paths provides path resolution utilities.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProjectDirName is the per-project htx directory.
const ProjectDirName = ".htx"

// MarkupExt is the extension of task markup files.
const MarkupExt = ".htx"

// DefaultTaskFile is looked up when a directory is given instead of a file.
const DefaultTaskFile = "task" + MarkupExt

// ErrNoMarkup is returned when a directory holds no task markup file.
var ErrNoMarkup = errors.New("no markup file found")

// UserConfigDir returns ~/.config/htx, or an empty string if the home
// directory is unavailable.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "htx")
}

// ResolveProjectDir finds the .htx directory for start by walking up the
// directory tree. It returns "" when no ancestor has one.
//
// A .htx/redirect file points to another .htx directory (relative to the
// one holding it), so several checkouts can share one config.
func ResolveProjectDir(start string) string {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	if filepath.Base(dir) == ProjectDirName {
		return followRedirect(dir)
	}
	for {
		candidate := filepath.Join(dir, ProjectDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return followRedirect(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ResolveMarkup turns user input into a markup file path.
//
//   - "/path/to/task.htx" -> "/path/to/task.htx"
//   - "/path/to/dir" -> "/path/to/dir/task.htx" if present, else the only
//     *.htx file in dir
//
// Any other file is accepted as-is so plain .xml markup still works.
func ResolveMarkup(path string) (string, error) {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("resolving markup: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	candidate := filepath.Join(path, DefaultTaskFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	matches, err := filepath.Glob(filepath.Join(path, "*"+MarkupExt))
	if err != nil {
		return "", fmt.Errorf("resolving markup: %w", err)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNoMarkup, path)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s holds %d markup files, pass one explicitly", path, len(matches))
	}
}

// TaskID derives a stable task identifier from a markup path: the file name
// without its extension.
func TaskID(markupPath string) string {
	base := filepath.Base(markupPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// followRedirect checks for a redirect file and follows it if present.
func followRedirect(projectDir string) string {
	redirectPath := filepath.Join(projectDir, "redirect")

	content, err := os.ReadFile(redirectPath) //nolint:gosec // redirect path is within .htx dir
	if err != nil {
		return projectDir
	}

	target := strings.TrimSpace(string(content))
	if target == "" {
		return projectDir
	}

	return filepath.Clean(filepath.Join(projectDir, target))
}
