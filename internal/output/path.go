package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileMode is the permission used for the written document.
const FileMode os.FileMode = 0o644

// ExecutableFunc returns the path of the running executable. os.Executable in production.
type ExecutableFunc func() (string, error)

// ResolvePath returns explicit verbatim when it is set. Otherwise fileName is
// placed in the directory holding the running executable (symlinks resolved).
// No existence check is performed.
func ResolvePath(explicit, fileName string, executable ExecutableFunc) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}
	if executable == nil {
		executable = os.Executable
	}

	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), fileName), nil
}

// WriteDocument writes content to path as UTF-8, replacing any existing file.
func WriteDocument(path, content string) error {
	if err := os.WriteFile(path, []byte(content), FileMode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
