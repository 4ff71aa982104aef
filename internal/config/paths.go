package config

import (
	"os"
	"path/filepath"
)

const (
	projectConfigName       = ".releasenotes.yml"
	legacyProjectConfigName = ".releasenotes.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/releasenotes/config.yml
// - macOS: ~/Library/Application Support/releasenotes/config.yml
// - Windows: %APPDATA%\releasenotes\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "releasenotes"), nil
}

// ProjectConfigPath returns the path to the project-level config file
// inside the repository directory. An empty repoPath means the current directory.
func ProjectConfigPath(repoPath string) string {
	return filepath.Join(repoPath, projectConfigName)
}

// LegacyProjectConfigPath returns the path to the legacy project-level JSON config file.
func LegacyProjectConfigPath(repoPath string) string {
	return filepath.Join(repoPath, legacyProjectConfigName)
}

// PathInfo describes a config file location and whether it exists.
type PathInfo struct {
	Source ConfigSource
	Path   string
	Exists bool
}

// Paths lists every config file location consulted for repoPath, lowest priority first.
func Paths(repoPath, explicit string) []PathInfo {
	var paths []PathInfo
	if user, err := UserConfigPath(); err == nil {
		paths = append(paths, PathInfo{Source: SourceUser, Path: user, Exists: fileExists(user)})
	}
	project := ProjectConfigPath(repoPath)
	legacy := LegacyProjectConfigPath(repoPath)
	paths = append(paths,
		PathInfo{Source: SourceProject, Path: project, Exists: fileExists(project)},
		PathInfo{Source: SourceProject, Path: legacy, Exists: fileExists(legacy)},
	)
	if explicit != "" {
		paths = append(paths, PathInfo{Source: SourceExplicit, Path: explicit, Exists: fileExists(explicit)})
	}
	return paths
}
