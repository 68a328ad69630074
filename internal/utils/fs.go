package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DirCheckResult represents the result of dir checks
type DirCheckResult struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0o755)
}

// SaveTOMLFile writes data to a temp file next to filePath and renames it into place
func SaveTOMLFile(data any, filePath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".config-*.toml")
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// GetExecutableDir returns the directory of the current executable
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus creates dirPath if needed and tests that it is writable
func CheckDirStatus(dirPath string) DirCheckResult {
	result := DirCheckResult{}
	if err := EnsureDir(dirPath); err != nil {
		result.Error = err
		log.Debugf("Cannot create directory %s: %v", dirPath, err)
		return result
	}
	result.Exists = true

	probe, err := os.CreateTemp(dirPath, ".write_test-*")
	if err != nil {
		result.Error = err
		log.Debugf("Cannot write to directory %s: %v", dirPath, err)
		return result
	}
	probe.Close()
	os.Remove(probe.Name())
	result.Writable = true
	return result
}
