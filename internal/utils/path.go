package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver finds dictionary files relative to the working directory,
// the executable and the user config dir.
type PathResolver struct {
	executableDir string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		configDir:     platformConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// platformConfigDir returns the appropriate config directory for the platform
func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "prefixserve")
		}
		return filepath.Join(homeDir, ".config", "prefixserve")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "prefixserve")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "prefixserve")
	default:
		return filepath.Join(homeDir, ".config", "prefixserve")
	}
}

// GetDictPath resolves a dictionary file. It tries, in order:
// 1. the path itself (absolute or relative to the working directory)
// 2. relative to the executable directory
// 3. relative to the config directory
func (pr *PathResolver) GetDictPath(userSpecifiedPath string) (string, error) {
	candidates := []string{userSpecifiedPath}
	if !filepath.IsAbs(userSpecifiedPath) {
		candidates = append(candidates,
			filepath.Join(pr.executableDir, userSpecifiedPath),
			filepath.Join(pr.configDir, userSpecifiedPath),
		)
	}

	for _, path := range candidates {
		if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
			log.Debugf("Found dictionary: %s", path)
			return path, nil
		}
		log.Debugf("Dictionary candidate not found: %s", path)
	}
	return "", fmt.Errorf("dictionary %s not found in %v: %w", userSpecifiedPath, candidates, os.ErrNotExist)
}
