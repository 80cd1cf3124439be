package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ExplicitConfigFile returns the file named by GITSCOPE_CONFIG, if any.
func ExplicitConfigFile() string {
	return os.Getenv(EnvPrefix + "_CONFIG")
}

// GetConfigPaths returns the directories searched for a user config file.
// Earlier paths have higher precedence.
func GetConfigPaths() []string {
	var paths []string

	if envPath := ExplicitConfigFile(); envPath != "" {
		paths = append(paths, filepath.Dir(envPath))
	}

	if userConfigDir := getUserConfigDir(); userConfigDir != "" {
		paths = append(paths, userConfigDir)
	}

	if homeDir := getHomeDir(); homeDir != "" {
		paths = append(paths, filepath.Join(homeDir, ".gitscope"))
	}

	return paths
}

func getUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return getWindowsConfigDir()
	case "darwin":
		return getMacOSConfigDir()
	default:
		return getLinuxConfigDir()
	}
}

func getWindowsConfigDir() string {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "gitscope")
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return filepath.Join(userProfile, "AppData", "Roaming", "gitscope")
	}
	return ""
}

func getMacOSConfigDir() string {
	if homeDir := getHomeDir(); homeDir != "" {
		return filepath.Join(homeDir, "Library", "Application Support", "gitscope")
	}
	return ""
}

// getLinuxConfigDir follows the XDG base directory layout.
func getLinuxConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "gitscope")
	}
	if homeDir := getHomeDir(); homeDir != "" {
		return filepath.Join(homeDir, ".config", "gitscope")
	}
	return ""
}

func getHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return userProfile
	}
	return ""
}

// ConfigPathInfo describes one entry of the search path.
type ConfigPathInfo struct {
	Path     string `json:"path" yaml:"path"`
	Priority int    `json:"priority" yaml:"priority"`
	Exists   bool   `json:"exists" yaml:"exists"`
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ListConfigPaths reports every search path and whether it holds a config
// file.
func ListConfigPaths() []ConfigPathInfo {
	paths := GetConfigPaths()
	result := make([]ConfigPathInfo, len(paths))

	for i, path := range paths {
		file := filepath.Join(path, "config.toml")
		_, err := os.Stat(file)
		result[i] = ConfigPathInfo{
			Path:     path,
			Priority: i + 1,
			Exists:   err == nil,
		}
		if err == nil {
			result[i].File = file
		}
	}

	return result
}
