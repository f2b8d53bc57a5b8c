package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "jbconsole"

	// AppExeName is the executable name (without extension)
	AppExeName = "jbconsole"

	// EnvPrefix prefixes every environment variable read by the console
	EnvPrefix = "JB_"

	// ConfigFileName is the optional TOML file inside the application directory
	ConfigFileName = "config.toml"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the jbconsole configuration directory path.
// Linux: ~/.config/jbconsole (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\jbconsole (via os.UserCacheDir)
//
// JB_HOME overrides both.
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, nil
}

// ConfigFilePath returns the path of the optional config.toml.
func ConfigFilePath() (string, error) {
	dir, err := GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, ConfigFileName), nil
}

func lazyLoad() {
	if home := os.Getenv(EnvPrefix + "HOME"); home != "" {
		appDir = home

		return
	}

	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		baseDir, err = os.UserCacheDir()
	default:
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get config directory: %w", err)

		return
	}

	appDir = filepath.Join(baseDir, AppName)
}
