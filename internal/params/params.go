package params

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/inovacc/jbconsole/internal/application"
)

var (
	once    sync.Once
	dataDir string
	dataErr error
)

// AppdataDir returns the application directory, creating it on first use.
func AppdataDir() (string, error) {
	once.Do(getAppDataDir)

	return dataDir, dataErr
}

// StorePath returns the path of the local store file for the given backend.
func StorePath(backend string) (string, error) {
	dir, err := AppdataDir()
	if err != nil {
		return "", err
	}

	switch backend {
	case "sqlite":
		return filepath.Join(dir, application.AppName+".db"), nil
	default:
		return filepath.Join(dir, application.AppName+".bolt"), nil
	}
}

func getAppDataDir() {
	dir, err := application.GetApplicationDirectory()
	if err != nil {
		dataErr = err

		return
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		dataErr = fmt.Errorf("failed to create application directory: %w", err)

		return
	}

	dataDir = dir
}
