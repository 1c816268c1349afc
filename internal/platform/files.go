package platform

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0o755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// OpenFileOrFolder opens the path with the system file manager or
// default application. Fire-and-report: the spawned process is not
// tracked further.
func OpenFileOrFolder(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("path does not exist: %s", path)
	}

	switch runtime.GOOS {
	case OSWindows:
		return exec.Command(ExplorerCommand, path).Start()
	case OSDarwin:
		return exec.Command(OpenCommand, path).Start()
	case OSLinux:
		return exec.Command(XDGOpenCommand, path).Start()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
