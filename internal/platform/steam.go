package platform

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Steam process constants
const (
	steamProcessName = "steam.exe"
	steamRestartFlag = "--restart"
)

// Windows Steam install locations probed when relaunching
var windowsSteamPaths = []string{
	`C:\Program Files (x86)\Steam\Steam.exe`,
	`C:\Program Files\Steam\Steam.exe`,
}

// RestartSteamClient terminates and relaunches the Steam client so it
// picks up newly placed files. Reported as success/failure only; the
// engine does not supervise the client process.
func RestartSteamClient() error {
	if runtime.GOOS == OSWindows {
		return restartSteamWindows()
	}
	return restartSteamUnix()
}

func restartSteamWindows() error {
	if err := exec.Command("taskkill", "/F", "/IM", steamProcessName).Run(); err != nil {
		return fmt.Errorf("failed to terminate Steam: %w", err)
	}

	for _, path := range windowsSteamPaths {
		if _, err := os.Stat(path); err == nil {
			if err := exec.Command(path).Start(); err != nil {
				return fmt.Errorf("failed to restart Steam: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("Steam executable not found")
}

func restartSteamUnix() error {
	if err := exec.Command("steam", steamRestartFlag).Start(); err != nil {
		return fmt.Errorf("failed to restart Steam: %w", err)
	}
	return nil
}
