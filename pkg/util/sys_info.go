package util

import (
	"bufio"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// GetOSPrettyName gets a readable OS name and version for status reporting
// GetOSPrettyName 获取可读的操作系统名称及版本
func GetOSPrettyName() string {
	switch runtime.GOOS {
	case "linux":
		return getLinuxPrettyName()
	case "darwin":
		return getMacOSVersion()
	case "windows":
		return getWindowsVersion()
	default:
		return runtime.GOOS
	}
}

func getLinuxPrettyName() string {
	file, err := os.Open("/etc/os-release")
	if err != nil {
		return "Linux"
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "PRETTY_NAME=") {
			return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
		}
	}
	return "Linux"
}

func getMacOSVersion() string {
	out, err := exec.Command("sw_vers", "-productVersion").Output()
	if err != nil {
		return "macOS"
	}
	return "macOS " + strings.TrimSpace(string(out))
}

func getWindowsVersion() string {
	out, err := exec.Command("cmd", "/c", "ver").Output()
	if err != nil {
		return "Windows"
	}
	return strings.TrimSpace(string(out))
}
