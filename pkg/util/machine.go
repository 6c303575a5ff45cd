package util

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
)

var (
	machineID      string
	machineIDMutex sync.Mutex
)

// GetMachineID returns a stable identifier for the current machine.
// It prefers the machineid library and falls back to the motherboard
// serial number; the result is cached after the first call.
// GetMachineID 获取当前机器的唯一标识符，获取失败时返回空字符串
func GetMachineID() string {
	machineIDMutex.Lock()
	defer machineIDMutex.Unlock()

	if machineID != "" {
		return machineID
	}

	id, err := machineid.ID()
	if err == nil && id != "" {
		machineID = id
		return machineID
	}

	id, err = getMotherboardID()
	if err == nil && id != "" {
		machineID = id
		return machineID
	}

	return ""
}

func getMotherboardID() (string, error) {
	switch runtime.GOOS {
	case "linux":
		content, err := os.ReadFile("/sys/class/dmi/id/board_serial")
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(content)), nil
	case "windows":
		out, err := exec.Command("wmic", "baseboard", "get", "serialnumber").Output()
		if err != nil {
			return "", err
		}
		return parseSerialNumber(string(out)), nil
	default:
		return "", errors.New("unsupported os")
	}
}

func parseSerialNumber(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "SerialNumber") {
			continue
		}
		return line
	}
	return ""
}
