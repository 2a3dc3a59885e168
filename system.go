package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/gommon/log"
)

// amixer prints the level as e.g. "Mono: Playback 43 [67%] [on]".
var amixerVolumeRe = regexp.MustCompile(`\[(\d+)%\]`)

// setMasterVolume sets the pulse master volume through amixer.
func setMasterVolume(ctx context.Context, percent int) error {
	cmd := exec.CommandContext(ctx, "amixer", "-D", "pulse", "sset", "Master", fmt.Sprintf("%d%%", percent))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("amixer sset: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// getMasterVolume reads the current pulse master volume through amixer.
func getMasterVolume(ctx context.Context) (int, error) {
	out, err := exec.CommandContext(ctx, "amixer", "-D", "pulse", "get", "Master").Output()
	if err != nil {
		return 0, fmt.Errorf("amixer get: %w", err)
	}
	vol, ok := parseAmixerVolume(string(out))
	if !ok {
		return 0, errors.New("could not parse volume from amixer output")
	}
	return vol, nil
}

func parseAmixerVolume(output string) (int, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "Mono:") && !strings.Contains(line, "Front Left:") {
			continue
		}
		if m := amixerVolumeRe.FindStringSubmatch(line); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// BluetoothSpeaker probes and connects the configured speaker through
// the management script shipped alongside the server.
type BluetoothSpeaker struct {
	scriptPath string
	mac        string
	logger     *log.Logger
}

func NewBluetoothSpeaker(scriptPath, mac string, logger *log.Logger) *BluetoothSpeaker {
	return &BluetoothSpeaker{scriptPath: scriptPath, mac: mac, logger: logger}
}

func (b *BluetoothSpeaker) MAC() string {
	return b.mac
}

// Status runs the script with --status and parses its "Connected: yes|no"
// line.
func (b *BluetoothSpeaker) Status(ctx context.Context) (bool, error) {
	out, err := exec.CommandContext(ctx, b.scriptPath, "--status", b.mac).CombinedOutput()
	text := strings.TrimSpace(string(out))
	if err != nil {
		return false, fmt.Errorf("bluetooth status script: %v: %s", err, text)
	}

	switch {
	case strings.Contains(text, "Connected: yes"):
		return true, nil
	case strings.Contains(text, "Connected: no"):
		return false, nil
	default:
		b.logger.Warnf("unrecognized bluetooth status output: %q", text)
		return false, errors.New("unrecognized status output from script")
	}
}

// Connect runs the script with --connect.
func (b *BluetoothSpeaker) Connect(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, b.scriptPath, "--connect", b.mac).CombinedOutput()
	if err != nil {
		return fmt.Errorf("bluetooth connect script: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
