package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode decides whether emit renders the interactive progress display.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

func parseUIMode(raw string) (uiMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	}
	return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", raw)
}

// interactive resolves auto against the terminal attached to stdout.
func (m uiMode) interactive() bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return isTerminal(os.Stdout)
}
