package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"goldenhash/internal/manifest"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 9
	checkLabelWidth  = 20
	statusIndent     = "  "
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

// renderCheckLine formats one verification result as "[status] name detail".
func renderCheckLine(check manifest.Check, colorize bool) string {
	label := fmt.Sprintf("%-*s", statusLabelWidth, "["+string(check.Status)+"]")
	if colorize {
		if color := statusColor(check.Status); color != "" {
			label = color + label + ansiReset
		}
	}
	line := label + " " + check.Name
	switch check.Status {
	case manifest.StatusDelta:
		line += fmt.Sprintf(" expected %s got %s", check.Expected, check.Got)
	case manifest.StatusNew:
		line += " " + check.Got
	case manifest.StatusMissing:
		line += " expected " + check.Expected
	}
	if check.Path != "" {
		line += " (" + check.Path + ")"
	}
	return line
}

// renderFailureLine formats a fixture that could not be fingerprinted.
func renderFailureLine(name, message string, colorize bool) string {
	label := fmt.Sprintf("%-*s", statusLabelWidth, "[error]")
	if colorize {
		label = ansiRed + label + ansiReset
	}
	return label + " " + name + ": " + message
}

// renderStatusLine formats a labelled readiness line such as
// "  Manifest:            [OK] golden.json (3 fixtures)".
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := "[" + statusKindLabel(kind) + "]"
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, checkLabelWidth, label+":", statusText)
	if colorize {
		return statusKindColor(kind) + base + ansiReset
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	default:
		return ansiRed
	}
}

func statusColor(status manifest.Status) string {
	switch status {
	case manifest.StatusOK:
		return ansiGreen
	case manifest.StatusDelta:
		return ansiRed
	case manifest.StatusNew:
		return ansiBlue
	case manifest.StatusMissing:
		return ansiYellow
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
