// Package cliview renders signal status and graphs for a terminal,
// colorizing output with termenv and rendering markdown with glamour, the
// same pairing the teacher's tui package uses.
package cliview

import (
	"fmt"

	"github.com/muesli/termenv"
)

// Status renders a single signal's value, blocked, and glitch-avoidance
// state as a colorized one-liner.
func Status(id string, value int64, blocked, glitchAvoidance bool) string {
	profile := termenv.ColorProfile()
	label := termenv.String(id).Foreground(profile.Color("#00e0ff")).Bold()
	valueStr := termenv.String(fmt.Sprintf("%d", value)).Foreground(profile.Color("#8aff80"))

	flags := ""
	if blocked {
		flags += " " + termenv.String("blocked").Foreground(profile.Color("#ff5f5f")).String()
	}
	if glitchAvoidance {
		flags += " " + termenv.String("glitch-avoidance").Foreground(profile.Color("#ffd866")).String()
	}

	return fmt.Sprintf("%s = %s%s", label, valueStr, flags)
}

// MarkdownTable renders the ids/values of signals as a two-column Markdown
// table, one row per map entry in map iteration order.
func MarkdownTable(values map[string]int64) string {
	md := "| signal | value |\n| --- | --- |\n"
	for id, v := range values {
		md += fmt.Sprintf("| %s | %d |\n", id, v)
	}
	return md
}

// GraphMarkdown wraps a Mermaid flowchart in a fenced code block so a
// glamour renderer displays it as a diagram source listing.
func GraphMarkdown(title string, mermaid string) string {
	return fmt.Sprintf("## %s\n\n```mermaid\n%s```\n", title, mermaid)
}
