package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// wrapText breaks overlong lines at single spaces, measured in terminal
// cells. Lines that fit are returned untouched, whitespace included. Words
// longer than width stay whole.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	wrapped := make([]string, 0, len(lines))
	for _, line := range lines {
		if lipgloss.Width(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}
		parts := strings.Split(line, " ")
		current := parts[0]
		for _, part := range parts[1:] {
			if strings.TrimSpace(current) == "" || lipgloss.Width(current)+1+lipgloss.Width(part) <= width {
				current += " " + part
				continue
			}
			wrapped = append(wrapped, current)
			current = part
		}
		wrapped = append(wrapped, current)
	}
	return strings.Join(wrapped, "\n")
}

func truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

func compactSingleLine(text string, limit int) string {
	compact := strings.Join(strings.Fields(text), " ")
	return truncate(compact, limit)
}

func nullCoalesce(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
