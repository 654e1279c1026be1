package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// palette mirrors the theme file. Empty fields keep the default color.
type palette struct {
	Background string `yaml:"background"`
	Panel      string `yaml:"panel"`
	Text       string `yaml:"text"`
	Muted      string `yaml:"muted"`
	Accent     string `yaml:"accent"`
	Self       string `yaml:"self"`
	Other      string `yaml:"other"`
	Error      string `yaml:"error"`
}

func defaultPalette() palette {
	return palette{
		Background: "#120924",
		Panel:      "#1b0f35",
		Text:       "#f3f3ff",
		Muted:      "#9ca3d8",
		Accent:     "#05ffa1",
		Self:       "#2f2370",
		Other:      "#0d4a5c",
		Error:      "#ff71ce",
	}
}

func (p palette) merge(override palette) palette {
	p.Background = nullCoalesce(strings.TrimSpace(override.Background), p.Background)
	p.Panel = nullCoalesce(strings.TrimSpace(override.Panel), p.Panel)
	p.Text = nullCoalesce(strings.TrimSpace(override.Text), p.Text)
	p.Muted = nullCoalesce(strings.TrimSpace(override.Muted), p.Muted)
	p.Accent = nullCoalesce(strings.TrimSpace(override.Accent), p.Accent)
	p.Self = nullCoalesce(strings.TrimSpace(override.Self), p.Self)
	p.Other = nullCoalesce(strings.TrimSpace(override.Other), p.Other)
	p.Error = nullCoalesce(strings.TrimSpace(override.Error), p.Error)
	return p
}

func (p palette) validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"background", p.Background},
		{"panel", p.Panel},
		{"text", p.Text},
		{"muted", p.Muted},
		{"accent", p.Accent},
		{"self", p.Self},
		{"other", p.Other},
		{"error", p.Error},
	}
	var errs []error
	for _, field := range fields {
		if !hexColorPattern.MatchString(field.value) {
			errs = append(errs, fmt.Errorf("%s: invalid color %q", field.name, field.value))
		}
	}
	return errors.Join(errs...)
}

func parsePalette(r io.Reader) (palette, error) {
	var override palette
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		return palette{}, fmt.Errorf("parse theme: %w", err)
	}
	merged := defaultPalette().merge(override)
	if err := merged.validate(); err != nil {
		return palette{}, fmt.Errorf("invalid theme: %w", err)
	}
	return merged, nil
}

func loadPalette(path string) (palette, error) {
	if strings.TrimSpace(path) == "" {
		return defaultPalette(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return palette{}, fmt.Errorf("read theme %s: %w", path, err)
	}
	return parsePalette(bytes.NewReader(raw))
}

type uiTheme struct {
	root        lipgloss.Style
	header      lipgloss.Style
	title       lipgloss.Style
	panel       lipgloss.Style
	panelTitle  lipgloss.Style
	footer      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	inputPanel  lipgloss.Style
	helpText    lipgloss.Style
	received    lipgloss.Style
	selfBubble  lipgloss.Style
	otherBubble lipgloss.Style
	timestamp   lipgloss.Style
	modalFrame  lipgloss.Style
	accent      lipgloss.Style
	background  lipgloss.Color
}

// Bubbles keep rounded corners except the one pointing at their sender.
func bubbleBorder(from sender) lipgloss.Border {
	border := lipgloss.RoundedBorder()
	if from == senderSelf {
		border.BottomRight = "┘"
	} else {
		border.BottomLeft = "└"
	}
	return border
}

func newTheme(p palette) uiTheme {
	bg := lipgloss.Color(p.Background)
	panelBg := lipgloss.Color(p.Panel)
	text := lipgloss.Color(p.Text)
	muted := lipgloss.Color(p.Muted)
	accent := lipgloss.Color(p.Accent)
	pink := lipgloss.Color(p.Error)

	return uiTheme{
		root: lipgloss.NewStyle().
			Background(bg).
			Foreground(text).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		title: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		panel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		footer: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(muted).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(pink).
			Padding(0, 1),
		status:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(pink).Bold(true),
		inputPanel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		helpText: lipgloss.NewStyle().Foreground(muted),
		received: lipgloss.NewStyle().Foreground(text).Bold(true),
		selfBubble: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Self)).
			Foreground(text).
			BorderStyle(bubbleBorder(senderSelf)).
			BorderForeground(lipgloss.Color(p.Self)).
			Padding(0, 2),
		otherBubble: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Other)).
			Foreground(text).
			BorderStyle(bubbleBorder(senderOther)).
			BorderForeground(lipgloss.Color(p.Other)).
			Padding(0, 2),
		timestamp: lipgloss.NewStyle().Foreground(muted),
		modalFrame: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(pink).
			Padding(1, 2),
		accent:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		background: bg,
	}
}

func (t uiTheme) bubbleStyle(from sender) lipgloss.Style {
	if from == senderSelf {
		return t.selfBubble
	}
	return t.otherBubble
}
