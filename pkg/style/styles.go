// Package style defines the visual styling for dotfold's terminal
// output.
//
// Styles use semantic names and adaptive colors that adjust to light
// and dark terminal themes, loaded from an embedded YAML sheet. Output
// degrades to plain text when stdout is not a terminal or color is
// disabled.
package style

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color definition in the YAML sheet
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style definition in the YAML sheet
type StyleDef struct {
	Bold        bool   `yaml:"bold,omitempty"`
	Italic      bool   `yaml:"italic,omitempty"`
	Underline   bool   `yaml:"underline,omitempty"`
	Foreground  string `yaml:"foreground,omitempty"`
	PaddingLeft int    `yaml:"paddingLeft,omitempty"`
}

// sheet is the complete styles configuration
type sheet struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// registry maps semantic names to lipgloss styles
var registry map[string]lipgloss.Style

var colorEnabled = detectColor()

func init() {
	if err := loadStyles(); err != nil {
		// A broken embedded sheet is a programming error; fall back to
		// unstyled output rather than failing the run.
		registry = map[string]lipgloss.Style{}
		fmt.Fprintf(os.Stderr, "warning: failed to load styles: %v\n", err)
	}
	if !colorEnabled {
		pterm.DisableStyling()
	}
}

func loadStyles() error {
	var cfg sheet
	if err := yaml.Unmarshal(embeddedStyles, &cfg); err != nil {
		return fmt.Errorf("parse embedded styles: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	registry = make(map[string]lipgloss.Style, len(cfg.Styles))
	for name, def := range cfg.Styles {
		s := lipgloss.NewStyle().
			Bold(def.Bold).
			Italic(def.Italic).
			Underline(def.Underline).
			PaddingLeft(def.PaddingLeft)
		if color, ok := colors[def.Foreground]; ok {
			s = s.Foreground(color)
		}
		registry[name] = s
	}
	return nil
}

// Get returns the style registered under name, or a zero style
func Get(name string) lipgloss.Style {
	if s, ok := registry[name]; ok && colorEnabled {
		return s
	}
	return lipgloss.NewStyle()
}

// DisableColor forces plain output for the rest of the process
func DisableColor() {
	colorEnabled = false
	pterm.DisableStyling()
}

// detectColor reports whether stdout supports styled output
func detectColor() bool {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}
