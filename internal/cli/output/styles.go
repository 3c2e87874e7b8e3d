package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusWarn    lipgloss.Style
	StatusFailed  lipgloss.Style
}

// NewStyles builds the style set. Without a terminal every style is plain.
func NewStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header1: plain, Header2: plain, Bold: plain, Muted: plain,
			Success: plain, Warning: plain, Error: plain, Info: plain,
			StatusSuccess: plain.SetString("[ok]"),
			StatusWarn:    plain.SetString("[!!]"),
			StatusFailed:  plain.SetString("[xx]"),
		}
	}

	green := lipgloss.Color("10")
	yellow := lipgloss.Color("11")
	red := lipgloss.Color("9")
	blue := lipgloss.Color("12")
	gray := lipgloss.Color("8")

	return &Styles{
		Header1: lipgloss.NewStyle().Bold(true).Foreground(blue),
		Header2: lipgloss.NewStyle().Bold(true),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(gray),
		Success: lipgloss.NewStyle().Foreground(green),
		Warning: lipgloss.NewStyle().Foreground(yellow),
		Error:   lipgloss.NewStyle().Foreground(red),
		Info:    lipgloss.NewStyle().Foreground(blue),

		StatusSuccess: lipgloss.NewStyle().Foreground(green).SetString("✓"),
		StatusWarn:    lipgloss.NewStyle().Foreground(yellow).SetString("!"),
		StatusFailed:  lipgloss.NewStyle().Foreground(red).SetString("✗"),
	}
}

// ScoreStyle picks a color for a 0-100 score.
func (s *Styles) ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return s.Success
	case score >= 50:
		return s.Warning
	default:
		return s.Error
	}
}
