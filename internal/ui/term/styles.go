package term

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkeye/RTCAgent/internal/config"
	"github.com/dkeye/RTCAgent/internal/core"
)

// Styles is the palette derived from the configured theme.
type Styles struct {
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Bold      lipgloss.Style
	Status    lipgloss.Style
	Tile      lipgloss.Style
	Empty     lipgloss.Style
	Header    lipgloss.Style
	Row       lipgloss.Style
	RowAlt    lipgloss.Style
	Border    lipgloss.Style
	noticeBox map[core.NoticeLevel]lipgloss.Style
}

var (
	success = lipgloss.Color("#10B981")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")
	muted   = lipgloss.Color("#6B7280")
	fg      = lipgloss.Color("#F9FAFB")
)

func NewStyles(theme config.ThemeConfig) Styles {
	primary := lipgloss.Color(theme.PrimaryColor)
	secondary := lipgloss.Color(theme.SecondaryColor)

	cell := lipgloss.NewStyle().Padding(0, 1)
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(primary),
		Muted: lipgloss.NewStyle().Foreground(muted),
		Bold:  lipgloss.NewStyle().Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(fg).
			Background(primary).
			Padding(0, 1).
			Bold(true),
		Tile: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondary).
			Width(18).
			Align(lipgloss.Center),
		Empty: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Foreground(muted).
			Padding(1, 2),
		Header: lipgloss.NewStyle().Bold(true).Foreground(primary).Align(lipgloss.Center),
		Row:    cell.Foreground(lipgloss.Color("255")),
		RowAlt: cell.Foreground(lipgloss.Color("245")),
		Border: lipgloss.NewStyle().Foreground(primary),
		noticeBox: map[core.NoticeLevel]lipgloss.Style{
			core.NoticeInfo:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(secondary).Padding(0, 2),
			core.NoticeSuccess: lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(success).Padding(0, 2),
			core.NoticeWarning: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(warning).Padding(0, 2),
			core.NoticeError:   lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(danger).Padding(0, 2),
		},
	}
}

func (s Styles) Notice(level core.NoticeLevel) lipgloss.Style {
	if st, ok := s.noticeBox[level]; ok {
		return st
	}
	return s.noticeBox[core.NoticeInfo]
}
