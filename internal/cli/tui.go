package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flamekit/pkg/api"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// VariationListModel - Interactive variation selection
// =============================================================================

// VariationListModel is the bubbletea model for interactive variation selection.
type VariationListModel struct {
	Variations []api.VariationInfo
	Cursor     int
	Selected   *api.VariationInfo
	Height     int
	Offset     int
}

// NewVariationListModel creates a new variation list model.
func NewVariationListModel(infos []api.VariationInfo) VariationListModel {
	return VariationListModel{
		Variations: infos,
		Height:     10,
	}
}

func (m VariationListModel) Init() tea.Cmd {
	return nil
}

func (m VariationListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Variations)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Variations) == 0 {
				return m, tea.Quit
			}
			v := m.Variations[m.Cursor]
			m.Selected = &v
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 3)
	}
	return m, nil
}

func (m VariationListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Variation"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Variations))
	for i := m.Offset; i < end; i++ {
		v := m.Variations[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-12s %s", cursor, v.Name, listDimStyle.Render(formatParams(v.Params)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Variations)), len(m.Variations))))

	return b.String()
}
