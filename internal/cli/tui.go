package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lanewise/snapgraph/pkg/history"
	"github.com/lanewise/snapgraph/pkg/layout"
)

// =============================================================================
// browseModel - Interactive History Browser
// =============================================================================

// browseModel is the bubbletea model for browsing the history graph. Rows
// mirror the layout engine's rows one to one, so what the user navigates is
// exactly what the SVG draws.
type browseModel struct {
	store  *history.Store
	result *layout.Result

	cursor int
	offset int
	height int

	// lanes is the gutter width. The ghost row sits one lane past the
	// graph's lane count, so this derives from the rows.
	lanes int

	// activated is the snapshot switched to during this session, if any.
	activated string
	err       error
}

// newBrowseModel creates a browse model with the cursor on the current
// version's row.
func newBrowseModel(store *history.Store, res *layout.Result) browseModel {
	m := browseModel{
		store:  store,
		result: res,
		height: 15,
		lanes:  gutterLanes(res),
	}

	if cur, ok := store.Current(); ok {
		if idx := res.NodeRowIndex(cur.ID); idx >= 0 {
			m.cursor = idx
			if m.cursor >= m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	}
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.result.Rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.err = nil
			m.result.Activate(m.cursor, func(id string, wasCurrent bool) {
				if wasCurrent {
					return
				}
				if _, err := m.store.Activate(context.Background(), id); err != nil {
					m.err = err
					return
				}
				m.activated = id
			})
			if m.activated != "" {
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("History"))
	b.WriteString(listDimStyle.Render(" — " + m.store.Name()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ activate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.result.Rows) {
		end = len(m.result.Rows)
	}

	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] · %d lanes", m.cursor+1, len(m.result.Rows), m.result.LaneCount)))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render("  activate failed: " + m.err.Error()))
	}

	return b.String()
}

// renderRow draws one layout row: cursor, lane gutter, then the label.
func (m browseModel) renderRow(i int) string {
	row := m.result.Rows[i]
	selected := i == m.cursor

	cursor := "  "
	if selected {
		cursor = StyleHighlight.Render("▸ ")
	}

	var gutter strings.Builder
	for j := 0; j < m.lanes; j++ {
		if j == row.Lane {
			gutter.WriteString(laneStyle(j).Render(rowGlyph(row)))
		} else {
			gutter.WriteString(" ")
		}
		gutter.WriteString(" ")
	}

	return cursor + gutter.String() + " " + rowLabel(row, selected)
}

// rowGlyph picks the gutter marker for a row.
func rowGlyph(row layout.Row) string {
	switch row.Kind {
	case layout.RowNode:
		if row.Node != nil && row.Node.IsCurrent {
			return "◉"
		}
		return "●"
	case layout.RowUncommitted:
		return "○"
	case layout.RowGhost:
		return "◌"
	default:
		return "·"
	}
}

// rowLabel renders the text next to the gutter.
func rowLabel(row layout.Row, selected bool) string {
	msgStyle := listNormalStyle
	if selected {
		msgStyle = listSelectedStyle
	}

	switch row.Kind {
	case layout.RowNode:
		n := row.Node
		if n == nil {
			return ""
		}
		parts := []string{
			StyleDim.Render(history.ShortID(n.ID)),
			msgStyle.Render(n.Message),
			listDimStyle.Render(formatRelativeTime(n.Time())),
		}
		if n.IsCurrent {
			parts = append(parts, StyleSuccess.Render("(current)"))
		}
		return strings.Join(parts, "  ")
	case layout.RowUncommitted:
		return StyleWarning.Render("unsaved changes")
	case layout.RowGhost:
		return StyleWarning.Render("unsaved changes") + listDimStyle.Render("  will fork on save")
	case layout.RowAliasNote:
		label := row.NoteLabel
		if label == "" {
			label = row.NoteTimelineID
		}
		return listDimStyle.Render("also on " + label)
	default:
		return ""
	}
}

// =============================================================================
// Helpers
// =============================================================================

func gutterLanes(res *layout.Result) int {
	lanes := res.LaneCount
	for _, row := range res.Rows {
		if row.Lane >= lanes {
			lanes = row.Lane + 1
		}
	}
	return lanes
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
