// Package tui provides interactive terminal UI components using BubbleTea.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/klauern/calsift/internal/model"
)

// changesKeyMap defines the key bindings for the change browser.
type changesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultChangesKeyMap() changesKeyMap {
	return changesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle change-type filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Styles for the change browser TUI.
var changesStyles = struct {
	Title      lipgloss.Style
	Help       lipgloss.Style
	Status     lipgloss.Style
	SectionHdr lipgloss.Style
	Added      lipgloss.Style
	Deleted    lipgloss.Style
	Modified   lipgloss.Style
	Moved      lipgloss.Style
	Duration   lipgloss.Style
	Detail     lipgloss.Style
	Info       lipgloss.Style
}{
	Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	SectionHdr: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).Padding(1, 0),
	Added:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Deleted:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	Modified:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	Moved:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	Duration:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	Detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	Info:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Italic(true),
}

// changeFilters is the cycle order for the f key. The empty type shows
// every change.
var changeFilters = []model.ChangeType{
	"",
	model.ChangeAdded,
	model.ChangeDeleted,
	model.ChangeModified,
	model.ChangeMoved,
	model.ChangeDurationChanged,
}

// ChangesModel is the BubbleTea model for browsing a calendar diff.
type ChangesModel struct {
	viewport viewport.Model
	before   string
	after    string
	result   model.DiffResult
	keys     changesKeyMap
	filter   int // index into changeFilters
	showHelp bool
	width    int
	height   int
	quitting bool
	ready    bool
}

// NewChangesModel creates a change browser over a diff result. The before
// and after names label the two calendars in the header.
func NewChangesModel(before, after string, result model.DiffResult) ChangesModel {
	return ChangesModel{
		before: before,
		after:  after,
		result: result,
		keys:   defaultChangesKeyMap(),
	}
}

// Init implements tea.Model.
func (m ChangesModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ChangesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Title + spacing
		footerHeight := 3 // Status + help
		viewportHeight := max(msg.Height-headerHeight-footerHeight, 5)

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, viewportHeight)
			m.viewport.SetContent(m.buildContent())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = viewportHeight
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			m.filter = (m.filter + 1) % len(changeFilters)
			if m.ready {
				m.viewport.SetContent(m.buildContent())
				m.viewport.GotoTop()
			}
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// filteredRecords returns the chronological records matching the active
// filter.
func (m ChangesModel) filteredRecords() []model.ChangeRecord {
	active := changeFilters[m.filter]
	if active == "" {
		return m.result.Chronological
	}
	var records []model.ChangeRecord
	for _, rec := range m.result.Chronological {
		if rec.Type == active {
			records = append(records, rec)
		}
	}
	return records
}

func (m ChangesModel) buildContent() string {
	var b strings.Builder

	stats := m.result.Statistics
	b.WriteString(changesStyles.SectionHdr.Render("Statistics"))
	b.WriteString("\n")
	b.WriteString(changesStyles.Added.Render(fmt.Sprintf("  + added:            %d", stats.Added)))
	b.WriteString("\n")
	b.WriteString(changesStyles.Deleted.Render(fmt.Sprintf("  - deleted:          %d", stats.Deleted)))
	b.WriteString("\n")
	b.WriteString(changesStyles.Modified.Render(fmt.Sprintf("  ~ modified:         %d", stats.Modified)))
	b.WriteString("\n")
	b.WriteString(changesStyles.Moved.Render(fmt.Sprintf("  = moved:            %d", stats.Moved)))
	b.WriteString("\n")
	b.WriteString(changesStyles.Duration.Render(fmt.Sprintf("  Δ duration changed: %d", stats.DurationChanged)))
	b.WriteString("\n")
	b.WriteString(changesStyles.Detail.Render(fmt.Sprintf("    unchanged:        %d", stats.Unchanged)))
	b.WriteString("\n")

	records := m.filteredRecords()
	if len(records) == 0 {
		b.WriteString("\n")
		if changeFilters[m.filter] == "" {
			b.WriteString(changesStyles.Info.Render("  No differences between the calendars"))
		} else {
			b.WriteString(changesStyles.Info.Render(fmt.Sprintf("  No %s changes", changeFilters[m.filter])))
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(changesStyles.SectionHdr.Render("Changes (chronological)"))
	b.WriteString("\n")
	for _, rec := range records {
		b.WriteString(m.renderRecord(rec))
	}

	return b.String()
}

func (m ChangesModel) renderRecord(rec model.ChangeRecord) string {
	var b strings.Builder

	ev := rec.Subject()
	style := styleFor(rec.Type)

	date := "N/A"
	if d := rec.SortDate(); !d.IsZero() {
		date = d.Format("2006-01-02")
	}
	summary := ""
	if ev != nil {
		summary = ev.Summary
	}

	head := fmt.Sprintf("%s [%s] %s %s",
		rec.Type.Symbol(), strings.ToUpper(rec.Type.String()), date, summary)
	b.WriteString(style.Render(head))
	b.WriteString("\n")

	if ev != nil && ev.UID != "" {
		b.WriteString(changesStyles.Detail.Render("    UID: " + ev.UID))
		b.WriteString("\n")
	}

	switch rec.Type {
	case model.ChangeAdded, model.ChangeDeleted:
		if ev != nil && ev.Description != "" {
			width := max(m.width-6, 20)
			b.WriteString(changesStyles.Detail.Render("    " + formatDescription(ev.Description, width)))
			b.WriteString("\n")
		}
	default:
		for _, pc := range rec.Properties {
			line := fmt.Sprintf("    %s: %s → %s",
				pc.Property, propertyValue(pc.OldValue), propertyValue(pc.NewValue))
			b.WriteString(changesStyles.Detail.Render(line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func styleFor(ct model.ChangeType) lipgloss.Style {
	switch ct {
	case model.ChangeAdded:
		return changesStyles.Added
	case model.ChangeDeleted:
		return changesStyles.Deleted
	case model.ChangeModified:
		return changesStyles.Modified
	case model.ChangeMoved:
		return changesStyles.Moved
	case model.ChangeDurationChanged:
		return changesStyles.Duration
	default:
		return changesStyles.Detail
	}
}

func propertyValue(v *string) string {
	if v == nil || *v == "" {
		return "(none)"
	}
	return *v
}

// View implements tea.Model.
func (m ChangesModel) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	title := Styles.Title.Render(fmt.Sprintf("Calendar Diff: %s → %s", m.before, m.after))
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	filterName := "all"
	if active := changeFilters[m.filter]; active != "" {
		filterName = active.String()
	}
	status := fmt.Sprintf("Scroll: %d%% • Filter: %s • %d change(s)",
		scrollPercent, filterName, len(m.filteredRecords()))
	b.WriteString(changesStyles.Status.Render(status))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderFullHelp())
	} else {
		b.WriteString(m.renderShortHelp())
	}

	return b.String()
}

func (m ChangesModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ scroll",
		"f filter",
		"? help",
		"q quit",
	}
	return changesStyles.Help.Render(strings.Join(keys, " • "))
}

func (m ChangesModel) renderFullHelp() string {
	help := `Navigation:
  ↑/k      Scroll up
  ↓/j      Scroll down
  PgUp     Page up
  PgDown   Page down

Actions:
  f        Cycle change-type filter (all, added, deleted, ...)

General:
  ?        Toggle full help
  q/Esc    Quit`
	return changesStyles.Help.Render(help)
}

// RunChanges runs the interactive change browser over a diff result.
func RunChanges(before, after string, result model.DiffResult) error {
	mdl := NewChangesModel(before, after, result)
	_, err := tea.NewProgram(mdl, tea.WithAltScreen()).Run()
	return err
}
