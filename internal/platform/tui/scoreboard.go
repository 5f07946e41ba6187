package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/molepuzzle/internal/progress"
	"github.com/vovakirdan/molepuzzle/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the view list sidebar
	sidebarWidth       = 20 // Width of view list sidebar
)

// ScoreboardView selects which table the scoreboard shows.
type ScoreboardView int

const (
	ViewHighScores ScoreboardView = iota
	ViewRecent
	ViewAchievements
)

var viewTitles = []string{"High Scores", "Recent Games", "Achievements"}

func (v ScoreboardView) String() string {
	if int(v) < len(viewTitles) {
		return viewTitles[v]
	}
	return "Unknown"
}

// ScoreboardData is everything the scoreboard displays. It is loaded once
// by the caller.
type ScoreboardData struct {
	HighScores   []progress.Entry
	Recent       []storage.ScoreRecord
	Achievements []progress.Progress
	Stats        progress.Stats
	Now          time.Time // Reference for relative times; zero means time.Now
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	PrevView key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.PrevView, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	data        ScoreboardData
	view        ScoreboardView
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(data ScoreboardData, width, height int) ScoreboardModel {
	if data.Now.IsZero() {
		data.Now = time.Now()
	}
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		data:        data,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// columns returns the table layout for the current view.
func (m *ScoreboardModel) columns() []table.Column {
	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	wide := max(12, tableWidth-30)

	switch m.view {
	case ViewRecent:
		return []table.Column{
			{Title: "Score", Width: 8},
			{Title: "Hits", Width: 6},
			{Title: "Lvl", Width: 4},
			{Title: "Puzzle", Width: 8},
			{Title: "When", Width: min(wide, 18)},
		}
	case ViewAchievements:
		return []table.Column{
			{Title: "", Width: 3},
			{Title: "Achievement", Width: 16},
			{Title: "Description", Width: min(wide, 36)},
			{Title: "Done", Width: 5},
		}
	default:
		return []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 10},
			{Title: "When", Width: min(wide, 20)},
		}
	}
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// rows builds the table rows for the current view.
func (m *ScoreboardModel) rows() []table.Row {
	var rows []table.Row
	switch m.view {
	case ViewRecent:
		for _, r := range m.data.Recent {
			puzzle := "-"
			if r.PuzzleComplete {
				puzzle = "done"
				if r.CompletionTime > 0 {
					puzzle = r.CompletionTime.Round(time.Second).String()
				}
			}
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", r.Score),
				fmt.Sprintf("%d", r.Hits),
				fmt.Sprintf("%d", r.Level),
				puzzle,
				humanize.RelTime(r.CreatedAt, m.data.Now, "ago", "from now"),
			})
		}
	case ViewAchievements:
		for _, p := range m.data.Achievements {
			done := ""
			if p.Unlocked {
				done = "✓"
			}
			rows = append(rows, table.Row{p.Icon, p.Name, p.Description, done})
		}
	default:
		for i, e := range m.data.HighScores {
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				humanize.Comma(int64(e.Score)),
				humanize.RelTime(e.Time(), m.data.Now, "ago", "from now"),
			})
		}
	}
	return rows
}

// updateTableRows refreshes the table for the current view.
func (m *ScoreboardModel) updateTableRows() {
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.table.SetRows(m.rows())
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView):
			m.view = (m.view + 1) % ScoreboardView(len(viewTitles))
			m.updateTableRows()
			return m, nil

		case key.Matches(msg, m.keys.PrevView):
			m.view = (m.view + ScoreboardView(len(viewTitles)) - 1) % ScoreboardView(len(viewTitles))
			m.updateTableRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	b.WriteString(titleStyle.Render(centerText("MOLE PUZZLE - "+strings.ToUpper(m.view.String()), m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.statsLine()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarises the lifetime stats.
func (m ScoreboardModel) statsLine() string {
	s := m.data.Stats
	line := fmt.Sprintf("Hits %s of %s moles  |  Best %s  |  Max level %d  |  Puzzles %d",
		humanize.Comma(int64(s.TotalHits)), humanize.Comma(int64(s.TotalMoles)),
		humanize.Comma(int64(s.MaxScore)), s.MaxLevel, s.PuzzlesCompleted)
	if s.Fastest5HitsMs > 0 {
		line += fmt.Sprintf("  |  Fastest 5 hits %.1fs", float64(s.Fastest5HitsMs)/1000)
	}
	return line
}

// renderWideLayout renders the scoreboard with a sidebar for view selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Views\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, title := range viewTitles {
		cursor := "  "
		style := lipgloss.NewStyle()
		if ScoreboardView(i) == m.view {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + title))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders view tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(viewTitles))
	for i, title := range viewTitles {
		if ScoreboardView(i) == m.view {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = tabStyle.Render(" " + title + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.view)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.table.Rows()) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("Nothing recorded yet.\nPlay a round to fill this table!")
	}
	return m.table.View()
}

// RunScoreboard runs the scoreboard screen until the user quits.
func RunScoreboard(data ScoreboardData, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(data, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
