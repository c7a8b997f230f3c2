package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blocks/internal/registry"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

const (
	maxScores     = 100
	maxMatches    = 50
	onlineBoardID = "online"
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

// FullHelp implements help.KeyMap.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.NextTab, k.PrevTab}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns the default bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// board is one tab of the scoreboard.
type board struct {
	id      string
	title   string
	players int
}

// ScoreboardModel shows solo high scores, duo tallies and online results.
type ScoreboardModel struct {
	boards    []board
	cursor    int
	store     *storage.Store
	table     table.Model
	summary   string
	empty     bool
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel opens the scoreboard on the first tab.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	var boards []board
	for _, g := range registry.List() {
		boards = append(boards, board{id: g.ID, title: g.Title, players: g.Players})
	}
	boards = append(boards, board{id: onlineBoardID, title: "Online", players: 2})

	m := ScoreboardModel{
		boards: boards,
		store:  store,
		help:   help.New(),
		keys:   DefaultScoreboardKeyMap(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

// load fills the table for the current tab.
func (m *ScoreboardModel) load() {
	b := m.boards[m.cursor]
	var (
		cols []table.Column
		rows []table.Row
		err  error
	)
	m.summary = ""
	switch {
	case b.id == onlineBoardID:
		cols, rows, err = m.onlineRows()
	case b.players == 2:
		cols, rows, err = m.duoRows()
	default:
		cols, rows, err = m.soloRows(b.id)
	}
	if err != nil {
		m.summary = "Error: " + err.Error()
	}
	m.empty = len(rows) == 0

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
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
	m.table = t
}

func (m *ScoreboardModel) soloRows(gameID string) ([]table.Column, []table.Row, error) {
	cols := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Lines", Width: 7},
		{Title: "Level", Width: 7},
		{Title: "Date", Width: 14},
	}
	if m.store == nil {
		return cols, nil, nil
	}
	scores, err := m.store.TopScores(gameID, maxScores)
	if err != nil {
		return cols, nil, err
	}
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			strconv.Itoa(s.Score),
			strconv.Itoa(s.Lines),
			strconv.Itoa(s.Level),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	if stats, err := m.store.GetGameStats(gameID); err == nil && stats.GamesCount > 0 {
		m.summary = fmt.Sprintf("%d games  avg %.0f  %d lines total", stats.GamesCount, stats.AvgScore, stats.TotalLines)
	}
	return cols, rows, nil
}

func (m *ScoreboardModel) duoRows() ([]table.Column, []table.Row, error) {
	cols := []table.Column{{Title: "Player", Width: 10}, {Title: "Wins", Width: 8}}
	if m.store == nil {
		return cols, nil, nil
	}
	stats, err := m.store.DuoStats()
	if err != nil {
		return cols, nil, err
	}
	if stats.P1Wins+stats.P2Wins == 0 {
		return cols, nil, nil
	}
	rows := []table.Row{
		{"Player 1", strconv.Itoa(stats.P1Wins)},
		{"Player 2", strconv.Itoa(stats.P2Wins)},
	}
	return cols, rows, nil
}

func (m *ScoreboardModel) onlineRows() ([]table.Column, []table.Row, error) {
	cols := []table.Column{
		{Title: "Host", Width: 12},
		{Title: "Guest", Width: 12},
		{Title: "Score", Width: 13},
		{Title: "Winner", Width: 12},
		{Title: "End", Width: 10},
		{Title: "Date", Width: 14},
	}
	if m.store == nil {
		return cols, nil, nil
	}
	matches, err := m.store.RecentOnlineMatches(maxMatches)
	if err != nil {
		return cols, nil, err
	}
	rows := make([]table.Row, len(matches))
	for i, r := range matches {
		winner := r.Winner
		if winner == "" {
			winner = "-"
		}
		rows[i] = table.Row{
			r.HostName,
			r.GuestName,
			fmt.Sprintf("%d:%d", r.HostScore, r.GuestScore),
			winner,
			r.EndReason,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return cols, rows, nil
}

// Init implements tea.Model.
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
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.cursor = (m.cursor + 1) % len(m.boards)
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.cursor = (m.cursor + len(m.boards) - 1) % len(m.boards)
			m.load()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	tabs := make([]string, len(m.boards))
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	for i, b := range m.boards {
		if i == m.cursor {
			tabs[i] = active.Render(b.title)
		} else {
			tabs[i] = dimStyle.Render(" " + b.title + " ")
		}
	}

	var body string
	if m.empty {
		body = dimStyle.Italic(true).Padding(2, 4).Render("Nothing recorded yet.")
	} else {
		body = m.table.View()
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(body)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SCORES"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box))
	b.WriteString("\n")
	if m.summary != "" {
		b.WriteString(centerText(m.summary, m.width))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// IsGoingBack reports whether the player wants the menu again.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the player wants to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scoreboard until the player leaves.
func RunScoreboard(store *storage.Store, width, height int) error {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
