package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gritquest/internal/engine"
	"gritquest/internal/storage"
)

type boardModel struct {
	ctx         context.Context
	svc         *engine.Service
	characterID string

	width  int
	height int

	character *storage.Character
	quests    []storage.Quest
	entries   []storage.LogEntry

	loading bool
	err     error
}

type loadedMsg struct {
	character *storage.Character
	quests    []storage.Quest
	entries   []storage.LogEntry
	err       error
}

func newBoardModel(ctx context.Context, svc *engine.Service, characterID string) boardModel {
	return boardModel{
		ctx:         ctx,
		svc:         svc,
		characterID: characterID,
		loading:     true,
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		c, err := m.svc.CharacterRepo().GetOrCreate(m.ctx, m.characterID)
		if err != nil {
			return loadedMsg{err: err}
		}
		now := time.Now().UTC()
		if _, err := m.svc.GenerateDailyQuests(m.ctx, m.characterID, now); err != nil {
			return loadedMsg{err: err}
		}
		quests, err := m.svc.QuestRepo().ListForPeriod(m.ctx, m.characterID,
			string(engine.ScopeDaily), now.Format("2006-01-02"))
		if err != nil {
			return loadedMsg{err: err}
		}
		entries, err := m.svc.LogRepo().ListRecent(m.ctx, m.characterID, 8)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{character: c, quests: quests, entries: entries}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.character = msg.character
			m.quests = msg.quests
			m.entries = msg.entries
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.loading {
		return "Loading…"
	}
	if m.err != nil {
		return "Error: " + m.err.Error()
	}

	var b strings.Builder
	b.WriteString(panel("Character", m.characterView()))
	b.WriteString("\n")
	b.WriteString(panel("Today's quests", m.questsView()))
	b.WriteString("\n")
	b.WriteString(panel("Recent activity", m.logView()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("r refresh · q quit"))
	return b.String()
}

var (
	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("244")).
			Padding(0, 1)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	goodStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func panel(title, body string) string {
	return panelStyle.Render(panelTitleStyle.Render(title) + "\n" + body)
}

func (m boardModel) characterView() string {
	info := engine.LevelFromXP(m.character.XPTotal)
	levels := engine.CharacterStatLevels(m.character)
	derived := engine.ComputeSecondaryStats(levels)

	var stats []string
	for _, kind := range engine.AllStats {
		stats = append(stats, fmt.Sprintf("%s %d", kind, levels[kind]))
	}

	return fmt.Sprintf("Level %d (%d/%d XP) · %d perk points\n%s\nHP %d · Energy %d · Crit %.0f%% · Res %.0f%%",
		info.Level, info.CurrentLevelXP, info.NextLevelXP, m.character.PerkPoints,
		strings.Join(stats, " · "),
		derived.MaxHP, derived.MaxEnergy, derived.Crit*100, derived.Resistance*100)
}

func (m boardModel) questsView() string {
	if len(m.quests) == 0 {
		return mutedStyle.Render("No quests generated.")
	}
	catalog := engine.QuestCatalog()
	var lines []string
	for _, q := range m.quests {
		title := q.CatalogID
		if def, ok := catalog[q.CatalogID]; ok {
			title = def.Title
		}
		mark := fmt.Sprintf("%d/%d", q.CurrentCount, q.TargetCount)
		if q.Status == "completed" {
			mark = goodStyle.Render("done")
		}
		lines = append(lines, fmt.Sprintf("%s — %s", title, mark))
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) logView() string {
	if len(m.entries) == 0 {
		return mutedStyle.Render("No activity yet.")
	}
	var lines []string
	for _, e := range m.entries {
		lines = append(lines, fmt.Sprintf("%s %s",
			mutedStyle.Render(e.CreatedAt.Local().Format("15:04")), e.Title))
	}
	return strings.Join(lines, "\n")
}

// RunBoard starts the dashboard and blocks until the user quits.
func RunBoard(ctx context.Context, svc *engine.Service, characterID string, out io.Writer) error {
	p := tea.NewProgram(newBoardModel(ctx, svc, characterID), tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
