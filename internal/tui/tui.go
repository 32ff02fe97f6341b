// Package tui is a terminal front end that drives a local game session.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/internal/save"
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

type mode int

const (
	modeRunning mode = iota
	modeAnimation
	modeOrders
	modeEnded
)

// Options tune a local game.
type Options struct {
	Difficulty string  // recorded in save files
	DelayScale float64 // multiplier for AI pauses; 0 skips them
	TurnLimit  int     // 0 uses sengoku.VictoryTurnLimit
}

type model struct {
	sess   *sengoku.Session
	opts   Options
	mode   mode
	orders Orders

	lines    []string
	notice   string
	viewport viewport.Model
	input    textinput.Model
	ready    bool
	width    int
	height   int
}

type nextMsg struct{}

var (
	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	turnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	battleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	orderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

func newModel(sess *sengoku.Session, opts Options) model {
	if opts.TurnLimit == 0 {
		opts.TurnLimit = sengoku.VictoryTurnLimit
	}
	ti := textinput.New()
	ti.Placeholder = "orders (help for a list, done to end the turn)"
	ti.CharLimit = 120
	ti.Width = 60

	return model{sess: sess, opts: opts, input: ti}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case nextMsg:
		if m.mode == modeRunning {
			cmd = m.pump(nil)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := int(float64(msg.Width)*0.7), msg.Height-6
		if !m.ready {
			m.viewport = viewport.New(w, h)
			m.ready = true
		} else {
			m.viewport.Width, m.viewport.Height = w, h
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAnimation:
			m.mode = modeRunning
			return m, m.pump(nil)
		case modeEnded:
			if msg.Type == tea.KeyEnter || msg.String() == "q" {
				return m, tea.Quit
			}
		case modeOrders:
			switch msg.Type {
			case tea.KeyEnter:
				line := m.input.Value()
				m.input.Reset()
				if strings.TrimSpace(line) == "" {
					return m, nil
				}
				return m, m.submit(line)
			case tea.KeyPgUp, tea.KeyPgDown:
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.mode == modeOrders {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// submit handles one prompt line while the player is giving orders.
func (m *model) submit(line string) tea.Cmd {
	m.notice = ""
	a, err := ParseLine(line)
	if err != nil {
		m.notice = err.Error()
		return nil
	}
	switch a.Kind {
	case ActionCommand, ActionChoice:
		if err := m.orders.Add(a); err != nil {
			m.notice = err.Error()
			return nil
		}
		m.push(orderStyle.Render("> " + line))
	case ActionUndo:
		if !m.orders.Undo() {
			m.notice = "nothing to undo"
		}
	case ActionHelp:
		m.push(helpStyle.Render(HelpText()))
	case ActionSave:
		if err := save.SaveFile(a.Path, m.sess, m.opts.Difficulty); err != nil {
			m.notice = "save failed: " + err.Error()
			return nil
		}
		m.notice = "saved to " + a.Path
	case ActionQuit:
		return tea.Quit
	case ActionDone:
		cmds := m.orders.Commands()
		m.input.Blur()
		m.mode = modeRunning
		return m.pump(cmds)
	}
	return nil
}

// pump advances the session until the next pause: the player's turn, an
// animation, an AI delay, or the end of the game.
func (m *model) pump(resume *sengoku.PlayerCommands) tea.Cmd {
	for {
		step, err := m.sess.Advance(resume)
		resume = nil
		if err != nil {
			log.Error().Err(err).Int("turn", m.sess.State.Turn).Msg("Advance failed")
			m.end("Error: " + err.Error())
			return nil
		}
		if step.Done {
			if m.turnDone(step.Result) {
				return nil
			}
			continue
		}

		ev := *step.Event
		m.pushEvent(ev)
		switch {
		case ev.NeedsCommands():
			m.mode = modeOrders
			m.input.Focus()
			return textinput.Blink
		case ev.IsAnimation():
			m.mode = modeAnimation
			m.push(helpStyle.Render("(press any key)"))
			return nil
		case ev.Kind == sengoku.EventAIActionDelay && m.opts.DelayScale > 0:
			d := time.Duration(ev.DelaySeconds * m.opts.DelayScale * float64(time.Second))
			return tea.Tick(d, func(time.Time) tea.Msg { return nextMsg{} })
		}
	}
}

// turnDone records a finished turn and reports whether the game is over.
func (m *model) turnDone(r sengoku.TurnResult) bool {
	gs := m.sess.State
	switch {
	case r.Winner != 0:
		m.end(fmt.Sprintf("%s has unified the land.", gs.LordName(r.Winner)))
	case r.GameOver:
		m.end("Your clan has fallen. Game over.")
	case gs.Turn >= m.opts.TurnLimit:
		m.end(fmt.Sprintf("The turn limit of %d has been reached.", m.opts.TurnLimit))
	default:
		return false
	}
	return true
}

func (m *model) end(text string) {
	m.mode = modeEnded
	m.input.Blur()
	m.push(turnStyle.Render(text))
	m.push(helpStyle.Render("Press enter to exit."))
}

func (m *model) pushEvent(ev sengoku.Event) {
	switch ev.Kind {
	case sengoku.EventTurnStart, sengoku.EventPlayerTurn, sengoku.EventVictory:
		m.push(turnStyle.Render(ev.Text))
	case sengoku.EventBattleAnimation:
		for _, l := range BattleLines(ev.Battle) {
			m.push(battleStyle.Render(l))
		}
	case sengoku.EventAIActionDelay:
		if ev.Text != "" {
			m.push(helpStyle.Render(ev.Text))
		}
	default:
		if ev.Text != "" {
			m.push(eventStyle.Render(ev.Text))
		}
	}
}

// BattleLines renders a battle report for the log.
func BattleLines(b *sengoku.BattleReport) []string {
	if b == nil {
		return nil
	}
	lines := []string{
		fmt.Sprintf("Battle of %s: %s (%d) from %s against %s (%d)",
			b.ToName, b.AttackerName, b.AttackerTroops, b.FromName, b.DefenderName, b.DefenderTroops),
	}
	if c := b.AttackerGeneral; c != nil {
		lines = append(lines, fmt.Sprintf("  attacking commander %s, war %d", c.Name, c.WarSkill))
	}
	if c := b.DefenderGeneral; c != nil {
		lines = append(lines, fmt.Sprintf("  defending commander %s, war %d", c.Name, c.WarSkill))
	}
	for _, r := range b.Result.RoundLog {
		lines = append(lines, "  "+r)
	}
	outcome := "The defenders hold."
	switch {
	case b.Result.ProvinceCaptured:
		outcome = fmt.Sprintf("%s takes %s.", b.AttackerName, b.ToName)
	case b.Result.Retreated:
		outcome = "The attackers retreat."
	}
	lines = append(lines, fmt.Sprintf("  %s Losses %d / %d.", outcome,
		b.Result.AttackerCasualties, b.Result.DefenderCasualties))
	return lines
}

func (m *model) push(line string) {
	m.lines = append(m.lines, line)
	m.refresh()
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if !m.ready {
		return "\n  Preparing the realm...\n"
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.renderStatus())

	var prompt string
	switch m.mode {
	case modeOrders:
		prompt = m.input.View()
	case modeAnimation:
		prompt = helpStyle.Render("Press any key to continue.")
	case modeEnded:
		prompt = helpStyle.Render("Game ended.")
	default:
		prompt = helpStyle.Render("The other lords are acting...")
	}
	help := helpStyle.Render(m.notice)
	if m.notice == "" {
		help = helpStyle.Render("help, undo, done, /save <file>, /quit. PgUp/PgDn scroll.")
	}

	return "\n" + lipgloss.JoinVertical(lipgloss.Left, body, "\n"+prompt, "\n"+help) + "\n"
}

func (m model) renderStatus() string {
	gs := m.sess.State
	var b strings.Builder

	b.WriteString(titleStyle.Render("REALM") + "\n")
	fmt.Fprintf(&b, "%s, year %d\nturn %d\n\n", gs.Season, gs.Year(), gs.Turn)

	b.WriteString(titleStyle.Render(strings.ToUpper(gs.LordName(gs.PlayerLord))) + "\n")
	owned := gs.OwnedProvinces(gs.PlayerLord)
	if len(owned) == 0 {
		b.WriteString("(no provinces)\n")
	}
	var gold, rice, soldiers int
	for _, p := range owned {
		gold += p.Gold
		rice += p.Rice
		soldiers += p.Soldiers
		fmt.Fprintf(&b, "%2d %-10s s%-5d g%-5d r%d\n", p.ID, p.Name, p.Soldiers, p.Gold, p.Rice)
	}
	fmt.Fprintf(&b, "\ntotal s%d g%d r%d\n", soldiers, gold, rice)

	if m.orders.Len() > 0 {
		b.WriteString("\n" + titleStyle.Render("ORDERS") + "\n")
		for _, l := range m.orders.Lines() {
			b.WriteString("- " + l + "\n")
		}
	}

	return statusStyle.Width(int(float64(m.width)*0.28)).Height(m.viewport.Height).Render(b.String())
}

// Run plays sess in the terminal until the game ends or the player quits.
func Run(sess *sengoku.Session, opts Options) error {
	p := tea.NewProgram(newModel(sess, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
