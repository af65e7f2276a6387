package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// frameMsg is one host frame; its time is the frame timestamp
type frameMsg time.Time

func nextFrame(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// gameModel is the interactive host. Frames, keys and mouse events all arrive
// through Update on the program's event loop, so the controller keeps a
// single owner.
type gameModel struct {
	session *gameSession
	// gridTop is the screen line the grid starts on, set by View
	gridTop int
	done    bool
	err     error
}

func newGameModel(session *gameSession) *gameModel {
	session.renderer.Cursor = &session.cursor
	return &gameModel{session: session}
}

// Init implements tea.Model.
func (m *gameModel) Init() tea.Cmd {
	return nextFrame(m.session.config.FrameRate)
}

// Update implements tea.Model.
func (m *gameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		_, done, err := m.session.frame(time.Time(msg))
		return m, m.afterGeneration(done, err, nextFrame(m.session.config.FrameRate))

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.session.ctrl.Stop()
			return m, tea.Quit
		}
		if !m.session.handleKey(msg.String()) {
			return m, nil
		}
		_, done, err := m.session.observe()
		return m, m.afterGeneration(done, err, nil)

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *gameModel) afterGeneration(done bool, err error, next tea.Cmd) tea.Cmd {
	switch {
	case err != nil:
		m.err = err
		return tea.Quit
	case done:
		m.done = true
		return tea.Quit
	default:
		return next
	}
}

// handleMouse maps a pointer position to a cell: a press toggles it and a
// drag paints every cell it crosses
func (m *gameModel) handleMouse(msg tea.MouseMsg) {
	row := msg.Y - m.gridTop
	col := msg.X / max(m.session.config.CellSize, 1)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.session.pointerDown(row, col)
		}
	case tea.MouseActionMotion:
		m.session.pointerMove(row, col)
	case tea.MouseActionRelease:
		m.session.pointerUp()
	}
}

// View implements tea.Model.
func (m *gameModel) View() string {
	s := m.session

	var b strings.Builder
	displayGameStatus(&b, s.view, s.ctrl.State(), s.status, s.totalGenerations)
	m.gridTop = strings.Count(b.String(), "\n")

	if err := renderBoard(&b, s.renderer, s.config, s.view); err != nil {
		fmt.Fprintln(&b, err)
	}

	paint := "off"
	if s.painting {
		paint = "on"
	}
	fmt.Fprintf(&b, "\nSpeed: %s | Cursor: %d,%d | Paint: %s | %s\n",
		s.ctrl.Speed(), s.cursor.Row, s.cursor.Col, paint, s.message)
	b.WriteString(keyHelp)
	return b.String()
}

// runInteractive plays the session in a full-screen terminal program until
// the user quits, the context ends or the generation limit is reached
func runInteractive(ctx context.Context, session *gameSession, out io.Writer) error {
	m := newGameModel(session)
	session.ctrl.Start()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	session.ctrl.Stop()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "[runInteractive] terminal program failed")
	}
	if m.err != nil {
		return m.err
	}

	if m.done {
		fmt.Fprintf(out, "🏁 Reached maximum generations limit (%d)\n", session.config.MaxGenerations)
	}
	printFinalStats(out, session.view, session.totalGenerations)
	return nil
}
