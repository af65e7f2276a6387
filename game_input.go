package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-playback/model"
	"github.com/sheikhrachel/go-gol-playback/playback"
	"github.com/sheikhrachel/go-gol-playback/sim"
)

const (
	// speedStepMS is how much one faster/slower key press changes the speed
	speedStepMS = 10
	// resizeStep is how many rows and columns one grow/shrink key press changes
	resizeStep = 5
)

const keyHelp = "p play/pause · n step · r randomize · c clear · +/- speed · [/] size · u rules · arrows move · t toggle · x paint · q quit"

// rulePreset is a named birth/survival pair cycled with the rules key
type rulePreset struct {
	name     string
	birth    string
	survival string
}

var rulePresets = []rulePreset{
	{name: "Conway", birth: "3", survival: "23"},
	{name: "HighLife", birth: "36", survival: "23"},
	{name: "Day & Night", birth: "3678", survival: "34678"},
	{name: "Seeds", birth: "2", survival: ""},
}

// keyBinding ties one or more keys to a controller command
type keyBinding struct {
	keys []string
	name string
	run  func(s *gameSession) (sim.Status, error)
}

var keyBindings = []keyBinding{
	{keys: []string{"p", " ", "space"}, name: "play/pause", run: (*gameSession).togglePlayback},
	{keys: []string{"n", "enter"}, name: "step", run: func(s *gameSession) (sim.Status, error) { return s.ctrl.Step(), nil }},
	{keys: []string{"r"}, name: "randomize", run: (*gameSession).randomize},
	{keys: []string{"c"}, name: "clear", run: (*gameSession).clearGrid},
	{keys: []string{"+", "="}, name: "faster", run: func(s *gameSession) (sim.Status, error) { return s.changeSpeed(-speedStepMS) }},
	{keys: []string{"-", "_"}, name: "slower", run: func(s *gameSession) (sim.Status, error) { return s.changeSpeed(speedStepMS) }},
	{keys: []string{"]"}, name: "grow", run: func(s *gameSession) (sim.Status, error) { return s.resize(resizeStep) }},
	{keys: []string{"["}, name: "shrink", run: func(s *gameSession) (sim.Status, error) { return s.resize(-resizeStep) }},
	{keys: []string{"u"}, name: "rules", run: (*gameSession).nextRules},
	{keys: []string{"up", "k"}, name: "move", run: func(s *gameSession) (sim.Status, error) { return s.moveCursor(-1, 0), nil }},
	{keys: []string{"down", "j"}, name: "move", run: func(s *gameSession) (sim.Status, error) { return s.moveCursor(1, 0), nil }},
	{keys: []string{"left", "h"}, name: "move", run: func(s *gameSession) (sim.Status, error) { return s.moveCursor(0, -1), nil }},
	{keys: []string{"right", "l"}, name: "move", run: func(s *gameSession) (sim.Status, error) { return s.moveCursor(0, 1), nil }},
	{keys: []string{"t"}, name: "toggle", run: func(s *gameSession) (sim.Status, error) { return s.ctrl.ToggleCell(s.cursor.Row, s.cursor.Col), nil }},
	{keys: []string{"x"}, name: "paint", run: (*gameSession).togglePaint},
}

var bindingsByKey = indexBindings(keyBindings)

func indexBindings(bindings []keyBinding) map[string]keyBinding {
	index := make(map[string]keyBinding, len(bindings))
	for _, b := range bindings {
		for _, key := range b.keys {
			index[key] = b
		}
	}
	return index
}

// handleKey runs the command bound to key and reports whether one was bound.
// The outcome is kept in message for the status line.
func (s *gameSession) handleKey(key string) bool {
	b, ok := bindingsByKey[key]
	if !ok {
		return false
	}
	status, err := b.run(s)
	s.message = fmt.Sprintf("%s: %s", b.name, status)
	if err != nil {
		s.message += fmt.Sprintf(" (%v)", errors.Cause(err))
	}
	return true
}

func (s *gameSession) togglePlayback() (sim.Status, error) {
	if s.ctrl.State() == playback.Running {
		return s.ctrl.Stop(), nil
	}
	return s.ctrl.Start(), nil
}

func (s *gameSession) randomize() (sim.Status, error) {
	status, err := s.ctrl.Randomize(s.config.RandomDensity)
	if status == sim.Applied {
		s.resync()
	}
	return status, err
}

func (s *gameSession) clearGrid() (sim.Status, error) {
	status := s.ctrl.ClearGrid()
	s.resync()
	return status, nil
}

func (s *gameSession) changeSpeed(deltaMS int) (sim.Status, error) {
	current := int(s.ctrl.Speed() / time.Millisecond)
	return s.ctrl.SetSpeed(max(current+deltaMS, 1))
}

func (s *gameSession) resize(delta int) (sim.Status, error) {
	status, err := s.ctrl.Resize(s.view.Rows()+delta, s.view.Cols()+delta)
	if status != sim.Applied {
		return status, err
	}
	s.cursor.Row = min(s.cursor.Row, s.view.Rows()-1)
	s.cursor.Col = min(s.cursor.Col, s.view.Cols()-1)
	s.resync()
	return status, nil
}

func (s *gameSession) nextRules() (sim.Status, error) {
	s.preset = (s.preset + 1) % len(rulePresets)
	p := rulePresets[s.preset]
	status := s.ctrl.UpdateRules(p.birth, p.survival)
	s.logger.Debug("rule preset selected", "preset", p.name, "rules", s.view.Rules().String())
	return status, nil
}

// moveCursor moves the edit cursor within the grid, painting the new cell in
// paint mode
func (s *gameSession) moveCursor(dRow, dCol int) sim.Status {
	next := model.Cursor{
		Row: min(max(s.cursor.Row+dRow, 0), s.view.Rows()-1),
		Col: min(max(s.cursor.Col+dCol, 0), s.view.Cols()-1),
	}
	if next == s.cursor {
		return sim.NoOp
	}
	s.cursor = next
	if s.painting {
		s.ctrl.PaintCell(next.Row, next.Col)
	}
	return sim.Applied
}

func (s *gameSession) togglePaint() (sim.Status, error) {
	s.painting = !s.painting
	if s.painting {
		s.ctrl.PaintCell(s.cursor.Row, s.cursor.Col)
	}
	return sim.Applied, nil
}

// pointerDown toggles the cell under the pointer and starts a drag
func (s *gameSession) pointerDown(row, col int) {
	s.dragging = true
	if s.ctrl.ToggleCell(row, col) == sim.Applied {
		s.cursor = model.Cursor{Row: row, Col: col}
	}
}

// pointerMove paints cells while a drag is in progress
func (s *gameSession) pointerMove(row, col int) {
	if !s.dragging {
		return
	}
	s.ctrl.PaintCell(row, col)
}

func (s *gameSession) pointerUp() {
	s.dragging = false
}
