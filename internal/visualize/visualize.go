// Package visualize renders the recognizer's live state to a terminal,
// redesigning original_source/src/audioid.c's DebugVisualizeValues (two
// process-wide static buffers pairing up half-height unicode block rows)
// into a stateful github.com/charmbracelet/bubbletea Model, styled with
// github.com/charmbracelet/lipgloss (spec.md §9 flags the static-buffer
// approach as a testability hazard; SPEC_FULL.md §6.1 redesigns it).
//
// Neither bubbletea nor lipgloss appear as exercised source anywhere in
// the retrieval pack (only as dependency-manifest entries), so Model's
// shape follows the libraries' own documented Elm-architecture
// conventions (Init/Update/View) rather than a pack file.
package visualize

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/danielgjackson/audioid/internal/label"
	"github.com/danielgjackson/audioid/internal/pipeline"
)

// historyLimit bounds how many past bucket rows the scrolling spectrogram
// view keeps, so the view stays boxed in a terminal-sized row budget
// rather than growing with the input duration.
const historyLimit = 24

// TickMsg carries one processed window into the visualizer, sent to the
// running tea.Program via Program.Send.
type TickMsg struct {
	Tick      pipeline.Tick
	Magnitude []float64
}

// ShouldEmit reports whether a produced window qualifies for display
// under reduced mode (SPEC_FULL.md §6.1: only at cycle phase 0, and only
// over non-silence labelled regions when a label file is loaded). Full
// mode (reduced == false) always emits.
func ShouldEmit(reduced bool, cyclePhase int, hasLabelFile, inLabelledRegion bool) bool {
	if !reduced {
		return true
	}
	if cyclePhase != 0 {
		return false
	}
	if hasLabelFile && !inLabelledRegion {
		return false
	}
	return true
}

// Model is the bubbletea program state: a scrolling bucket-magnitude
// history, the current nearest-template match, and a trailing log of
// recognizer events.
type Model struct {
	table   *label.Table
	reduced bool

	history [][]float64
	current label.ID
	distance float64
	time     float64
	events   []string

	width, height int
	quitting      bool
}

// New constructs a Model over table. reduced only affects the header
// text ("reduced" vs "full"); gating which ticks reach the model at all
// is the caller's responsibility via ShouldEmit.
func New(table *label.Table, reduced bool) Model {
	return Model{
		table:   table,
		reduced: reduced,
		current: label.NoID,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case TickMsg:
		m.history = append(m.history, msg.Magnitude)
		if len(m.history) > historyLimit {
			m.history = m.history[len(m.history)-historyLimit:]
		}
		m.time = msg.Tick.Time
		m.current = msg.Tick.Match.Label
		m.distance = msg.Tick.Match.Distance
		for _, ev := range msg.Tick.Events {
			m.events = append(m.events, ev.String(m.table))
			if len(m.events) > historyLimit {
				m.events = m.events[len(m.events)-historyLimit:]
			}
		}
		return m, nil
	}
	return m, nil
}

var barGradient = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

// blockLevels are the eighth-step Unicode block elements used to render
// one magnitude sample per terminal cell, the redesign's replacement for
// the original's paired half-height row trick.
var blockLevels = []rune(" ▁▂▃▄▅▆▇█")

func renderRow(row []float64) string {
	if len(row) == 0 {
		return ""
	}
	max := 0.0
	for _, v := range row {
		if v > max {
			max = v
		}
	}
	var b strings.Builder
	for _, v := range row {
		idx := 0
		if max > 0 {
			idx = int(v / max * float64(len(blockLevels)-1))
			if idx >= len(blockLevels) {
				idx = len(blockLevels) - 1
			}
		}
		b.WriteRune(blockLevels[idx])
	}
	return barGradient.Render(b.String())
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	mode := "full"
	if m.reduced {
		mode = "reduced"
	}

	labelText := "?"
	if l := m.table.Get(m.current); l != nil {
		labelText = l.Text
	}

	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("audioid visualize:%s  t=%.3f  nearest=%s  d=%.4f", mode, m.time, labelText, m.distance),
	)

	var spectrogram strings.Builder
	for _, row := range m.history {
		spectrogram.WriteString(renderRow(row))
		spectrogram.WriteByte('\n')
	}

	eventsHeader := lipgloss.NewStyle().Faint(true).Render("recent events:")
	events := strings.Join(m.events, "\n")

	return lipgloss.JoinVertical(lipgloss.Left, header, spectrogram.String(), eventsHeader, events)
}
