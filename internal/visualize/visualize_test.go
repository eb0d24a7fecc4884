package visualize_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgjackson/audioid/internal/label"
	"github.com/danielgjackson/audioid/internal/pipeline"
	"github.com/danielgjackson/audioid/internal/recognize"
	"github.com/danielgjackson/audioid/internal/visualize"
)

func TestShouldEmitFullModeAlwaysTrue(t *testing.T) {
	assert.True(t, visualize.ShouldEmit(false, 3, true, false))
}

func TestShouldEmitReducedModeOnlyAtCyclePhaseZero(t *testing.T) {
	assert.False(t, visualize.ShouldEmit(true, 1, false, false))
	assert.True(t, visualize.ShouldEmit(true, 0, false, false))
}

func TestShouldEmitReducedModeRequiresLabelledRegionWhenLabelFileLoaded(t *testing.T) {
	assert.False(t, visualize.ShouldEmit(true, 0, true, false))
	assert.True(t, visualize.ShouldEmit(true, 0, true, true))
}

func TestModelUpdateAccumulatesHistoryAndEvents(t *testing.T) {
	table := label.NewTable(4)
	id, err := table.GetOrCreate("bark")
	require.NoError(t, err)

	m := visualize.New(table, false)

	updated, _ := m.Update(visualize.TickMsg{
		Tick: pipeline.Tick{
			Time:  1.5,
			Match: recognize.Match{Label: id, Distance: 0.25},
			Events: []recognize.Event{
				{Time: 1.5, Kind: recognize.Hear, Group: id},
			},
		},
		Magnitude: []float64{0.1, 0.4, 0.9, 0.2},
	})

	view := updated.View()
	assert.Contains(t, view, "bark")
	assert.NotEmpty(t, view)
}

func TestModelQuitsOnQ(t *testing.T) {
	m := visualize.New(label.NewTable(4), true)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}
