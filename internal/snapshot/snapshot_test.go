package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureRow struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func TestChangedFirstObservation(t *testing.T) {
	tracker := NewTracker()

	changed, err := tracker.Changed("years", []fixtureRow{{ID: 1, Name: "2024", Status: "Active"}})
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestChangedIdenticalPayloadShortCircuits(t *testing.T) {
	tracker := NewTracker()
	rows := []fixtureRow{
		{ID: 1, Name: "2024", Status: "Active"},
		{ID: 2, Name: "2023", Status: "Unlisted"},
	}

	changed, err := tracker.Changed("years", rows)
	require.NoError(t, err)
	require.True(t, changed)

	// Deep-equal payload built separately must not trigger a render.
	again := []fixtureRow{
		{ID: 1, Name: "2024", Status: "Active"},
		{ID: 2, Name: "2023", Status: "Unlisted"},
	}
	changed, err = tracker.Changed("years", again)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestChangedDetectsFieldDifference(t *testing.T) {
	tracker := NewTracker()

	_, err := tracker.Changed("years", []fixtureRow{{ID: 1, Status: "Unlisted"}})
	require.NoError(t, err)

	changed, err := tracker.Changed("years", []fixtureRow{{ID: 1, Status: "Active"}})
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestKeysAreIndependent(t *testing.T) {
	tracker := NewTracker()

	_, err := tracker.Changed("fees", []fixtureRow{{ID: 1}})
	require.NoError(t, err)

	changed, err := tracker.Changed("events", []fixtureRow{{ID: 1}})
	require.NoError(t, err)
	assert.True(t, changed, "different keys must not share snapshots")
}

func TestResetForcesNextRender(t *testing.T) {
	tracker := NewTracker()
	rows := []fixtureRow{{ID: 7, Status: "paid"}}

	_, err := tracker.Changed("fees", rows)
	require.NoError(t, err)

	tracker.Reset("fees")

	changed, err := tracker.Changed("fees", rows)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestPeek(t *testing.T) {
	tracker := NewTracker()

	_, ok := tracker.Peek("missing")
	assert.False(t, ok)

	_, err := tracker.Changed("years", []fixtureRow{{ID: 1}})
	require.NoError(t, err)

	raw, ok := tracker.Peek("years")
	require.True(t, ok)
	assert.Contains(t, raw, `"id":1`)
}
