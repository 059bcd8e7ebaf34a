package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/logsift/internal/filter"
)

func TestJoinKeywords(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{" disk "}, "disk"},
		{[]string{"disk", "", "usb || sda"}, "(disk) && (usb || sda)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, joinKeywords(tc.in), "joinKeywords(%q)", tc.in)
	}
}

func TestFilterModal_RoundTripsCriteria(t *testing.T) {
	since := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	in := filter.Criteria{
		Levels:   []string{"ERROR", "WARNING"},
		Daemons:  []string{"kernel"},
		Keywords: []string{"disk"},
		Since:    since,
	}
	fm := newFilterModal("Filters", in, time.UTC)

	got, err := fm.criteria()
	require.NoError(t, err)
	assert.Equal(t, []string{"ERROR", "WARNING"}, got.Levels)
	assert.Equal(t, []string{"kernel"}, got.Daemons)
	assert.Equal(t, []string{"disk"}, got.Keywords)
	assert.True(t, got.Since.Equal(since), "Since = %v, want %v", got.Since, since)
	assert.True(t, got.Until.IsZero())
}

func TestFilterModal_RejectsInvertedRange(t *testing.T) {
	fm := newFilterModal("Filters", filter.Criteria{}, time.UTC)
	fm.inputs[fieldSince].SetValue("2024-01-05 12:00:00")
	fm.inputs[fieldUntil].SetValue("2024-01-05 10:00:00")
	_, err := fm.criteria()
	assert.Error(t, err, "criteria accepted until before since")
}

func TestParseBound(t *testing.T) {
	got, err := parseBound("since", "  ")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = parseBound("since", "2024-01-05T10:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)), "parseBound = %v", got)

	_, err = parseBound("until", "tomorrow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "until")
}
