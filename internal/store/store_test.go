package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anindilla/fix-my-form/internal/analysis"
	"github.com/anindilla/fix-my-form/internal/scoring"
	"github.com/anindilla/fix-my-form/internal/standards"
)

func sampleReport(score int) *analysis.Report {
	return &analysis.Report{
		Exercise:            standards.BackSquat,
		OverallScore:        score,
		Strengths:           []string{"Excellent depth: 90.0°"},
		AreasForImprovement: []string{"Continue practicing to improve form"},
		SpecificCues:        []string{"Focus on maintaining proper technique throughout the movement"},
		ExerciseBreakdown:   map[string]scoring.MetricScore{},
	}
}

func testReportStore(t *testing.T, s ReportStore) {
	t.Helper()

	// Missing ID.
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("nope"), ErrNotFound)

	// Round trip.
	require.NoError(t, s.Put("a", sampleReport(82)))
	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, standards.BackSquat, got.Exercise)
	assert.Equal(t, 82, got.OverallScore)
	assert.Equal(t, []string{"Excellent depth: 90.0°"}, got.Strengths)

	// Put on an existing ID replaces.
	require.NoError(t, s.Put("a", sampleReport(60)))
	got, err = s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 60, got.OverallScore)

	// List contains every stored ID exactly once.
	require.NoError(t, s.Put("b", sampleReport(95)))
	ids, err := s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	// Delete removes only the named report.
	require.NoError(t, s.Delete("a"))
	_, err = s.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("b")
	assert.NoError(t, err)
}

func TestMemoryStore(t *testing.T) {
	testReportStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	defer s.Close()

	testReportStore(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("persist", sampleReport(77)))
	require.NoError(t, s.Close())

	// Reports survive process restarts.
	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get("persist")
	require.NoError(t, err)
	assert.Equal(t, 77, got.OverallScore)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, s.Put(id, sampleReport(70)))
	}

	ids, err := s.List()
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, "third", ids[0])
	assert.Equal(t, "first", ids[2])
}
