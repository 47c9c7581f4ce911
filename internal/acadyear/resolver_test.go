package acadyear

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/upstream"
)

type fakeYearSource struct {
	years  []models.AcademicYear
	active *upstream.ActiveYear
	err    error
}

func (f *fakeYearSource) ListAcademicYears(context.Context) ([]models.AcademicYear, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.years, nil
}

func (f *fakeYearSource) ActiveAcademicYear(context.Context) (*upstream.ActiveYear, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.active, nil
}

func defaultSource() *fakeYearSource {
	return &fakeYearSource{
		years: []models.AcademicYear{
			{ID: 1, StartYear: 2024, EndYear: 2025, ActiveYear: 2024, Status: models.YearStatusActive},
			{ID: 2, StartYear: 2023, EndYear: 2024, Status: models.YearStatusUnlisted},
		},
		active: &upstream.ActiveYear{StartYear: 2024, EndYear: 2025, ActiveYear: 2024},
	}
}

func TestLoadResolvesScope(t *testing.T) {
	r := NewResolver(defaultSource(), nil)
	require.NoError(t, r.Load(context.Background()))

	scope := r.Current()
	assert.Equal(t, 2024, scope.StartYear)
	assert.Equal(t, 2025, scope.EndYear)
	assert.Equal(t, 2024, scope.SelectedYear)
	assert.Equal(t, models.SemesterFirst, scope.Semester)
	assert.Equal(t, "2024 - 2025", scope.Label())
}

func TestLoadSecondSemester(t *testing.T) {
	source := defaultSource()
	source.active.ActiveYear = 2025
	r := NewResolver(source, nil)
	require.NoError(t, r.Load(context.Background()))

	scope := r.Current()
	assert.Equal(t, 2025, scope.SelectedYear)
	assert.Equal(t, models.SemesterSecond, scope.Semester)
}

func TestLoadAmbiguousActiveYearDefaultsToStart(t *testing.T) {
	source := defaultSource()
	source.active.ActiveYear = 0 // field missing upstream
	r := NewResolver(source, nil)
	require.NoError(t, r.Load(context.Background()))

	assert.Equal(t, 2024, r.Current().SelectedYear)

	source.active.ActiveYear = 1999 // outside the range
	require.NoError(t, r.Load(context.Background()))
	assert.Equal(t, 2024, r.Current().SelectedYear)
}

func TestSelectRangeResetsSemesterAndBumpsGeneration(t *testing.T) {
	r := NewResolver(defaultSource(), nil)
	require.NoError(t, r.Load(context.Background()))
	gen := r.Generation()

	require.NoError(t, r.SelectSemester(models.SemesterSecond))
	require.Equal(t, 2025, r.Current().SelectedYear)

	require.NoError(t, r.SelectRange(2023, 2024))
	scope := r.Current()
	assert.Equal(t, 2023, scope.StartYear)
	assert.Equal(t, 2023, scope.SelectedYear, "selection resets to the new range's start year")
	assert.Equal(t, models.SemesterFirst, scope.Semester)
	assert.Greater(t, r.Generation(), gen)
}

func TestSelectRangeUnknownRange(t *testing.T) {
	r := NewResolver(defaultSource(), nil)
	require.NoError(t, r.Load(context.Background()))

	err := r.SelectRange(2010, 2011)
	require.Error(t, err)
}

func TestScopeQueryParameters(t *testing.T) {
	r := NewResolver(defaultSource(), nil)
	require.NoError(t, r.Load(context.Background()))

	q := r.Current().Query()
	assert.Equal(t, "2024", q.Get("start_year"))
	assert.Equal(t, "2025", q.Get("end_year"))
	assert.Equal(t, "2024", q.Get("active_year"))

	require.NoError(t, r.SelectRange(2023, 2024))
	q = r.Current().Query()
	assert.Equal(t, "2023", q.Get("start_year"))
	assert.Equal(t, "2024", q.Get("end_year"))
}

func TestSemesterOptionsFollowRange(t *testing.T) {
	r := NewResolver(defaultSource(), nil)
	require.NoError(t, r.Load(context.Background()))

	opts := r.SemesterOptions()
	require.Len(t, opts, 2)
	assert.Equal(t, 2024, opts[0].Year)
	assert.Equal(t, 2025, opts[1].Year)
}
