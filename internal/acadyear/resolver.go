// Package acadyear holds the shared filter state that scopes every
// record fetch: the selected school-year range and the semester open
// within it.
package acadyear

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/upstream"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
)

type yearSource interface {
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	ActiveAcademicYear(ctx context.Context) (*upstream.ActiveYear, error)
}

// Scope is the resolved filter state panels embed in their fetches.
type Scope struct {
	StartYear    int             `json:"start_year"`
	EndYear      int             `json:"end_year"`
	SelectedYear int             `json:"selected_year"`
	Semester     models.Semester `json:"semester"`
}

// Query renders the scope as upstream query parameters.
func (s Scope) Query() url.Values {
	q := url.Values{}
	q.Set("start_year", strconv.Itoa(s.StartYear))
	q.Set("end_year", strconv.Itoa(s.EndYear))
	q.Set("active_year", strconv.Itoa(s.SelectedYear))
	return q
}

// Label renders the range the way the portal header shows it.
func (s Scope) Label() string {
	return fmt.Sprintf("%d - %d", s.StartYear, s.EndYear)
}

// SemesterOption is one entry of the semester selector.
type SemesterOption struct {
	Semester models.Semester `json:"semester"`
	Year     int             `json:"year"`
	Label    string          `json:"label"`
}

// Resolver owns the academic-year filter state for one client
// session. Changing either selector bumps the generation counter;
// panels watch it to reset pagination and force a scoped re-fetch.
type Resolver struct {
	source yearSource
	logger *zap.Logger

	mu         sync.Mutex
	years      []models.AcademicYear
	scope      Scope
	generation uint64
	loaded     bool
}

// NewResolver constructs a resolver over the upstream year endpoints.
func NewResolver(source yearSource, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{source: source, logger: logger}
}

// Load fetches the active range plus the full year list and derives
// the initial scope. When the active_year field is absent or outside
// the range, the scope defaults to the range's start year (first
// semester); the upstream contract never promises the field.
func (r *Resolver) Load(ctx context.Context) error {
	years, err := r.source.ListAcademicYears(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "failed to fetch academic years")
	}

	active, err := r.source.ActiveAcademicYear(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "failed to fetch active academic year")
	}

	scope := Scope{StartYear: active.StartYear, EndYear: active.EndYear}
	switch active.ActiveYear {
	case active.StartYear, active.EndYear:
		scope.SelectedYear = active.ActiveYear
	default:
		if active.ActiveYear != 0 {
			r.logger.Warn("ambiguous active year, defaulting to range start",
				zap.Int("active_year", active.ActiveYear),
				zap.Int("start_year", active.StartYear))
		}
		scope.SelectedYear = active.StartYear
	}
	if scope.SelectedYear == scope.EndYear {
		scope.Semester = models.SemesterSecond
	} else {
		scope.Semester = models.SemesterFirst
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.years = years
	r.scope = scope
	r.loaded = true
	r.generation++
	return nil
}

// Years returns the fetched year list.
func (r *Resolver) Years() []models.AcademicYear {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AcademicYear, len(r.years))
	copy(out, r.years)
	return out
}

// Current returns the resolved scope.
func (r *Resolver) Current() Scope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scope
}

// Generation returns the scope-change counter.
func (r *Resolver) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// SemesterOptions derives the semester selector entries for the
// currently selected range.
func (r *Resolver) SemesterOptions() []SemesterOption {
	r.mu.Lock()
	defer r.mu.Unlock()
	return []SemesterOption{
		{Semester: models.SemesterFirst, Year: r.scope.StartYear, Label: models.SemesterFirst.String()},
		{Semester: models.SemesterSecond, Year: r.scope.EndYear, Label: models.SemesterSecond.String()},
	}
}

// SelectRange switches the school-year range. The semester selection
// resets to the range's start year, and the generation counter bumps
// so panels re-scope and reset to page 1.
func (r *Resolver) SelectRange(startYear, endYear int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		return appErrors.Clone(appErrors.ErrConflict, "academic years not loaded")
	}
	found := false
	for _, y := range r.years {
		if y.StartYear == startYear && y.EndYear == endYear {
			found = true
			break
		}
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "unknown school-year range")
	}

	r.scope = Scope{
		StartYear:    startYear,
		EndYear:      endYear,
		SelectedYear: startYear,
		Semester:     models.SemesterFirst,
	}
	r.generation++
	return nil
}

// SelectSemester switches the open semester within the current range.
func (r *Resolver) SelectSemester(sem models.Semester) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		return appErrors.Clone(appErrors.ErrConflict, "academic years not loaded")
	}
	switch sem {
	case models.SemesterFirst:
		r.scope.SelectedYear = r.scope.StartYear
	case models.SemesterSecond:
		r.scope.SelectedYear = r.scope.EndYear
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown semester")
	}
	r.scope.Semester = sem
	r.generation++
	return nil
}
