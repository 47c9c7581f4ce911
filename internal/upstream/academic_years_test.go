package upstream

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateAcademicYearFormBody(t *testing.T) {
	var gotPath, gotBody string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Write([]byte(`{"success":true,"message":"activated"}`))
	})

	require.NoError(t, client.ActivateAcademicYear(context.Background(), 2))
	assert.Equal(t, "/activate-academic-year.php", gotPath)
	assert.Equal(t, "id=2", gotBody)
}

func TestActivateAcademicYearRejection(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"year is already active"}`))
	})

	err := client.ActivateAcademicYear(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "year is already active")
}

func TestListAcademicYearsEnvelope(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"years":[
            {"id":1,"start_year":2024,"end_year":2025,"active_year":2024,"status":"Active"},
            {"id":2,"start_year":2023,"end_year":2024,"active_year":2023,"status":"Unlisted"}
        ]}`))
	})

	years, err := client.ListAcademicYears(context.Background())
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, 2024, years[0].StartYear)
	assert.True(t, years[0].IsActive())
	assert.False(t, years[1].IsActive())
}
