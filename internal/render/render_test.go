package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

func TestAcademicYearsActiveRowHasNoActivateButton(t *testing.T) {
	years := []models.AcademicYear{
		{ID: 1, StartYear: 2024, EndYear: 2025, ActiveYear: 2024, Status: models.YearStatusActive},
		{ID: 2, StartYear: 2023, EndYear: 2024, Status: models.YearStatusUnlisted},
	}

	html, err := AcademicYears("2024 - 2025", years, models.NewPagination(1, 10, len(years)))
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(html, "<tr data-id="), "one row per year")
	assert.Contains(t, html, "2024 - 2025")
	assert.Contains(t, html, `<span class="badge bg-success">Active</span>`)
	assert.Contains(t, html, `data-action="activate-year" data-id="2"`)
	assert.NotContains(t, html, `data-action="activate-year" data-id="1"`, "active year offers no Activate")
}

func TestAcademicYearsEscapesInterpolatedText(t *testing.T) {
	years := []models.AcademicYear{
		{ID: 3, StartYear: 2022, EndYear: 2023, Status: models.YearStatusUnlisted, CreatedAt: `<script>alert(1)</script>`},
	}

	html, err := AcademicYears("<script>alert(1)</script>", years, nil)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestAccreditationAffordancesFollowStatus(t *testing.T) {
	orgs := []models.Organization{{
		ID:      10,
		Name:    "Robotics Club",
		Adviser: "Dr. Cruz",
		Status:  models.OrgStatusInReview,
		Files: []models.OrgFile{
			{ID: 101, DocType: "Constitution", Status: models.DocStatusSubmitted},
			{ID: 102, DocType: "Officer List", Status: models.DocStatusApproved},
			{ID: 103, DocType: "Adviser Form", Status: models.DocStatusDeclined, Reason: "blurry scan"},
		},
	}}

	html, err := Accreditation(orgs, ModeCards, nil)
	require.NoError(t, err)

	// Submitted document: enabled controls, no replace.
	assert.Contains(t, html, `data-action="approve-file" data-id="101">`)
	assert.NotContains(t, html, `data-action="approve-file" data-id="101" disabled`)
	assert.NotContains(t, html, `data-action="replace-file" data-id="101"`)

	// Approved document: controls disabled.
	assert.Contains(t, html, `data-action="approve-file" data-id="102" disabled`)

	// Declined document: controls disabled but replace offered.
	assert.Contains(t, html, `data-action="approve-file" data-id="103" disabled`)
	assert.Contains(t, html, `data-action="replace-file" data-id="103"`)
	assert.Contains(t, html, "blurry scan")
}

func TestAccreditationTableModeDropsChecklists(t *testing.T) {
	orgs := []models.Organization{{
		ID:      10,
		Name:    "Robotics Club",
		Adviser: "Dr. Cruz",
		Status:  models.OrgStatusInReview,
		Files: []models.OrgFile{
			{ID: 101, DocType: "Constitution", Status: models.DocStatusSubmitted},
		},
	}}

	html, err := Accreditation(orgs, ModeTable, nil)
	require.NoError(t, err)

	assert.Contains(t, html, `data-view="table"`)
	assert.Contains(t, html, "Robotics Club")
	assert.NotContains(t, html, "data-action=", "the compact table carries no review controls")
}

func TestEventsLedgerBalance(t *testing.T) {
	events := []models.Event{{
		ID:      5,
		Name:    "Acquaintance Party",
		OrgName: "Student Council",
		Date:    "2024-09-01",
		Credits: []models.LedgerEntry{{ID: 1, Description: "Org fund", Amount: 5000}},
		Debits:  []models.LedgerEntry{{ID: 2, Description: "Venue", Amount: 3500.50}},
	}}

	html, err := Events(events, nil)
	require.NoError(t, err)

	assert.Contains(t, html, "Acquaintance Party")
	assert.Contains(t, html, "5000.00")
	assert.Contains(t, html, "3500.50")
	assert.Contains(t, html, "Balance: 1499.50")
}

func TestFeesStatusBadges(t *testing.T) {
	fees := []models.Fee{
		{ID: 1, OrgName: "Glee Club", Name: "Membership", Amount: 150, Status: models.FeeStatusPaid},
		{ID: 2, OrgName: "Glee Club", Name: "Shirt", Amount: 250, Status: models.FeeStatusUnpaid},
	}
	payments := []models.Payment{
		{ID: 9, FeeName: "Membership", OrgName: "Glee Club", Amount: 150, Method: "cash", Reference: "OR-123", PaidAt: "2024-08-01"},
	}

	html, err := Fees(fees, payments, &UnpaidBanner{Count: 1, Total: 250}, nil)
	require.NoError(t, err)

	assert.Contains(t, html, `<span class="badge bg-success">Paid</span>`)
	assert.Contains(t, html, `<span class="badge bg-danger">Unpaid</span>`)
	assert.Contains(t, html, "OR-123")
	assert.Contains(t, html, "1 unpaid fee totaling")
}

func TestNotificationsUnreadAffordance(t *testing.T) {
	list := []models.Notification{
		{ID: 1, Message: "Fee due soon", Read: false},
		{ID: 2, Message: "Event approved", Read: true},
	}

	html, err := Notifications(list)
	require.NoError(t, err)

	assert.Contains(t, html, `data-action="mark-read" data-id="1"`)
	assert.NotContains(t, html, `data-action="mark-read" data-id="2"`)
}

func TestEmptyStates(t *testing.T) {
	html, err := AcademicYears("", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, html, "No academic years found.")

	html, err = Announcements(nil, nil)
	require.NoError(t, err)
	assert.Contains(t, html, "No announcements.")
}

func TestViewStateRescopeResetsPage(t *testing.T) {
	view := NewViewState(10)
	view.Rescope("2024-2025")
	view.SetPage(3)

	// Same scope: page sticks.
	view.Rescope("2024-2025")
	assert.Equal(t, 3, view.Page())

	// New scope: back to page 1.
	view.Rescope("2023-2024")
	assert.Equal(t, 1, view.Page())
}

func TestViewStatePaginate(t *testing.T) {
	view := NewViewState(10)
	view.SetPage(2)

	p, from, to := view.Paginate(25)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 10, from)
	assert.Equal(t, 20, to)

	// Page beyond the end clamps.
	view.SetPage(9)
	p, from, to = view.Paginate(25)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, from)
	assert.Equal(t, 25, to)
}
