// Package render turns fetched record sets into HTML fragments. All
// interpolated text passes through html/template escaping, and each
// rendered row carries its record identifier as a data attribute so
// the browser-side shell can dispatch actions against it.
package render

import (
	"bytes"
	"fmt"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

type yearRow struct {
	ID        int
	StartYear int
	EndYear   int
	Semester  string
	Status    models.YearStatus
	Active    bool
	CreatedAt string
}

// AcademicYears renders the admin academic-year table plus the
// active-year header card. The active row drops its Activate button.
func AcademicYears(header string, years []models.AcademicYear, p *models.Pagination) (string, error) {
	rows := make([]yearRow, 0, len(years))
	for _, y := range years {
		rows = append(rows, yearRow{
			ID:        y.ID,
			StartYear: y.StartYear,
			EndYear:   y.EndYear,
			Semester:  y.SemesterFor(y.ActiveYear).String(),
			Status:    y.Status,
			Active:    y.IsActive(),
			CreatedAt: y.CreatedAt,
		})
	}
	return execute("academic_years", map[string]interface{}{
		"Header":     header,
		"Years":      rows,
		"Pagination": p,
	})
}

type fileRow struct {
	ID          int
	DocType     string
	DocGroup    models.DocGroup
	Status      models.DocStatus
	Reason      string
	Enabled     bool
	Replaceable bool
}

type orgView struct {
	ID      int
	Name    string
	Adviser string
	Status  models.OrgStatus
	Files   []fileRow
}

// Accreditation renders organizations either as cards with their full
// document checklists or as a compact table, per the view mode.
// Affordances follow the document status: approved and declined
// documents render with review controls disabled, declined ones
// additionally offer replacement.
func Accreditation(orgs []models.Organization, mode string, p *models.Pagination) (string, error) {
	views := make([]orgView, 0, len(orgs))
	for _, org := range orgs {
		view := orgView{ID: org.ID, Name: org.Name, Adviser: org.Adviser, Status: org.Status}
		for _, f := range org.Files {
			status := models.NormalizeDocStatus(string(f.Status))
			view.Files = append(view.Files, fileRow{
				ID:          f.ID,
				DocType:     f.DocType,
				DocGroup:    f.DocGroup,
				Status:      status,
				Reason:      f.Reason,
				Enabled:     status.ActionsEnabled(),
				Replaceable: status.CanReplace(),
			})
		}
		views = append(views, view)
	}
	if mode != ModeTable {
		mode = ModeCards
	}
	return execute("accreditation", map[string]interface{}{
		"Orgs":       views,
		"Mode":       mode,
		"Pagination": p,
	})
}

// Events renders event cards with their credit/debit ledgers.
func Events(events []models.Event, p *models.Pagination) (string, error) {
	return execute("events", map[string]interface{}{
		"Events":     events,
		"Pagination": p,
	})
}

// UnpaidBanner summarizes outstanding fees for the alert above the
// fee table. A nil banner renders no alert.
type UnpaidBanner struct {
	Count int
	Total float64
}

// Fees renders the member's fee table plus payment history.
func Fees(fees []models.Fee, payments []models.Payment, unpaid *UnpaidBanner, p *models.Pagination) (string, error) {
	return execute("fees", map[string]interface{}{
		"Fees":       fees,
		"Payments":   payments,
		"Unpaid":     unpaid,
		"Pagination": p,
	})
}

// Notifications renders the notification list; unread entries carry a
// mark-read affordance.
func Notifications(list []models.Notification) (string, error) {
	return execute("notifications", map[string]interface{}{
		"Notifications": list,
	})
}

// Announcements renders announcement cards.
func Announcements(list []models.Announcement, p *models.Pagination) (string, error) {
	return execute("announcements", map[string]interface{}{
		"Announcements": list,
		"Pagination":    p,
	})
}

func execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
