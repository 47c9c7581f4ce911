package models

import "strings"

// DocStatus is the review state of an uploaded accreditation document.
// All role variants of the review screens share this one definition;
// the legacy client rebuilt it per role with drifting normalization.
type DocStatus string

const (
	DocStatusPending   DocStatus = "pending"
	DocStatusSubmitted DocStatus = "submitted"
	DocStatusReviewed  DocStatus = "reviewed"
	DocStatusApproved  DocStatus = "approved"
	DocStatusDeclined  DocStatus = "declined"
)

// NormalizeDocStatus folds the spellings observed across the legacy
// payloads ("Approved", "for review", "For Review", empty) into the
// canonical set. Unknown values fall back to pending.
func NormalizeDocStatus(raw string) DocStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "submitted", "uploaded":
		return DocStatusSubmitted
	case "reviewed", "for review", "in review", "review":
		return DocStatusReviewed
	case "approved":
		return DocStatusApproved
	case "declined", "rejected":
		return DocStatusDeclined
	default:
		return DocStatusPending
	}
}

// CanTransition reports whether a reviewer may move a document from
// one status to another. Reviewing never implies approval.
func (s DocStatus) CanTransition(to DocStatus) bool {
	switch s {
	case DocStatusSubmitted:
		return to == DocStatusReviewed || to == DocStatusApproved || to == DocStatusDeclined
	case DocStatusReviewed:
		return to == DocStatusApproved || to == DocStatusDeclined
	case DocStatusDeclined:
		// A declined document can only re-enter the flow via replacement.
		return to == DocStatusSubmitted
	default:
		return false
	}
}

// ActionsEnabled reports whether review controls render enabled for
// a document in this status. Approved and declined documents are
// terminal for the reviewer.
func (s DocStatus) ActionsEnabled() bool {
	return s == DocStatusSubmitted || s == DocStatusPending || s == DocStatusReviewed
}

// CanReplace reports whether the owner may upload a replacement file.
func (s DocStatus) CanReplace() bool {
	return s == DocStatusDeclined
}

// DocGroup classifies a file as belonging to the new-accreditation or
// the reaccreditation checklist.
type DocGroup string

const (
	DocGroupNew     DocGroup = "new"
	DocGroupReaccre DocGroup = "reaccreditation"
)

// OrgFile is one uploaded document in an organization's checklist.
type OrgFile struct {
	ID       int       `json:"id"`
	DocType  string    `json:"doc_type"`
	DocGroup DocGroup  `json:"doc_group"`
	Status   DocStatus `json:"status"`
	Reason   string    `json:"reason"`
	FilePath string    `json:"file_path"`
}

// OrgStatus is the organization-level accreditation state.
type OrgStatus string

const (
	OrgStatusPending    OrgStatus = "pending"
	OrgStatusInReview   OrgStatus = "in_review"
	OrgStatusAccredited OrgStatus = "accredited"
	OrgStatusReturned   OrgStatus = "returned"
)

// Organization is a student org moving through accreditation.
type Organization struct {
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	Adviser string    `json:"adviser"`
	Status  OrgStatus `json:"status"`
	Files   []OrgFile `json:"files"`
}

// DeriveOrgStatus computes the org-level status from its documents.
// Marking documents reviewed keeps the org in review; accreditation
// requires every document approved, and any decline returns the
// application to the organization.
func DeriveOrgStatus(files []OrgFile) OrgStatus {
	if len(files) == 0 {
		return OrgStatusPending
	}
	approved := 0
	anyDeclined := false
	anyProgress := false
	for _, f := range files {
		switch NormalizeDocStatus(string(f.Status)) {
		case DocStatusApproved:
			approved++
		case DocStatusDeclined:
			anyDeclined = true
		case DocStatusReviewed, DocStatusSubmitted:
			anyProgress = true
		}
	}
	switch {
	case anyDeclined:
		return OrgStatusReturned
	case approved == len(files):
		return OrgStatusAccredited
	case anyProgress || approved > 0:
		return OrgStatusInReview
	default:
		return OrgStatusPending
	}
}
