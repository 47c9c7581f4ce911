package models

// LedgerEntry is a single credit or debit line on an event's expense
// ledger.
type LedgerEntry struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	RecordedAt  string  `json:"recorded_at"`
}

// Event is an organization event with its expense ledger.
type Event struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	OrgID   int           `json:"org_id"`
	OrgName string        `json:"org_name"`
	Date    string        `json:"date"`
	Venue   string        `json:"venue"`
	Status  string        `json:"status"`
	Credits []LedgerEntry `json:"credits"`
	Debits  []LedgerEntry `json:"debits"`
}

// Balance sums credits minus debits.
func (e Event) Balance() float64 {
	var total float64
	for _, c := range e.Credits {
		total += c.Amount
	}
	for _, d := range e.Debits {
		total -= d.Amount
	}
	return total
}

// FeeStatus marks whether a member has settled an organization fee.
type FeeStatus string

const (
	FeeStatusPaid   FeeStatus = "paid"
	FeeStatusUnpaid FeeStatus = "unpaid"
)

// Fee is an organization fee owed by or charged to a member.
type Fee struct {
	ID       int       `json:"id"`
	OrgID    int       `json:"org_id"`
	OrgName  string    `json:"org_name"`
	Name     string    `json:"name"`
	Amount   float64   `json:"amount"`
	Semester string    `json:"semester"`
	DueDate  string    `json:"due_date"`
	Status   FeeStatus `json:"status"`
}

// Payment is one settled fee in a member's payment history.
type Payment struct {
	ID        int     `json:"id"`
	FeeID     int     `json:"fee_id"`
	FeeName   string  `json:"fee_name"`
	OrgName   string  `json:"org_name"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
	PaidAt    string  `json:"paid_at"`
}

// Notification is a per-user notification row.
type Notification struct {
	ID        int    `json:"id"`
	Message   string `json:"message"`
	Category  string `json:"category"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// Announcement is a portal-wide announcement.
type Announcement struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Audience string `json:"audience"`
	PostedBy string `json:"posted_by"`
	PostedAt string `json:"posted_at"`
}

// Profile is the display data the legacy client kept in localStorage
// after login; the gateway keeps it in Redis instead.
type Profile struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	FirstName      string `json:"first_name"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture"`
	IDNumber       string `json:"id_number"`
	Department     string `json:"department"`
}
