package render

import (
	"sync"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

// View modes.
const (
	ModeTable = "table"
	ModeCards = "cards"
)

// ViewState is the per-panel pagination and presentation state. The
// page resets to 1 whenever the filtered set changes identity, which
// callers signal through Rescope.
type ViewState struct {
	mu        sync.Mutex
	page      int
	perPage   int
	mode      string
	signature string
}

// NewViewState builds a view state with the given page size.
func NewViewState(perPage int) *ViewState {
	if perPage <= 0 {
		perPage = 10
	}
	return &ViewState{page: 1, perPage: perPage, mode: ModeTable}
}

// Page returns the current page (1-based).
func (v *ViewState) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// SetPage moves to the requested page; values below 1 clamp to 1.
func (v *ViewState) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 {
		page = 1
	}
	v.page = page
}

// Mode returns the presentation mode.
func (v *ViewState) Mode() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// SetMode switches between table and card presentation.
func (v *ViewState) SetMode(mode string) {
	if mode != ModeTable && mode != ModeCards {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = mode
}

// Rescope records the identity of the filtered set (e.g. the
// academic-year scope serialization). When it differs from the last
// recorded identity the page resets to 1.
func (v *ViewState) Rescope(signature string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.signature != signature {
		v.signature = signature
		v.page = 1
	}
}

// Paginate computes pagination for total records and returns the
// bounds of the current page.
func (v *ViewState) Paginate(total int) (*models.Pagination, int, int) {
	v.mu.Lock()
	page, perPage := v.page, v.perPage
	v.mu.Unlock()

	p := models.NewPagination(page, perPage, total)
	from, to := p.Bounds()
	return p, from, to
}
