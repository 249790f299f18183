package ledger

// PageSize is the fixed number of incoming transactions per page.
const PageSize = 10

// Page is one slice of the incoming view. TotalPages always reflects
// the full filtered set even when the requested page is out of range.
type Page struct {
	Transactions []Transaction `json:"transactions"`
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
}

// PaginateIncoming slices the incoming view into a fixed-size page.
// Pages are 1-based. A page past the end yields an empty slice, not an
// error; callers guard the page number against TotalPages themselves.
func PaginateIncoming(incoming []Transaction, page int) Page {
	totalPages := (len(incoming) + PageSize - 1) / PageSize

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	items := []Transaction{}
	if offset < len(incoming) {
		end := min(offset+PageSize, len(incoming))
		items = incoming[offset:end]
	}

	return Page{
		Transactions: items,
		Page:         page,
		TotalPages:   totalPages,
	}
}
