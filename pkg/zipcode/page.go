package zipcode

import "strconv"

// Pagination defaults applied when the request carries no usable values.
const (
	DefaultPage    = 1
	DefaultPerPage = 30
)

// PageRequest selects one page of results.
type PageRequest struct {
	Page    int
	PerPage int
}

// ParsePageRequest builds a PageRequest from raw query-string values.
// Missing, unparseable or non-positive values fall back to the defaults;
// validating stricter bounds is the caller's concern.
func ParsePageRequest(page, perPage string) PageRequest {
	req := PageRequest{Page: DefaultPage, PerPage: DefaultPerPage}
	if n, err := strconv.Atoi(page); err == nil && n >= 1 {
		req.Page = n
	}
	if n, err := strconv.Atoi(perPage); err == nil && n >= 1 {
		req.PerPage = n
	}
	return req
}

// Offset returns the number of documents to skip for this page.
func (p PageRequest) Offset() int64 {
	return int64(p.Page-1) * int64(p.PerPage)
}

// PageResult bundles one page of records with the total count of all matches.
// It is constructed fresh per request and not mutated afterwards.
type PageResult struct {
	Items   []Record `json:"items"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
	Total   int64    `json:"total"`
}
