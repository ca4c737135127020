package pagination

// Query carries the common page/limit/search parameters used by list
// endpoints.
type Query struct {
	Page   int
	Limit  int
	Search string
}

// Normalize applies the default page size and clamps out-of-range values.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	return q
}

// Offset returns the SQL offset for the normalized query.
func (q Query) Offset() int {
	n := q.Normalize()
	return (n.Page - 1) * n.Limit
}

// Pagination is the envelope returned alongside every paginated list.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	Limit       int `json:"limit"`
}

func New(page, limit, total int) Pagination {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       limit,
	}
}
