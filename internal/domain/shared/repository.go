package shared

// Filter holds common listing options applied by repositories
type Filter struct {
	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string // asc or desc
	Search   string
}

// DefaultFilter returns a filter with sane listing defaults
func DefaultFilter() Filter {
	return Filter{
		Limit:    20,
		Offset:   0,
		OrderDir: "asc",
	}
}

// Page computes limit/offset from 1-based page numbers
func Page(page, pageSize int) Filter {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return Filter{
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
		OrderDir: "asc",
	}
}
