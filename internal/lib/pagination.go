package lib

// Defaults applied when a request omits pagination parameters.
const (
	DefaultPage  = 0
	DefaultLimit = 10
)

// NormalizePage returns the effective page, limit and row offset for a feed
// request. Page is zero-based and the offset is page*limit. No upper bound is
// enforced on limit; oversized requests are a documented capacity risk, not a
// validation error.
func NormalizePage(page, limit int) (int, int, int) {
	if page < 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return page, limit, page * limit
}
