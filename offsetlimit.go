package pg

import (
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// OffsetLimit is embedded in list requests to page through results.
// A nil Limit returns all rows from the offset.
type OffsetLimit struct {
	Offset uint64  `json:"offset,omitempty"`
	Limit  *uint64 `json:"limit,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Bind sets the offsetlimit bind variable, clamping the limit to max
// when max is non-zero.
func (r *OffsetLimit) Bind(bind *Bind, max uint64) {
	var parts []string
	if r.Limit != nil {
		limit := *r.Limit
		if max > 0 {
			limit = min(limit, max)
		}
		r.Limit = &limit
		parts = append(parts, "LIMIT "+bind.Set("limit", limit))
	}
	if r.Offset > 0 {
		parts = append(parts, "OFFSET "+bind.Set("offset", r.Offset))
	}
	bind.Set("offsetlimit", strings.Join(parts, " "))
}
