// Package pagination provides utilities for handling paginated requests and responses
// in the Model Context Protocol.
package pagination

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mcpkit/go-mcp/pkg/protocol"
)

const (
	// DefaultLimit is the page size a list handler applies when the caller
	// didn't specify one.
	DefaultLimit = 50

	// MaxLimit is the largest page size a list handler will honor; a larger
	// requested limit is rejected by ValidateParams.
	MaxLimit = 200
)

var (
	// ErrInvalidLimit is returned when the pagination limit is out of range.
	ErrInvalidLimit = errors.New("pagination limit must be non-negative and at most MaxLimit")

	// ErrInvalidCursor is returned when a pagination cursor can't be decoded
	// back into an offset by Window.
	ErrInvalidCursor = errors.New("invalid pagination cursor format")
)

// ValidateParams validates the parts of a pagination request a server can
// check without knowing the collection it pages over: the limit must be
// non-negative and within MaxLimit. The cursor is opaque to the caller (it
// is minted by Window below) and is not otherwise interpreted here.
func ValidateParams(params *protocol.PaginationParams) error {
	if params == nil {
		return nil
	}
	if params.Limit < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, params.Limit)
	}
	if params.Limit > MaxLimit {
		return fmt.Errorf("%w: got %d, max is %d", ErrInvalidLimit, params.Limit, MaxLimit)
	}
	return nil
}

// ApplyDefaults returns a copy of params with Limit defaulted to
// DefaultLimit (and capped at MaxLimit) when unset or out of range.
func ApplyDefaults(params *protocol.PaginationParams) *protocol.PaginationParams {
	if params == nil {
		return &protocol.PaginationParams{Limit: DefaultLimit}
	}
	result := &protocol.PaginationParams{Cursor: params.Cursor, Limit: params.Limit}
	if result.Limit <= 0 {
		result.Limit = DefaultLimit
	}
	if result.Limit > MaxLimit {
		result.Limit = MaxLimit
	}
	return result
}

// Window computes the [start, end) slice bounds a list handler should
// return for a collection of the given size, along with the cursor the
// response should carry for the next page (empty once exhausted). The
// cursor is this package's own encoding of the start offset, round-tripped
// through a client via PaginationResult.NextCursor / PaginationParams.Cursor
// — a cursor that doesn't decode to an offset (forged or corrupted) is
// reported as ErrInvalidCursor.
func Window(total int, params *protocol.PaginationParams) (start, end int, nextCursor string, err error) {
	p := ApplyDefaults(params)

	if p.Cursor != "" {
		start, err = decodeCursor(p.Cursor)
		if err != nil {
			return 0, 0, "", err
		}
	}
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}

	end = start + p.Limit
	if end > total {
		end = total
	}
	if end < total {
		nextCursor = encodeCursor(end)
	}
	return start, end, nextCursor, nil
}

func decodeCursor(cursor string) (int, error) {
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	return n, nil
}

func encodeCursor(offset int) string {
	return strconv.Itoa(offset)
}

// HasNextPage reports whether a list result carries a cursor for the next page.
func HasNextPage(result *protocol.PaginationResult) bool {
	if result == nil {
		return false
	}
	return result.NextCursor != ""
}

// Collector accumulates the cursor state across successive list calls so a
// caller can walk an entire collection without hand-tracking cursors itself.
type Collector struct {
	// NextCursor holds the pagination cursor for the next page, empty when exhausted.
	NextCursor string
	// TotalItems is the number of items collected so far across all pages.
	TotalItems int
}

// NewCollector creates a new pagination collector starting at the first page.
func NewCollector() *Collector {
	return &Collector{}
}

// Update records a page's result and the count of items it carried.
func (c *Collector) Update(result *protocol.PaginationResult, itemCount int) {
	if result == nil {
		c.NextCursor = ""
		return
	}
	c.NextCursor = result.NextCursor
	c.TotalItems += itemCount
}

// Done reports whether the collector has exhausted all pages.
func (c *Collector) Done() bool {
	return c.NextCursor == ""
}

// NextParams returns pagination parameters for the next page.
func (c *Collector) NextParams() *protocol.PaginationParams {
	return &protocol.PaginationParams{Cursor: c.NextCursor}
}
