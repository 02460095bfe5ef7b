package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 1000
	DefaultFrom     = 0
)

// Page is an offset/limit window over a listing. The public API exposes it as
// `from` (number of elements to skip) and `size` (page length).
type Page struct {
	From int
	Size int
}

// Clamp normalizes out-of-range values to the defaults.
func (p Page) Clamp() Page {
	if p.From < 0 {
		p.From = DefaultFrom
	}
	if p.Size <= 0 || p.Size > MaxPageSize {
		p.Size = DefaultPageSize
	}
	return p
}

// Offset returns the SQL offset for the window.
func (p Page) Offset() uint64 {
	return uint64(p.From)
}

// Limit returns the SQL limit for the window.
func (p Page) Limit() uint64 {
	return uint64(p.Size)
}

// ParsePageParams extracts the from/size pagination parameters from the request,
// falling back to defaults on missing or malformed values.
func ParsePageParams(c *gin.Context) Page {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		from = DefaultFrom
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		size = DefaultPageSize
	}
	return Page{From: from, Size: size}.Clamp()
}
