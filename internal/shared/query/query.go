// Package query provides list filtering, sorting and pagination helpers
// shared by the repository adapters.
package query

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultPageNumber is used when the client omits pageNumber or sends a value below 1.
	DefaultPageNumber = 1
	// DefaultPageSize is used when the client omits pageSize or sends a value below 1.
	DefaultPageSize = 20
)

// StockQuery carries the filters accepted by GET /api/stock.
type StockQuery struct {
	CompanyName  string
	Symbol       string
	SortBy       string
	IsDescending bool
	PageNumber   int
	PageSize     int
}

// Normalize clamps paging values to valid ranges.
// PageSize has no upper bound.
func (q StockQuery) Normalize() StockQuery {
	if q.PageNumber < 1 {
		q.PageNumber = DefaultPageNumber
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	// 空白のみのフィルタは未指定として扱い、それ以外は前後の空白も含めてそのまま照合する
	q.CompanyName = blankToEmpty(q.CompanyName)
	q.Symbol = blankToEmpty(q.Symbol)
	q.SortBy = strings.TrimSpace(q.SortBy)
	return q
}

func blankToEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// Offset returns the number of rows skipped for the requested page.
// A product that would overflow int is clamped to math.MaxInt, which yields an empty page.
func (q StockQuery) Offset() int {
	q = q.Normalize()
	if q.PageNumber-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.PageNumber - 1) * q.PageSize
}

// Paginate applies OFFSET/LIMIT for page (1-based) of size rows.
func Paginate(page, size int) func(*gorm.DB) *gorm.DB {
	q := StockQuery{PageNumber: page, PageSize: size}.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(q.Offset()).Limit(q.PageSize)
	}
}

// Contains filters rows whose column contains substr, case-sensitively.
// An empty substr leaves the query unchanged.
func Contains(column, substr string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if substr == "" {
			return db
		}
		switch db.Dialector.Name() {
		case "postgres":
			return db.Where("strpos("+column+", ?) > 0", substr)
		case "sqlite":
			return db.Where("instr("+column+", ?) > 0", substr)
		default:
			return db.Where(column+" LIKE ? ESCAPE '\\'", "%"+escapeLike(substr)+"%")
		}
	}
}

// OrderBy sorts by the allowed column matching key (case-insensitive).
// Unknown keys are ignored. id is always appended as a tiebreaker so pages are stable.
func OrderBy(key string, desc bool, allowed map[string]string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if col, ok := lookupColumn(key, allowed); ok {
			if desc {
				db = db.Order(col + " DESC")
			} else {
				db = db.Order(col + " ASC")
			}
		}
		return db.Order("id ASC")
	}
}

func lookupColumn(key string, allowed map[string]string) (string, bool) {
	if key == "" {
		return "", false
	}
	for k, col := range allowed {
		if strings.EqualFold(k, key) {
			return col, true
		}
	}
	return "", false
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
