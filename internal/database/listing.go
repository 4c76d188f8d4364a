package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/policy"
)

// ListColumns names the columns a list query filters and sorts on.
type ListColumns struct {
	// Search is the column matched by substring search.
	Search string
	// SearchIsKey marks Search as holding catalog.MatchKey output, so the
	// search term is folded the same way before matching.
	SearchIsKey bool
	// Name is the column used by the name sorts.
	Name string
}

// ListScope applies a shaped policy.ListQuery: status filter (active only by
// default), case-insensitive substring search, sort order and limit/skip.
func ListScope(q policy.ListQuery, cols ListColumns) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Status != nil {
			db = db.Where("status = ?", *q.Status)
		} else {
			db = db.Where("status > 0")
		}

		if q.Search != "" && cols.Search != "" {
			term := strings.ToLower(q.Search)
			if cols.SearchIsKey {
				term = catalog.MatchKey(q.Search)
			}
			db = db.Where("LOWER("+cols.Search+") LIKE ? ESCAPE '\\'", "%"+escapeLike(term)+"%")
		}

		db = db.Order(orderClause(q.Sort, cols.Name))

		if q.Limit > 0 {
			db = db.Limit(q.Limit)
		}
		if q.Skip > 0 {
			db = db.Offset(q.Skip)
		}
		return db
	}
}

func orderClause(sort policy.SortKey, nameColumn string) string {
	if nameColumn == "" {
		nameColumn = "id"
	}
	switch sort {
	case policy.SortOldest:
		return "created_at ASC, id ASC"
	case policy.SortName:
		return nameColumn + " COLLATE NOCASE ASC, id ASC"
	case policy.SortNameDesc:
		return nameColumn + " COLLATE NOCASE DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
