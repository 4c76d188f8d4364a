package entities

import "time"

// CatalogKind selects one of the two name-keyed catalog collections.
type CatalogKind string

const (
	KindAuthor CatalogKind = "author"
	KindGenre  CatalogKind = "genre"
)

// Table returns the table backing the kind.
func (k CatalogKind) Table() string {
	switch k {
	case KindAuthor:
		return "authors"
	case KindGenre:
		return "genres"
	}
	return ""
}

func (k CatalogKind) Valid() bool {
	return k.Table() != ""
}

func (k CatalogKind) String() string {
	return string(k)
}

// CatalogEntry holds the columns shared by authors and genres.
// Name is the canonical (title-cased) form; NameKey is the case-folded,
// whitespace-normalized form used for matching and carries the unique index.
type CatalogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:160;not null" json:"name"`
	NameKey   string    `gorm:"uniqueIndex;size:160;not null" json:"-"`
	Status    Status    `gorm:"index;default:1" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Author struct {
	CatalogEntry
}

type Genre struct {
	CatalogEntry
}

func (Author) TableName() string {
	return "authors"
}

func (Genre) TableName() string {
	return "genres"
}
