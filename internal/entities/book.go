package entities

import "time"

// Book references its authors and genres by id only. The id lists keep input
// order and may repeat an id when two input names resolved to the same entry.
type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	TitleKey    string     `gorm:"index;size:255;not null" json:"-"`
	AuthorIDs   []uint     `gorm:"serializer:json" json:"author_ids"`
	GenreIDs    []uint     `gorm:"serializer:json" json:"genre_ids"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Cover       string     `gorm:"size:2048" json:"cover,omitempty"`
	Pages       *int       `json:"pages,omitempty"`
	PublishedOn *time.Time `json:"published_on,omitempty"`
	ISBN        []string   `gorm:"serializer:json" json:"isbn"`
	Status      Status     `gorm:"index;default:1" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// BookDetails is a book with its author and genre references materialized.
type BookDetails struct {
	Book
	Authors []CatalogEntry `json:"authors"`
	Genres  []CatalogEntry `json:"genres"`
}

// CatalogEntryDetails is an author or genre together with the active books referencing it.
type CatalogEntryDetails struct {
	CatalogEntry
	Kind  CatalogKind `json:"kind"`
	Books []Book      `json:"books"`
}
