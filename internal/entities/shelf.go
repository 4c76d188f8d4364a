package entities

import "time"

// Names of the shelves every account starts with. They are protected.
const (
	ShelfWantToRead       = "Want to Read"
	ShelfCurrentlyReading = "Currently Reading"
	ShelfRead             = "Read"
)

// DefaultShelfNames lists the protected shelves in creation order.
var DefaultShelfNames = []string{ShelfWantToRead, ShelfCurrentlyReading, ShelfRead}

type Shelf struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	NameKey   string    `gorm:"index;size:100" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Protected bool      `gorm:"default:false" json:"protected"`
	Status    Status    `gorm:"index;default:1" json:"status"`
	BookIDs   []uint    `gorm:"-" json:"books"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Shelf) TableName() string {
	return "shelves"
}

// ShelfBook is one membership row. The composite key makes membership a set.
type ShelfBook struct {
	ShelfID   uint      `gorm:"primaryKey;autoIncrement:false"`
	BookID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	Position  int       `gorm:"not null"`
	CreatedAt time.Time
}

func (ShelfBook) TableName() string {
	return "shelf_books"
}
