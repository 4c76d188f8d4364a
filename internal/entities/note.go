package entities

import "time"

type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	TitleKey  string    `gorm:"index;size:255" json:"-"`
	Body      string    `gorm:"type:text" json:"body,omitempty"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	BookID    uint      `gorm:"index;not null" json:"book_id"`
	IsPublic  bool      `gorm:"index;default:false" json:"is_public"`
	Status    Status    `gorm:"index;default:1" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Note) TableName() string {
	return "notes"
}

type NoteComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	NoteID    uint      `gorm:"index;not null" json:"note_id"`
	Status    Status    `gorm:"index;default:1" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NoteComment) TableName() string {
	return "note_comments"
}

// NoteDetails is a note together with its comments.
type NoteDetails struct {
	Note
	Comments []NoteComment `json:"comments"`
}
