package policy

// BookFilter narrows a book listing. AuthorID matches books referencing that
// author; GenreIDs matches books referencing any of the genres.
type BookFilter struct {
	ListQuery
	AuthorID uint
	GenreIDs []uint
}

// NoteFilter narrows a note listing. With Public set the scope is every
// public note; otherwise it is the notes owned by UserID.
type NoteFilter struct {
	ListQuery
	Public bool
	UserID uint
	BookID uint
}
