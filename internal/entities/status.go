package entities

// Status is the soft-delete flag shared by every listable entity.
// A hard-deleted record has no status: its row is gone.
type Status int

const (
	StatusActive  Status = 1
	StatusTrashed Status = -1
)

func (s Status) IsActive() bool {
	return s > 0
}

func (s Status) IsTrashed() bool {
	return s < 0
}

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}
