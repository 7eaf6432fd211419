package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// User is the single resource exposed by the API.
type User struct {
	ID     int64
	Name   string
	Age    int
	Salary decimal.Decimal
}

// UserRepository defines persistence operations for users.
//
// FindByID returns ErrNotFound when no row matches. Save inserts when
// user.ID is zero and assigns the new id; otherwise it updates the row
// with that id.
type UserRepository interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, user *User) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}
