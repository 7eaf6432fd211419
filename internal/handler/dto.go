package handler

import (
	"github.com/shopspring/decimal"

	"github.com/msomdec/usercrud/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Salary float64 `json:"salary"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:     u.ID,
		Name:   u.Name,
		Age:    u.Age,
		Salary: u.Salary.InexactFloat64(),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// toDomain converts a request body into a domain user. The id is kept so
// callers can decide to ignore it.
func (d UserDTO) toDomain() *domain.User {
	return &domain.User{
		ID:     d.ID,
		Name:   d.Name,
		Age:    d.Age,
		Salary: decimal.NewFromFloat(d.Salary),
	}
}
