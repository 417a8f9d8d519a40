package types

import (
	"github.com/google/uuid"

	"github.com/pageza/soyummy/backend/internal/models"
)

type UserResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserDetailsResponse includes Favorites only when users view themselves.
type UserDetailsResponse struct {
	UserResponse
	Recipes   int64  `json:"recipes"`
	Favorites *int64 `json:"favorites,omitempty"`
}

type TestimonialResponse struct {
	Username    string `json:"username"`
	Testimonial string `json:"testimonial"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}
