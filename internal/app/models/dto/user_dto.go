package dto

import "github.com/antonkh/eventory/internal/app/models"

// NewUserRequest is the admin user-creation payload
type NewUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=250"`
	Email string `json:"email" binding:"required,email,max=254"`
}

// UserDto is the full user representation
type UserDto struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserShortDto is the embedded user representation used inside events and comments
type UserShortDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ToUserDto maps a user model to its full representation
func ToUserDto(u *models.User) UserDto {
	return UserDto{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ToUserShortDto maps a user model to its short representation
func ToUserShortDto(u *models.User) *UserShortDto {
	if u == nil {
		return nil
	}
	return &UserShortDto{ID: u.ID, Name: u.Name}
}
