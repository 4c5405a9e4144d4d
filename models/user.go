package models

import (
	"time"

	"learn-ease-backend/internal/identity"
)

type User struct {
	ID             identity.ID `bson:"_id,omitempty" json:"id"`
	Firstname      string      `bson:"firstname" json:"firstname"`
	Lastname       string      `bson:"lastname" json:"lastname"`
	Email          string      `bson:"email" json:"email"`
	PasswordHash   string      `bson:"password_hash" json:"-"`
	Age            *int        `bson:"age,omitempty" json:"age,omitempty"`
	UniversityName string      `bson:"university_name,omitempty" json:"university_name,omitempty"`
	CreatedAt      time.Time   `bson:"created_at" json:"created_at"`
}

type SignupRequest struct {
	Firstname      string `json:"firstname" binding:"required,min=1,max=100"`
	Lastname       string `json:"lastname" binding:"required,min=1,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8,max=128"`
	Age            *int   `json:"age" binding:"omitempty,gte=13,lte=120"`
	UniversityName string `json:"university_name" binding:"omitempty,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserInfo  `json:"user"`
}

type UserInfo struct {
	ID        string `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
}

func (u *User) Info() UserInfo {
	return UserInfo{
		ID:        u.ID.Hex(),
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
	}
}
