package auth

import "github.com/kanishk44/social-media/internal/model"

type RegisterRequest struct {
	Email    string `json:"email"`
	Handle   string `json:"handle"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	EmailOrHandle string `json:"emailOrHandle"`
	Password      string `json:"password"`
}

type AuthResponse struct {
	User        model.Account `json:"user"`
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType"`
	ExpiresIn   int64         `json:"expiresIn"`
}
