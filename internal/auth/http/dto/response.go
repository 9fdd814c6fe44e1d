package dto

import (
	"time"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
)

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken        string `json:"accessToken"`
	RefreshToken       string `json:"refreshToken"`
	AccessExpiresInMs  int64  `json:"accessExpiresInMs"`
	RefreshExpiresInMs int64  `json:"refreshExpiresInMs"`
}

// ProfileResponse describes the current user.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageResponse carries a plain status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// MapLoginOutputToResponse converts a login result into its response body.
func MapLoginOutputToResponse(output *authDomain.LoginOutput) LoginResponse {
	return LoginResponse{
		AccessToken:        output.AccessToken,
		RefreshToken:       output.RefreshToken,
		AccessExpiresInMs:  output.AccessExpiresInMs,
		RefreshExpiresInMs: output.RefreshExpiresInMs,
	}
}

// MapProfileToResponse converts a profile into its response body.
func MapProfileToResponse(profile *authDomain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        profile.ID.String(),
		Username:  profile.Username,
		Email:     profile.Email,
		Role:      profile.Role,
		CreatedAt: profile.CreatedAt,
	}
}
