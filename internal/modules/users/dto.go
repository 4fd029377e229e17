package users

import "blogauth/internal/domain"

type ChangeUsernameRequest struct {
	NewUsername string `json:"new_username" binding:"required"`
}

type UserResponse struct {
	ID          int64    `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name,omitempty"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	IsSuspended bool     `json:"is_suspended"`
	Roles       []string `json:"roles,omitempty"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Username:    u.Username,
		Email:       u.Email,
		IsSuspended: u.IsSuspended,
		Roles:       u.Roles,
	}
}
