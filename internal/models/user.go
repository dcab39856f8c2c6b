package models

import (
	"time"
)

type UserRole string

const (
	RoleTeacher     UserRole = "teacher"
	RoleCoordinator UserRole = "coordinator"
	RoleAdmin       UserRole = "admin"
)

// User is a staff member authenticated through the external identity
// provider. The service never stores credentials; the record mirrors what the
// provider asserts about the session.
type User struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`

	AvatarURL *string `json:"avatar_url,omitempty"`

	EmailVerified bool `json:"email_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName is the identity stamped on outgoing submissions: the full name
// when the provider has one, the email otherwise.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
