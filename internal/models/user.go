package models

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Email     string  `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Username  *string `gorm:"type:varchar(50);uniqueIndex" json:"username"`
	FirstName string  `gorm:"type:varchar(150)" json:"first_name"`
	LastName  string  `gorm:"type:varchar(150)" json:"last_name"`
	Bio       string  `gorm:"type:varchar(20)" json:"bio"`
	Role      Role    `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	// Argon2id hash of the outstanding confirmation code, nil once consumed.
	ConfirmationCodeHash *string    `gorm:"type:varchar(255)" json:"-"`
	ConfirmedAt          *time.Time `json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// IsConfirmed reports whether the user has exchanged a confirmation code at least once.
func (u *User) IsConfirmed() bool {
	return u.ConfirmedAt != nil
}

// DisplayName is the username, falling back to the email for accounts without one.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return u.Email
}
