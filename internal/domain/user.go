package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                     uuid.UUID  `json:"id" db:"id"`
	Email                  string     `json:"email" db:"email"`
	PasswordHash           string     `json:"-" db:"password_hash"`
	FullName               string     `json:"full_name" db:"full_name"`
	AvatarURL              *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	RegistrationNumber     *string    `json:"registration_number,omitempty" db:"registration_number"`
	Phone                  *string    `json:"phone,omitempty" db:"phone"`
	RoomNumber             *string    `json:"room_number,omitempty" db:"room_number"`
	EmailNotifications     bool       `json:"email_notifications" db:"email_notifications"`
	InAppNotifications     bool       `json:"in_app_notifications" db:"in_app_notifications"`
	IsActive               bool       `json:"is_active" db:"is_active"`
	PasswordResetToken     *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpiresAt *time.Time `json:"-" db:"password_reset_expires_at"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
}

// DisplayName is the full name, or the local part of the email when the
// user never set one.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Name:      u.DisplayName(),
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

// UserSummary is the public slice of a profile embedded in other payloads.
type UserSummary struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email,omitempty" db:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"avatar_url"`
}

type CreateUserInput struct {
	Email              string  `json:"email"`
	Password           string  `json:"password"`
	FullName           string  `json:"full_name"`
	RegistrationNumber *string `json:"registration_number,omitempty"`
	Phone              *string `json:"phone,omitempty"`
}

func (in *CreateUserInput) Validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return NewValidationError("email", "Email is invalid")
	}
	if len(in.Password) < 8 {
		return NewValidationError("password", "Password must be at least 8 characters")
	}
	if len([]rune(in.FullName)) < 2 {
		return NewValidationError("full_name", "Full name must be at least 2 characters")
	}
	return nil
}

type UpdateProfileInput struct {
	FullName           *string        `json:"full_name,omitempty"`
	AvatarURL          NullableString `json:"avatar_url"`
	RegistrationNumber NullableString `json:"registration_number"`
	Phone              NullableString `json:"phone"`
	RoomNumber         NullableString `json:"room_number"`
	EmailNotifications *bool          `json:"email_notifications,omitempty"`
	InAppNotifications *bool          `json:"in_app_notifications,omitempty"`
}

// Apply copies the set fields of in onto u.
func (in *UpdateProfileInput) Apply(u *User) error {
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if len([]rune(name)) < 2 {
			return NewValidationError("full_name", "Full name must be at least 2 characters")
		}
		u.FullName = name
	}
	if in.AvatarURL.Set {
		u.AvatarURL = in.AvatarURL.Value
	}
	if in.RegistrationNumber.Set {
		u.RegistrationNumber = in.RegistrationNumber.Value
	}
	if in.Phone.Set {
		u.Phone = in.Phone.Value
	}
	if in.RoomNumber.Set {
		u.RoomNumber = in.RoomNumber.Value
	}
	if in.EmailNotifications != nil {
		u.EmailNotifications = *in.EmailNotifications
	}
	if in.InAppNotifications != nil {
		u.InAppNotifications = *in.InAppNotifications
	}
	return nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordInput struct {
	Email string `json:"email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Session struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	UserAgent    *string   `json:"user_agent,omitempty" db:"user_agent"`
	IPAddress    *string   `json:"ip_address,omitempty" db:"ip_address"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
