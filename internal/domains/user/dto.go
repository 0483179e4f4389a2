package user

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// CreateUserRequest - POST /v1/users
type CreateUserRequest struct {
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Length(1, 150),
			validation.Match(usernamePattern).Error("username may contain only letters, digits and @/./+/-/_"),
		),
		validation.Field(&r.FirstName,
			validation.Required.Error("first name is required"),
			validation.Length(1, 150),
		),
		validation.Field(&r.LastName,
			validation.Required.Error("last name is required"),
			validation.Length(1, 150),
		),
	)
}

// ResolveUsername returns the explicit username or "first.last" lowercased
func (r CreateUserRequest) ResolveUsername() string {
	if r.Username != "" {
		return r.Username
	}
	return strings.ToLower(r.FirstName + "." + r.LastName)
}

// ToEntity converts the request into a User entity
func (r CreateUserRequest) ToEntity() *User {
	return &User{
		Username:    r.ResolveUsername(),
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		IsStaff:     r.IsStaff,
		IsSuperuser: r.IsSuperuser,
	}
}

// UserResponse - public user information
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

// IsValidUsername reports whether s can be stored as a username
func IsValidUsername(s string) bool {
	return len(s) > 0 && len(s) <= 150 && usernamePattern.MatchString(s)
}
