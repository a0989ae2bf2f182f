package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role of a user in the system.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserDB represents a user document in the users collection.
type UserDB struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`                       // Unique email
	Username       string             `bson:"username" json:"username"`                 // Unique username
	FullName       string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	HashedPassword string             `bson:"hashed_password" json:"-"`                 // Never exposed
	Disabled       bool               `bson:"disabled" json:"disabled"`
	IsSuperuser    bool               `bson:"is_superuser" json:"is_superuser"`
	Role           Role               `bson:"role" json:"role"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserCreate is the registration payload.
// swagger:model UserCreate
type UserCreate struct {
	// Email
	// required: true
	// default: user@example.com
	Email string `json:"email" validate:"required,email"`

	// Username
	// required: true
	// default: johndoe
	Username string `json:"username" validate:"required,min=3,max=50"`

	// Password
	// required: true
	// default: strongpassword123
	Password string `json:"password" validate:"required,min=8,max=100"`

	// Full name
	// default: John Doe
	FullName string `json:"full_name" validate:"omitempty,max=100"`

	// Role, "user" unless stated otherwise
	Role Role `json:"role" validate:"omitempty,oneof=user admin"`
}

// UserUpdate is a partial update payload: only non-nil fields are applied.
// swagger:model UserUpdate
type UserUpdate struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password" validate:"omitempty,min=8,max=100"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

// Empty reports whether the partial update carries no fields at all.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Username == nil && u.Password == nil &&
		u.FullName == nil && u.Role == nil
}

// UserResponse is the outward view of a user. It structurally excludes the
// password hash.
// swagger:model UserResponse
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name,omitempty"`
	Role        Role      `json:"role"`
	Disabled    bool      `json:"disabled"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUserResponse converts a stored user into its outward view.
func NewUserResponse(u *UserDB) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID.Hex(),
		Email:       u.Email,
		Username:    u.Username,
		FullName:    u.FullName,
		Role:        u.Role,
		Disabled:    u.Disabled,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
