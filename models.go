package jwtauth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account record credentials resolve to.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         uuid.UUID      `bun:"id,pk,notnull,type:uuid" json:"id"`
	Username   string         `bun:"username,notnull,unique" json:"username"`
	Email      string         `bun:"email" json:"email"`
	IsStaff    bool           `bun:"is_staff" json:"is_staff"`
	Attributes map[string]any `bun:"attributes,type:jsonb" json:"attributes,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// GetAttribute returns a named profile attribute.
func (u *User) GetAttribute(name string) (any, bool) {
	if u.Attributes == nil {
		return nil, false
	}
	v, ok := u.Attributes[name]
	return v, ok
}

// SetAttribute stores a named profile attribute.
func (u *User) SetAttribute(name string, value any) {
	if u.Attributes == nil {
		u.Attributes = map[string]any{}
	}
	u.Attributes[name] = value
}
