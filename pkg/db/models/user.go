package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the subset of the platform account this subsystem reads. Account
// management lives in the wider platform; orders and payouts only reference
// user identities.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	FullName  string    `gorm:"column:full_name;not null"`
	Role      string    `gorm:"column:role;not null;default:'member'"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
