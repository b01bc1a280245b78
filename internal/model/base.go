package model

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// SystemUserID is the audit user recorded when no authenticated user is in
// context. Startup seeding replaces it with the id of the SYSTEM user.
var SystemUserID uint = 1

type actorKey struct{}

// WithActor stores the authenticated user id in ctx for audit columns.
func WithActor(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom returns the user id stored by WithActor, or SystemUserID.
func ActorFrom(ctx context.Context) uint {
	if ctx != nil {
		if id, ok := ctx.Value(actorKey{}).(uint); ok && id != 0 {
			return id
		}
	}
	return SystemUserID
}

// BaseModel handles the auto-increment ID and standard audit trail
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit User Tracking
	CreatedBy *uint `gorm:"index" json:"created_by"`
	UpdatedBy *uint `json:"updated_by"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
	Sequence int  `gorm:"not null;default:0" json:"sequence"`
}

func (base *BaseModel) GetID() uint {
	return base.ID
}

// Inactive reports whether the row is flagged inactive.
func (base *BaseModel) Inactive() bool {
	return !base.IsActive
}

// Owner returns the id of the user that created the row.
func (base *BaseModel) Owner() uint {
	if base.CreatedBy == nil {
		return 0
	}
	return *base.CreatedBy
}

// BeforeCreate fills the audit columns from the context user
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	actor := ActorFrom(tx.Statement.Context)
	if base.CreatedBy == nil {
		base.CreatedBy = &actor
	}
	if base.UpdatedBy == nil {
		base.UpdatedBy = &actor
	}
	return nil
}

// BeforeUpdate records the context user as the last editor
func (base *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	actor := ActorFrom(tx.Statement.Context)
	tx.Statement.SetColumn("UpdatedBy", &actor)
	return nil
}
