package model

import (
	"time"

	"github.com/google/uuid"
)

// OperationLog is an append-only audit row.
type OperationLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ActorID   *uuid.UUID `json:"actorId,omitempty" db:"actor_id"`
	Category  string     `json:"category" db:"category"`
	Action    string     `json:"action" db:"action"`
	TargetID  string     `json:"targetId,omitempty" db:"target_id"`
	Detail    string     `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// DeviceToken registers a push-notification token for a user. Re-registering
// the same token moves it to the new owner.
type DeviceToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	Platform  string    `json:"platform" db:"platform"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
