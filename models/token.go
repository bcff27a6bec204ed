package models

import (
	"time"

	"github.com/google/uuid"
)

// KindBearer is the only persisted token kind: refresh-class bearer tokens.
// Access tokens are short-lived and never stored.
const KindBearer = "BEARER"

// Token is the durable record of an issued refresh token. Expiry is encoded
// in the signed value itself; the Expired column is denormalized and never
// consulted for decisions.
type Token struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Value     string    `gorm:"size:1024;not null;uniqueIndex"`
	Kind      string    `gorm:"size:32;not null;default:BEARER"`
	Revoked   bool      `gorm:"default:false"`
	Expired   bool      `gorm:"default:false"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
}
