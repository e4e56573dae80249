package model

import (
	"time"

	"github.com/google/uuid"
)

// StoredFile is a generic uploaded file owned by one profile. Size is
// recorded at upload time.
type StoredFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner     *Profile  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	Path      string    `gorm:"type:text;not null" json:"path"`
	Size      int64     `gorm:"default:0" json:"size"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
