package types

import (
  "time"
)

// Timestamps is embedded by every persisted entity.
type Timestamps struct {
  CreatedAt time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
