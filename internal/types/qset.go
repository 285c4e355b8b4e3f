package types

import (
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// Qset is an immutable ordered list of prompts, seeded at boot and
// read-only afterwards. Position fixes the assignment order.
type Qset struct {
  ID        uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
  Name      string                        `gorm:"uniqueIndex;not null" json:"name"`
  Position  int                           `gorm:"uniqueIndex;not null" json:"position"`
  Prompts   datatypes.JSONSlice[string]   `gorm:"not null" json:"prompts"`
  Timestamps
}

func (Qset) TableName() string {
  return "qset"
}
