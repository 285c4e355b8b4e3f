package types

import (
  "time"
  "github.com/google/uuid"
)

// UserQset tracks one account's traversal of one Qset. Cursor is a
// 0-based index into the Qset prompt list; IsDone flips exactly when
// the cursor reaches the prompt count, at which point EndAt is stamped.
type UserQset struct {
  ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  AccountID   uuid.UUID   `gorm:"not null;index:idx_user_qset_pair,unique" json:"account_id"`
  Account     *Account    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"-"`
  QsetID      uuid.UUID   `gorm:"not null;index:idx_user_qset_pair,unique" json:"qset_id"`
  Qset        *Qset       `gorm:"foreignKey:QsetID;references:ID" json:"qset,omitempty"`
  Cursor      int         `gorm:"not null;default:0" json:"cursor"`
  IsDone      bool        `gorm:"not null;default:false" json:"is_done"`
  StartAt     time.Time   `gorm:"not null;index" json:"start_at"`
  EndAt       *time.Time  `json:"end_at,omitempty"`
  Timestamps
}

func (UserQset) TableName() string {
  return "user_qset"
}

// CurrentPrompt returns the prompt under the cursor, or false when the
// traversal is finished.
func (uq *UserQset) CurrentPrompt() (string, bool) {
  if uq.Qset == nil || uq.Cursor < 0 || uq.Cursor >= len(uq.Qset.Prompts) {
    return "", false
  }
  return uq.Qset.Prompts[uq.Cursor], true
}
