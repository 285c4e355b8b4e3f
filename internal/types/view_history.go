package types

import (
  "github.com/google/uuid"
)

type ViewHistory struct {
  ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  QuestionID  uuid.UUID   `gorm:"not null;index:idx_view_history_pair,unique" json:"question_id"`
  Question    *Question   `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"-"`
  AccountID   uuid.UUID   `gorm:"not null;index:idx_view_history_pair,unique" json:"account_id"`
  Account     *Account    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"-"`
  Timestamps
}

func (ViewHistory) TableName() string {
  return "view_history"
}
