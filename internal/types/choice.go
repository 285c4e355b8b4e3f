package types

import (
  "github.com/google/uuid"
)

// Choice is one account's single answer on a question. The composite
// unique index is the only guard against double-voting.
type Choice struct {
  ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  QuestionID  uuid.UUID   `gorm:"not null;index:idx_choice_pair,unique" json:"question_id"`
  Question    *Question   `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"-"`
  AccountID   uuid.UUID   `gorm:"not null;index:idx_choice_pair,unique" json:"account_id"`
  Account     *Account    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"-"`
  Value       string      `gorm:"not null" json:"value"`
  Timestamps
}

func (Choice) TableName() string {
  return "choice"
}
