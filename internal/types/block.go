package types

import (
  "github.com/google/uuid"
)

type Block struct {
  ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  AccountID        uuid.UUID   `gorm:"not null;index:idx_block_edge,unique" json:"account_id"`
  Account          *Account    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"account,omitempty"`
  TargetAccountID  uuid.UUID   `gorm:"not null;index:idx_block_edge,unique" json:"target_account_id"`
  TargetAccount    *Account    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TargetAccountID;references:ID" json:"target_account,omitempty"`
  Timestamps
}

func (Block) TableName() string {
  return "block"
}
