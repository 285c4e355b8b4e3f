package types

import (
  "github.com/google/uuid"
)

type Chatroom struct {
  ID                      uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  OwnerID                 uuid.UUID   `gorm:"not null;index:idx_chatroom_pair_title,unique" json:"owner_id"`
  Owner                   *Account    `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
  TargetAccountID         uuid.UUID   `gorm:"not null;index:idx_chatroom_pair_title,unique" json:"target_account_id"`
  TargetAccount           *Account    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TargetAccountID;references:ID" json:"target_account,omitempty"`
  Title                   string      `gorm:"not null;index:idx_chatroom_pair_title,unique" json:"title"`
  LastMessage             string      `gorm:"column:last_message" json:"last_message"`
  OwnerUnreadCount        int         `gorm:"not null;default:0" json:"owner_unread_count"`
  TargetUnreadCount       int         `gorm:"not null;default:0" json:"target_unread_count"`
  Timestamps
}

func (Chatroom) TableName() string {
  return "chatroom"
}

// HasParty reports whether the given account is one side of the room.
func (cr *Chatroom) HasParty(accountID uuid.UUID) bool {
  return cr.OwnerID == accountID || cr.TargetAccountID == accountID
}
