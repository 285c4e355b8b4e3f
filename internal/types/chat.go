package types

import (
  "github.com/google/uuid"
)

type Chat struct {
  ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  ChatroomID  uuid.UUID   `gorm:"not null;index" json:"chatroom_id"`
  Chatroom    *Chatroom   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChatroomID;references:ID" json:"-"`
  OwnerID     uuid.UUID   `gorm:"not null;index" json:"owner_id"`
  Owner       *Account    `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
  Message     string      `gorm:"not null" json:"message"`
  Timestamps
}

func (Chat) TableName() string {
  return "chat"
}
