package types

import (
  "github.com/google/uuid"
)

type Account struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  Email         *string     `gorm:"uniqueIndex" json:"email,omitempty"`
  Password      *string     `gorm:"column:password" json:"-"`
  SocialID      *string     `gorm:"uniqueIndex;column:social_id" json:"-"`
  Name          string      `gorm:"column:name" json:"name"`
  Nickname      *string     `gorm:"uniqueIndex" json:"nickname,omitempty"`
  ProfileImage  string      `gorm:"column:profile_image" json:"profile_image"`
  Timestamps
}

func (Account) TableName() string {
  return "account"
}
