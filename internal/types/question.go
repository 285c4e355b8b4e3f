package types

import (
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type Qtype string

const (
  QtypePersonal Qtype = "personal"
  QtypeOfficial Qtype = "official"
)

const DefaultQuestionBackground = "https://storage.googleapis.com/qfeed-assets/files/background.jpg"

type Question struct {
  ID               uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
  OwnerID          uuid.UUID                     `gorm:"not null;index:idx_question_owner_title,unique" json:"owner_id"`
  Owner            *Account                      `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
  Title            string                        `gorm:"not null;index:idx_question_owner_title,unique" json:"title"`
  Qtype            Qtype                         `gorm:"not null;default:personal;index:idx_question_owner_title,unique" json:"qtype"`
  ChoiceList       datatypes.JSONSlice[string]   `json:"choice_list"`
  BackgroundImage  string                        `gorm:"column:background_image" json:"background_image"`
  IsBlind          bool                          `gorm:"not null;default:false" json:"is_blind"`
  Timestamps
}

func (Question) TableName() string {
  return "question"
}
