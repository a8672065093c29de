package dbmodels

import (
	"time"

	"approval-flow-backend/models"

	"gorm.io/gorm"
)

type Request struct {
	BaseModel
	Title          string `gorm:"type:varchar(255)"`
	Description    string
	CreatorID      string `gorm:"type:varchar(36);index:idx_request_creator"`
	Creator        *User  `gorm:"foreignKey:CreatorID"`
	Status         models.RequestStatus `gorm:"type:varchar(50)"`
	CurrentStageID *string              `gorm:"type:varchar(36)"`
	SubmittedAt    *time.Time
	CompletedAt    *time.Time
	Stages         []WorkflowStage  `gorm:"foreignKey:RequestID"`
	Comments       []RequestComment `gorm:"foreignKey:RequestID"`
}

// активный этап - тот, на который указывает CurrentStageID
func (r Request) GetCurrentStage() *WorkflowStage {
	if r.CurrentStageID == nil {
		return nil
	}
	for k := range r.Stages {
		if r.Stages[k].ID == *r.CurrentStageID {
			return &r.Stages[k]
		}
	}
	return nil
}

func (r Request) IsParticipant(userID string) bool {
	if r.CreatorID == userID {
		return true
	}
	for _, stage := range r.Stages {
		if stage.AssignedUserID == userID {
			return true
		}
	}
	return false
}

func (r *Request) AfterDelete(tx *gorm.DB) (err error) {
	if r.ID == "" {
		return nil
	}
	tx.Where("request_id = ?", r.ID).Delete(&WorkflowStage{})
	tx.Where("request_id = ?", r.ID).Delete(&RequestComment{})
	tx.Where("request_id = ?", r.ID).Delete(&Attachment{})
	return nil
}

type RequestComment struct {
	BaseModel
	RequestID string `gorm:"type:varchar(36);index:idx_comment_request"`
	AuthorID  string `gorm:"type:varchar(36)"`
	Author    *User  `gorm:"foreignKey:AuthorID"`
	Comment   string
}
