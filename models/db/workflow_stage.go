package dbmodels

import (
	"time"

	"approval-flow-backend/models"
)

type WorkflowStage struct {
	BaseModel
	RequestID      string           `gorm:"type:varchar(36);uniqueIndex:idx_request_order"`
	Request        *Request         `gorm:"foreignKey:RequestID"`
	StageType      models.StageType `gorm:"type:varchar(50)"`
	AssignedUserID string           `gorm:"type:varchar(36);index:idx_stage_assignee"`
	AssignedUser   *User            `gorm:"foreignKey:AssignedUserID"`
	OrderIndex     int              `gorm:"uniqueIndex:idx_request_order"`
	Status         models.StageStatus `gorm:"type:varchar(50)"`
	Comment        string
	Action         *models.StageAction `gorm:"type:varchar(50)"`
	ActionAt       *time.Time
}
