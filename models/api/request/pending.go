package requestapimodels

import (
	"time"

	"approval-flow-backend/models"
)

type PendingActionView struct {
	StageID            string           `json:"stage_id"`
	RequestID          string           `json:"request_id"`
	RequestTitle       string           `json:"request_title"`
	RequestDescription string           `json:"request_description,omitempty"`
	CreatorName        string           `json:"creator_name"`
	CreatorEmail       string           `json:"creator_email"`
	StageType          models.StageType `json:"stage_type"`
	OrderIndex         int              `json:"order_index"`
	SubmittedAt        *time.Time       `json:"submitted_at,omitempty"`
	WaitingFor         string           `json:"waiting_for"` // сколько времени задача ожидает действия
}

type PendingActionsView struct {
	Items                  []PendingActionView `json:"items"`
	TotalPending           int                 `json:"total_pending"`
	RecommendationsPending int                 `json:"recommendations_pending"`
	ApprovalsPending       int                 `json:"approvals_pending"`
}

type PendingFilter struct {
	StageType *models.StageType `json:"stage_type"` // фильтр по типу этапа
}
