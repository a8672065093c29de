package requestapimodels

import (
	"sort"
	"time"

	"approval-flow-backend/lib/utils/errs"
	"approval-flow-backend/models"
	dbmodels "approval-flow-backend/models/db"
)

type StageData struct {
	StageType      models.StageType `json:"stage_type"`
	AssignedUserID string           `json:"assigned_user_id"`
	OrderIndex     int              `json:"order_index"`
}

func (s StageData) Validate() error {
	if !s.StageType.IsValid() {
		return errs.Newf(errs.KindValidation, "неизвестный тип этапа: %v", s.StageType)
	}
	if s.AssignedUserID == "" {
		return errs.New(errs.KindValidation, "отсутсвует идентификатор ответственного за этап")
	}
	if s.OrderIndex <= 0 {
		return errs.New(errs.KindValidation, "порядковый номер этапа должен быть положительным")
	}
	return nil
}

type Stages struct {
	Stages []StageData `json:"stages"`
}

// порядковые номера этапов должны быть уникальны и идти подряд начиная с 1
func (v Stages) Validate() error {
	indices := make([]int, 0, len(v.Stages))
	for _, item := range v.Stages {
		err := item.Validate()
		if err != nil {
			return err
		}
		indices = append(indices, item.OrderIndex)
	}
	sort.Ints(indices)
	for k, idx := range indices {
		if idx != k+1 {
			return errs.New(errs.KindValidation, "порядковые номера этапов должны быть уникальны и идти подряд начиная с 1")
		}
	}
	return nil
}

type StageView struct {
	ID                string              `json:"id"`
	RequestID         string              `json:"request_id"`
	StageType         models.StageType    `json:"stage_type"`
	AssignedUserID    string              `json:"assigned_user_id"`
	AssignedUserName  string              `json:"assigned_user_name"`
	AssignedUserEmail string              `json:"assigned_user_email"`
	OrderIndex        int                 `json:"order_index"`
	Status            models.StageStatus  `json:"status"`
	StatusName        string              `json:"status_name"`
	Comment           string              `json:"comment,omitempty"`
	Action            *models.StageAction `json:"action,omitempty"`
	ActionAt          *time.Time          `json:"action_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

func StageConvert(rec dbmodels.WorkflowStage) StageView {
	view := StageView{
		ID:             rec.ID,
		RequestID:      rec.RequestID,
		StageType:      rec.StageType,
		AssignedUserID: rec.AssignedUserID,
		OrderIndex:     rec.OrderIndex,
		Status:         rec.Status,
		StatusName:     rec.Status.ToHuman(),
		Comment:        rec.Comment,
		Action:         rec.Action,
		ActionAt:       rec.ActionAt,
		CreatedAt:      rec.CreatedAt,
	}
	if rec.AssignedUser != nil {
		view.AssignedUserName = rec.AssignedUser.Name
		view.AssignedUserEmail = rec.AssignedUser.Email
	}
	return view
}

type StageActionData struct {
	Action  models.StageAction `json:"action"`
	Comment string             `json:"comment"`
}

func (r StageActionData) Validate() error {
	switch r.Action {
	case models.StageActionRecommended, models.StageActionApproved, models.StageActionRejected:
		return nil
	}
	return errs.Newf(errs.KindValidation, "неизвестное действие: %v", r.Action)
}
