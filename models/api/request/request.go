package requestapimodels

import (
	"strings"
	"time"

	"approval-flow-backend/lib/utils/errs"
	"approval-flow-backend/models"
	apimodels "approval-flow-backend/models/api"
	dbmodels "approval-flow-backend/models/db"
)

type RequestData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r RequestData) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errs.New(errs.KindValidation, "не указан заголовок заявки")
	}
	return nil
}

type RequestCreateData struct {
	RequestData
	Stages
}

func (r RequestCreateData) Validate() error {
	if err := r.RequestData.Validate(); err != nil {
		return err
	}
	return r.Stages.Validate()
}

type RequestEditData struct {
	RequestData
}

func (r RequestEditData) Validate() error {
	return r.RequestData.Validate()
}

type RequestView struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description,omitempty"`
	CreatorID      string               `json:"creator_id"`
	CreatorName    string               `json:"creator_name"`
	CreatorEmail   string               `json:"creator_email"`
	Status         models.RequestStatus `json:"status"`
	StatusName     string               `json:"status_name"`
	CurrentStageID *string              `json:"current_stage_id,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	SubmittedAt    *time.Time           `json:"submitted_at,omitempty"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
	Stages         []StageView          `json:"stages,omitempty"`
	CanEdit        bool                 `json:"can_edit"`
	CanSubmit      bool                 `json:"can_submit"`
	CanCancel      bool                 `json:"can_cancel"`
}

func RequestConvert(rec dbmodels.Request, viewerID string) RequestView {
	view := RequestView{
		ID:             rec.ID,
		Title:          rec.Title,
		Description:    rec.Description,
		CreatorID:      rec.CreatorID,
		Status:         rec.Status,
		StatusName:     rec.Status.ToHuman(),
		CurrentStageID: rec.CurrentStageID,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
		SubmittedAt:    rec.SubmittedAt,
		CompletedAt:    rec.CompletedAt,
	}
	if rec.Creator != nil {
		view.CreatorName = rec.Creator.Name
		view.CreatorEmail = rec.Creator.Email
	}
	for _, stage := range rec.Stages {
		view.Stages = append(view.Stages, StageConvert(stage))
	}
	isCreator := rec.CreatorID == viewerID
	view.CanEdit = isCreator && rec.Status == models.RequestStatusDraft
	view.CanSubmit = isCreator && rec.Status == models.RequestStatusDraft && len(rec.Stages) > 0
	view.CanCancel = isCreator && rec.Status.AllowCancel()
	return view
}

type RequestFilter struct {
	Status               *models.RequestStatus `json:"status"`                // фильтр по статусу
	IncludeParticipating bool                  `json:"include_participating"` // включить заявки, где пользователь назначен на этап
	apimodels.Pagination
}

func (r RequestFilter) Validate() error {
	if r.Status != nil && *r.Status != "" {
		switch *r.Status {
		case models.RequestStatusDraft, models.RequestStatusSubmitted, models.RequestStatusInReview,
			models.RequestStatusInApproval, models.RequestStatusApproved, models.RequestStatusRejected,
			models.RequestStatusCancelled:
		default:
			return errs.Newf(errs.KindValidation, "неизвестный статус заявки: %v", *r.Status)
		}
	}
	return nil
}
