package workflowhandler

import (
	"fmt"
	"time"

	"github.com/hako/durafmt"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"approval-flow-backend/db"
	notificationhandler "approval-flow-backend/lib/notification"
	requeststore "approval-flow-backend/lib/request/store"
	"approval-flow-backend/lib/utils/errs"
	stagestore "approval-flow-backend/lib/workflow/stage-store"
	"approval-flow-backend/models"
	requestapimodels "approval-flow-backend/models/api/request"
	dbmodels "approval-flow-backend/models/db"
)

type Provider interface {
	Submit(userID, requestID string) (item requestapimodels.RequestView, err error)
	TakeAction(userID, stageID string, data requestapimodels.StageActionData) (item requestapimodels.RequestView, err error)
	Cancel(userID, requestID string) (item requestapimodels.RequestView, err error)
	PendingActions(userID string, filter requestapimodels.PendingFilter) (view requestapimodels.PendingActionsView, err error)
	History(userID, requestID string) (list []requestapimodels.StageView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:               requeststore.NewInstance(db.DB),
		stageStore:          stagestore.NewInstance(db.DB),
		notificationHandler: notificationhandler.Instance,
	}
}

type impl struct {
	store               requeststore.Provider
	stageStore          stagestore.Provider
	notificationHandler notificationhandler.Provider
}

func (i impl) Submit(userID, requestID string) (item requestapimodels.RequestView, err error) {
	logger := log.WithField("user_id", userID).
		WithField("rec_id", requestID)
	rec, err := i.getRec(requestID)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if rec.CreatorID != userID {
		return requestapimodels.RequestView{}, errs.New(errs.KindForbidden, "отправить заявку на согласование может только автор")
	}
	if rec.Status != models.RequestStatusDraft {
		return requestapimodels.RequestView{}, errs.Newf(errs.KindInvalidState, "отправка недоступна в статусе %v", rec.Status)
	}
	if len(rec.Stages) == 0 {
		return requestapimodels.RequestView{}, errs.New(errs.KindNoStages, "в заявке не заданы этапы согласования")
	}

	var first *dbmodels.WorkflowStage
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := requeststore.NewInstance(tx)
		stageStore := stagestore.NewInstance(tx)
		first, err = stageStore.FirstPending(requestID)
		if err != nil {
			return err
		}
		if first == nil {
			return errs.New(errs.KindNoStages, "в заявке не заданы этапы согласования")
		}
		err = stageStore.SetInProgress(first.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		updated, err := store.UpdateWithStatus(requestID,
			[]interface{}{models.RequestStatusDraft},
			map[string]interface{}{
				"status":           first.StageType.ActiveRequestStatus(),
				"current_stage_id": first.ID,
				"submitted_at":     now,
			})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindInvalidState, "статус заявки уже изменился")
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("ошибка отправки заявки на согласование")
		return requestapimodels.RequestView{}, err
	}
	logger.Info("заявка отправлена на согласование")

	i.notificationHandler.Notify(first.AssignedUserID,
		"Назначен этап согласования",
		fmt.Sprintf("Вам назначен этап %v по заявке «%v»", first.StageType.ActiveRequestStatus().ToHuman(), rec.Title))
	return i.viewOf(requestID, userID)
}

func (i impl) TakeAction(userID, stageID string, data requestapimodels.StageActionData) (item requestapimodels.RequestView, err error) {
	logger := log.WithField("user_id", userID).
		WithField("stage_id", stageID)
	stage, err := i.stageStore.GetByID(stageID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения этапа")
		return requestapimodels.RequestView{}, err
	}
	if stage == nil {
		return requestapimodels.RequestView{}, errs.New(errs.KindNotFound, "этап не найден")
	}
	if stage.AssignedUserID != userID {
		return requestapimodels.RequestView{}, errs.New(errs.KindForbidden, "за этот этап отвечает другой пользователь")
	}
	if !stage.Status.IsActionable() {
		return requestapimodels.RequestView{}, errs.Newf(errs.KindInvalidState, "этап уже завершен: %v", stage.Status)
	}
	if !stage.StageType.AllowAction(data.Action) {
		return requestapimodels.RequestView{}, errs.Newf(errs.KindValidation, "действие %v недопустимо для этапа %v", data.Action, stage.StageType)
	}
	rec, err := i.getRec(stage.RequestID)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if !rec.Status.IsActive() {
		return requestapimodels.RequestView{}, errs.Newf(errs.KindInvalidState, "заявка не находится на согласовании: %v", rec.Status)
	}
	for _, prev := range rec.Stages {
		if prev.OrderIndex < stage.OrderIndex && prev.Status != models.StageStatusCompleted {
			return requestapimodels.RequestView{}, errs.New(errs.KindOutOfOrder, "сначала должны быть завершены предыдущие этапы")
		}
	}

	var next *dbmodels.WorkflowStage
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := requeststore.NewInstance(tx)
		stageStore := stagestore.NewInstance(tx)
		now := time.Now()
		updated, err := stageStore.CompleteStage(stageID, map[string]interface{}{
			"status":    models.StageStatusCompleted,
			"action":    data.Action,
			"comment":   data.Comment,
			"action_at": now,
		})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindInvalidState, "этап уже завершен")
		}
		activeStatuses := []interface{}{models.RequestStatusInReview, models.RequestStatusInApproval}
		if data.Action == models.StageActionRejected {
			updated, err = store.UpdateWithStatus(stage.RequestID, activeStatuses, map[string]interface{}{
				"status":           models.RequestStatusRejected,
				"current_stage_id": nil,
				"completed_at":     now,
			})
			if err != nil {
				return err
			}
			if !updated {
				return errs.New(errs.KindInvalidState, "статус заявки уже изменился")
			}
			return nil
		}
		next, err = stageStore.NextPending(stage.RequestID, stage.OrderIndex)
		if err != nil {
			return err
		}
		updMap := map[string]interface{}{}
		if next == nil {
			updMap["status"] = models.RequestStatusApproved
			updMap["current_stage_id"] = nil
			updMap["completed_at"] = now
		} else {
			err = stageStore.SetInProgress(next.ID)
			if err != nil {
				return err
			}
			updMap["status"] = next.StageType.ActiveRequestStatus()
			updMap["current_stage_id"] = next.ID
		}
		updated, err = store.UpdateWithStatus(stage.RequestID, activeStatuses, updMap)
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindInvalidState, "статус заявки уже изменился")
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("ошибка выполнения действия по этапу")
		return requestapimodels.RequestView{}, err
	}
	logger.
		WithField("action", data.Action).
		Info("выполнено действие по этапу")

	switch {
	case data.Action == models.StageActionRejected:
		i.notificationHandler.Notify(rec.CreatorID,
			"Заявка отклонена",
			fmt.Sprintf("Заявка «%v» отклонена на этапе согласования", rec.Title))
	case next == nil:
		i.notificationHandler.Notify(rec.CreatorID,
			"Заявка согласована",
			fmt.Sprintf("Заявка «%v» прошла все этапы согласования", rec.Title))
	default:
		i.notificationHandler.Notify(next.AssignedUserID,
			"Назначен этап согласования",
			fmt.Sprintf("Вам назначен этап %v по заявке «%v»", next.StageType.ActiveRequestStatus().ToHuman(), rec.Title))
	}
	return i.viewOf(stage.RequestID, userID)
}

func (i impl) Cancel(userID, requestID string) (item requestapimodels.RequestView, err error) {
	logger := log.WithField("user_id", userID).
		WithField("rec_id", requestID)
	rec, err := i.getRec(requestID)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if rec.CreatorID != userID {
		return requestapimodels.RequestView{}, errs.New(errs.KindForbidden, "отменить заявку может только автор")
	}
	if !rec.Status.AllowCancel() {
		return requestapimodels.RequestView{}, errs.Newf(errs.KindInvalidState, "отмена недоступна в статусе %v", rec.Status)
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := requeststore.NewInstance(tx)
		stageStore := stagestore.NewInstance(tx)
		allowed := []interface{}{
			models.RequestStatusDraft, models.RequestStatusSubmitted,
			models.RequestStatusInReview, models.RequestStatusInApproval,
		}
		updated, err := store.UpdateWithStatus(requestID, allowed, map[string]interface{}{
			"status":           models.RequestStatusCancelled,
			"current_stage_id": nil,
			"completed_at":     time.Now(),
		})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindInvalidState, "статус заявки уже изменился")
		}
		return stageStore.SkipIncomplete(requestID)
	})
	if err != nil {
		logger.WithError(err).Error("ошибка отмены заявки")
		return requestapimodels.RequestView{}, err
	}
	logger.Info("заявка отменена")

	for _, stage := range rec.Stages {
		if stage.Status.IsActionable() {
			i.notificationHandler.Notify(stage.AssignedUserID,
				"Заявка отменена",
				fmt.Sprintf("Заявка «%v» отменена автором, этап согласования больше не требуется", rec.Title))
		}
	}
	return i.viewOf(requestID, userID)
}

func (i impl) PendingActions(userID string, filter requestapimodels.PendingFilter) (view requestapimodels.PendingActionsView, err error) {
	logger := log.WithField("user_id", userID)
	recList, err := i.stageStore.ListPendingByUser(userID, filter.StageType)
	if err != nil {
		logger.WithError(err).Error("ошибка получения назначенных этапов")
		return requestapimodels.PendingActionsView{}, err
	}
	counts, err := i.stageStore.CountPendingByType(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка подсчета назначенных этапов")
		return requestapimodels.PendingActionsView{}, err
	}
	items := make([]requestapimodels.PendingActionView, 0, len(recList))
	for _, stage := range recList {
		item := requestapimodels.PendingActionView{
			StageID:    stage.ID,
			RequestID:  stage.RequestID,
			StageType:  stage.StageType,
			OrderIndex: stage.OrderIndex,
			WaitingFor: durafmt.Parse(time.Since(stage.UpdatedAt)).LimitFirstN(2).String(),
		}
		if stage.Request != nil {
			item.RequestTitle = stage.Request.Title
			item.RequestDescription = stage.Request.Description
			item.SubmittedAt = stage.Request.SubmittedAt
			if stage.Request.Creator != nil {
				item.CreatorName = stage.Request.Creator.Name
				item.CreatorEmail = stage.Request.Creator.Email
			}
		}
		items = append(items, item)
	}
	return requestapimodels.PendingActionsView{
		Items:                  items,
		TotalPending:           counts[models.StageTypeRecommend] + counts[models.StageTypeApprove],
		RecommendationsPending: counts[models.StageTypeRecommend],
		ApprovalsPending:       counts[models.StageTypeApprove],
	}, nil
}

func (i impl) History(userID, requestID string) (list []requestapimodels.StageView, err error) {
	rec, err := i.getRec(requestID)
	if err != nil {
		return nil, err
	}
	if !rec.IsParticipant(userID) {
		return nil, errs.New(errs.KindForbidden, "нет доступа к заявке")
	}
	recList, err := i.stageStore.ListByRequest(requestID)
	if err != nil {
		log.WithField("rec_id", requestID).
			WithError(err).
			Error("ошибка получения истории согласования")
		return nil, err
	}
	result := make([]requestapimodels.StageView, 0, len(recList))
	for _, stage := range recList {
		result = append(result, requestapimodels.StageConvert(stage))
	}
	return result, nil
}

func (i impl) getRec(id string) (rec *dbmodels.Request, err error) {
	rec, err = i.store.GetByID(id)
	if err != nil {
		log.WithField("rec_id", id).
			WithError(err).
			Error("ошибка получения заявки")
		return nil, err
	}
	if rec == nil {
		return nil, errs.New(errs.KindNotFound, "заявка не найдена")
	}
	return rec, nil
}

func (i impl) viewOf(requestID, userID string) (requestapimodels.RequestView, error) {
	rec, err := i.getRec(requestID)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	return requestapimodels.RequestConvert(*rec, userID), nil
}
