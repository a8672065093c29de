package requesthandler

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"approval-flow-backend/db"
	commentstore "approval-flow-backend/lib/request/comment-store"
	requeststore "approval-flow-backend/lib/request/store"
	usersstore "approval-flow-backend/lib/users/store"
	"approval-flow-backend/lib/utils/errs"
	stagestore "approval-flow-backend/lib/workflow/stage-store"
	"approval-flow-backend/models"
	requestapimodels "approval-flow-backend/models/api/request"
	dbmodels "approval-flow-backend/models/db"
)

type Provider interface {
	Create(userID string, data requestapimodels.RequestCreateData) (id string, err error)
	GetByID(userID, id string) (item requestapimodels.RequestView, err error)
	Update(userID, id string, data requestapimodels.RequestEditData) error
	Delete(userID, id string) error
	List(userID string, filter requestapimodels.RequestFilter) (list []requestapimodels.RequestView, rowCount int64, err error)
	AddComment(userID, id string, data requestapimodels.CommentData) (commentID string, err error)
	ListComments(userID, id string) (list []requestapimodels.CommentView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:        requeststore.NewInstance(db.DB),
		stageStore:   stagestore.NewInstance(db.DB),
		commentStore: commentstore.NewInstance(db.DB),
		usersStore:   usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store        requeststore.Provider
	stageStore   stagestore.Provider
	commentStore commentstore.Provider
	usersStore   usersstore.Provider
}

func (i impl) Create(userID string, data requestapimodels.RequestCreateData) (id string, err error) {
	logger := log.WithField("user_id", userID)
	err = i.checkAssignees(data.Stages.Stages)
	if err != nil {
		return "", err
	}
	rec := dbmodels.Request{
		Title:       data.Title,
		Description: data.Description,
		CreatorID:   userID,
		Status:      models.RequestStatusDraft,
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := requeststore.NewInstance(tx)
		stageStore := stagestore.NewInstance(tx)
		id, err = store.Create(rec)
		if err != nil {
			logger.
				WithError(err).
				Error("ошибка создания заявки")
			return err
		}
		stages := make([]dbmodels.WorkflowStage, 0, len(data.Stages.Stages))
		for _, stage := range data.Stages.Stages {
			stages = append(stages, dbmodels.WorkflowStage{
				RequestID:      id,
				StageType:      stage.StageType,
				AssignedUserID: stage.AssignedUserID,
				OrderIndex:     stage.OrderIndex,
				Status:         models.StageStatusPending,
			})
		}
		return stageStore.CreateBatch(stages)
	})
	if err != nil {
		return "", err
	}
	logger.
		WithField("rec_id", id).
		Info("создана заявка")
	return id, nil
}

func (i impl) GetByID(userID, id string) (item requestapimodels.RequestView, err error) {
	rec, err := i.getRec(id)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if !rec.IsParticipant(userID) {
		return requestapimodels.RequestView{}, errs.New(errs.KindForbidden, "нет доступа к заявке")
	}
	return requestapimodels.RequestConvert(*rec, userID), nil
}

func (i impl) Update(userID, id string, data requestapimodels.RequestEditData) error {
	logger := log.WithField("user_id", userID).
		WithField("rec_id", id)
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if rec.CreatorID != userID {
		return errs.New(errs.KindForbidden, "редактировать заявку может только автор")
	}
	if rec.Status != models.RequestStatusDraft {
		return errs.Newf(errs.KindInvalidState, "редактирование недоступно в статусе %v", rec.Status)
	}
	updMap := map[string]interface{}{
		"title":       data.Title,
		"description": data.Description,
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления заявки")
		return err
	}
	logger.Info("обновлена заявка")
	return nil
}

func (i impl) Delete(userID, id string) error {
	logger := log.WithField("user_id", userID).
		WithField("rec_id", id)
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if rec.CreatorID != userID {
		return errs.New(errs.KindForbidden, "удалить заявку может только автор")
	}
	if rec.Status != models.RequestStatusDraft {
		return errs.Newf(errs.KindInvalidState, "удаление недоступно в статусе %v", rec.Status)
	}
	err = i.store.Delete(id)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка удаления заявки")
		return err
	}
	logger.Info("удалена заявка")
	return nil
}

func (i impl) List(userID string, filter requestapimodels.RequestFilter) (list []requestapimodels.RequestView, rowCount int64, err error) {
	logger := log.WithField("user_id", userID)
	rowCount, err = i.store.ListCount(userID, filter)
	if err != nil {
		return nil, 0, err
	}

	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []requestapimodels.RequestView{}, rowCount, nil
	}

	recList, err := i.store.List(userID, filter)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка получения списка заявок")
		return nil, 0, err
	}
	result := make([]requestapimodels.RequestView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, requestapimodels.RequestConvert(rec, userID))
	}
	return result, rowCount, nil
}

func (i impl) AddComment(userID, id string, data requestapimodels.CommentData) (commentID string, err error) {
	logger := log.WithField("user_id", userID).
		WithField("rec_id", id)
	rec, err := i.getRec(id)
	if err != nil {
		return "", err
	}
	if !rec.IsParticipant(userID) {
		return "", errs.New(errs.KindForbidden, "комментировать заявку могут только её участники")
	}
	commentID, err = i.commentStore.Create(dbmodels.RequestComment{
		RequestID: id,
		AuthorID:  userID,
		Comment:   data.Comment,
	})
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка добавления комментария")
		return "", err
	}
	logger.
		WithField("comment_id", commentID).
		Info("добавлен комментарий к заявке")
	return commentID, nil
}

func (i impl) ListComments(userID, id string) (list []requestapimodels.CommentView, err error) {
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	if !rec.IsParticipant(userID) {
		return nil, errs.New(errs.KindForbidden, "нет доступа к заявке")
	}
	recList, err := i.commentStore.ListByRequest(id)
	if err != nil {
		log.WithField("rec_id", id).
			WithError(err).
			Error("ошибка получения комментариев")
		return nil, err
	}
	result := make([]requestapimodels.CommentView, 0, len(recList))
	for _, item := range recList {
		result = append(result, requestapimodels.CommentConvert(item))
	}
	return result, nil
}

func (i impl) checkAssignees(stages []requestapimodels.StageData) error {
	for _, stage := range stages {
		rec, err := i.usersStore.GetByID(stage.AssignedUserID)
		if err != nil {
			return err
		}
		if rec == nil {
			return errs.Newf(errs.KindValidation, "ответственный за этап не найден: %v", stage.AssignedUserID)
		}
	}
	return nil
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
