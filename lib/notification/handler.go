package notificationhandler

import (
	log "github.com/sirupsen/logrus"

	"approval-flow-backend/db"
	notificationstore "approval-flow-backend/lib/notification/store"
	smtpclient "approval-flow-backend/lib/smtp"
	usersstore "approval-flow-backend/lib/users/store"
	"approval-flow-backend/lib/utils/errs"
	notificationapimodels "approval-flow-backend/models/api/notification"
	dbmodels "approval-flow-backend/models/db"
)

type Provider interface {
	Notify(userID, title, msg string)
	List(userID string, filter notificationapimodels.NotificationFilter) (list []notificationapimodels.NotificationView, rowCount int64, err error)
	UnreadCount(userID string) (count int64, err error)
	MarkRead(userID, id string) error
	MarkAllRead(userID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:      notificationstore.NewInstance(db.DB),
		usersStore: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store      notificationstore.Provider
	usersStore usersstore.Provider
}

// Notify сохраняет уведомление и отправляет письмо, если smtp настроен.
// Ошибки не прерывают основную операцию
func (i impl) Notify(userID, title, msg string) {
	logger := log.WithField("user_id", userID)
	_, err := i.store.Create(dbmodels.Notification{
		UserID: userID,
		Title:  title,
		Msg:    msg,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения уведомления")
		return
	}
	if !smtpclient.Instance.IsConfigured() {
		return
	}
	rec, err := i.usersStore.GetByID(userID)
	if err != nil || rec == nil {
		logger.WithError(err).Warn("не удалось получить адресата уведомления")
		return
	}
	err = smtpclient.Instance.SendEMail(rec.Email, msg, title)
	if err != nil {
		logger.WithError(err).Warn("ошибка отправки письма с уведомлением")
	}
}

func (i impl) List(userID string, filter notificationapimodels.NotificationFilter) (list []notificationapimodels.NotificationView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(userID, filter)
	if err != nil {
		return nil, 0, err
	}

	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []notificationapimodels.NotificationView{}, rowCount, nil
	}

	recList, err := i.store.List(userID, filter)
	if err != nil {
		log.WithField("user_id", userID).
			WithError(err).
			Error("ошибка получения уведомлений")
		return nil, 0, err
	}
	result := make([]notificationapimodels.NotificationView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, notificationapimodels.NotificationConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) UnreadCount(userID string) (count int64, err error) {
	return i.store.CountUnread(userID)
}

func (i impl) MarkRead(userID, id string) error {
	updated, err := i.store.MarkRead(userID, id)
	if err != nil {
		log.WithField("user_id", userID).
			WithField("rec_id", id).
			WithError(err).
			Error("ошибка отметки уведомления прочитанным")
		return err
	}
	if !updated {
		return errs.New(errs.KindNotFound, "уведомление не найдено")
	}
	return nil
}

func (i impl) MarkAllRead(userID string) error {
	err := i.store.MarkAllRead(userID)
	if err != nil {
		log.WithField("user_id", userID).
			WithError(err).
			Error("ошибка отметки уведомлений прочитанными")
		return err
	}
	return nil
}
