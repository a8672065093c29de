package attachmenthandler

import (
	"context"
	"io"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"approval-flow-backend/db"
	attachmentstore "approval-flow-backend/lib/attachment/store"
	filestorage "approval-flow-backend/lib/file-storage"
	requeststore "approval-flow-backend/lib/request/store"
	"approval-flow-backend/lib/utils/errs"
	"approval-flow-backend/models"
	requestapimodels "approval-flow-backend/models/api/request"
	dbmodels "approval-flow-backend/models/db"
)

type Provider interface {
	Upload(ctx context.Context, userID, requestID, fileName, contentType string, size int64, fileReader io.Reader) (item requestapimodels.AttachmentView, err error)
	Download(ctx context.Context, userID, requestID, attachmentID string) (rec *dbmodels.Attachment, body []byte, err error)
	List(userID, requestID string) (list []requestapimodels.AttachmentView, err error)
	Delete(ctx context.Context, userID, requestID, attachmentID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:        attachmentstore.NewInstance(db.DB),
		requestStore: requeststore.NewInstance(db.DB),
	}
}

type impl struct {
	store        attachmentstore.Provider
	requestStore requeststore.Provider
}

func (i impl) Upload(ctx context.Context, userID, requestID, fileName, contentType string, size int64, fileReader io.Reader) (item requestapimodels.AttachmentView, err error) {
	logger := log.WithField("user_id", userID).
		WithField("rec_id", requestID)
	rec, err := i.getRequest(userID, requestID)
	if err != nil {
		return requestapimodels.AttachmentView{}, err
	}
	if fileName == "" {
		return requestapimodels.AttachmentView{}, errs.New(errs.KindValidation, "не указано имя файла")
	}
	objectKey := uuid.NewString()
	err = filestorage.Instance.UploadFile(ctx, objectKey, contentType, fileReader, size)
	if err != nil {
		logger.WithError(err).Error("ошибка загрузки файла в хранилище")
		return requestapimodels.AttachmentView{}, err
	}
	attachment := dbmodels.Attachment{
		RequestID:   rec.ID,
		AuthorID:    userID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		ObjectKey:   objectKey,
	}
	id, err := i.store.Create(attachment)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения вложения")
		return requestapimodels.AttachmentView{}, err
	}
	attachment.ID = id
	logger.
		WithField("attachment_id", id).
		Info("загружено вложение")
	return requestapimodels.AttachmentConvert(attachment), nil
}

func (i impl) Download(ctx context.Context, userID, requestID, attachmentID string) (rec *dbmodels.Attachment, body []byte, err error) {
	_, err = i.getRequest(userID, requestID)
	if err != nil {
		return nil, nil, err
	}
	rec, err = i.getRec(requestID, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	body, err = filestorage.Instance.GetFile(ctx, rec.ObjectKey)
	if err != nil {
		log.WithField("attachment_id", attachmentID).
			WithError(err).
			Error("ошибка получения файла из хранилища")
		return nil, nil, err
	}
	return rec, body, nil
}

func (i impl) List(userID, requestID string) (list []requestapimodels.AttachmentView, err error) {
	_, err = i.getRequest(userID, requestID)
	if err != nil {
		return nil, err
	}
	recList, err := i.store.ListByRequest(requestID)
	if err != nil {
		log.WithField("rec_id", requestID).
			WithError(err).
			Error("ошибка получения вложений")
		return nil, err
	}
	result := make([]requestapimodels.AttachmentView, 0, len(recList))
	for _, item := range recList {
		result = append(result, requestapimodels.AttachmentConvert(item))
	}
	return result, nil
}

func (i impl) Delete(ctx context.Context, userID, requestID, attachmentID string) error {
	logger := log.WithField("user_id", userID).
		WithField("attachment_id", attachmentID)
	request, err := i.getRequest(userID, requestID)
	if err != nil {
		return err
	}
	rec, err := i.getRec(requestID, attachmentID)
	if err != nil {
		return err
	}
	if rec.AuthorID != userID && request.CreatorID != userID {
		return errs.New(errs.KindForbidden, "удалить вложение может только его автор или автор заявки")
	}
	if request.Status != models.RequestStatusDraft {
		return errs.Newf(errs.KindInvalidState, "удаление вложений недоступно в статусе %v", request.Status)
	}
	err = filestorage.Instance.DeleteFile(ctx, rec.ObjectKey)
	if err != nil {
		logger.WithError(err).Error("ошибка удаления файла из хранилища")
		return err
	}
	err = i.store.Delete(attachmentID)
	if err != nil {
		logger.WithError(err).Error("ошибка удаления вложения")
		return err
	}
	logger.Info("удалено вложение")
	return nil
}

func (i impl) getRequest(userID, requestID string) (rec *dbmodels.Request, err error) {
	rec, err = i.requestStore.GetByID(requestID)
	if err != nil {
		log.WithField("rec_id", requestID).
			WithError(err).
			Error("ошибка получения заявки")
		return nil, err
	}
	if rec == nil {
		return nil, errs.New(errs.KindNotFound, "заявка не найдена")
	}
	if !rec.IsParticipant(userID) {
		return nil, errs.New(errs.KindForbidden, "нет доступа к заявке")
	}
	return rec, nil
}

func (i impl) getRec(requestID, attachmentID string) (rec *dbmodels.Attachment, err error) {
	rec, err = i.store.GetByID(attachmentID)
	if err != nil {
		log.WithField("attachment_id", attachmentID).
			WithError(err).
			Error("ошибка получения вложения")
		return nil, err
	}
	if rec == nil || rec.RequestID != requestID {
		return nil, errs.New(errs.KindNotFound, "вложение не найдено")
	}
	return rec, nil
}
