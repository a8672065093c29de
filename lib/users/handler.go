package usershandler

import (
	log "github.com/sirupsen/logrus"

	"approval-flow-backend/db"
	usersstore "approval-flow-backend/lib/users/store"
	authutils "approval-flow-backend/lib/utils/auth-utils"
	"approval-flow-backend/lib/utils/errs"
	usersapimodels "approval-flow-backend/models/api/users"
	dbmodels "approval-flow-backend/models/db"
)

type Provider interface {
	GetByID(userID string) (item usersapimodels.UserView, err error)
	Update(userID string, data usersapimodels.UpdateUser) error
	ChangePassword(userID string, data usersapimodels.ChangePassword) error
	Delete(userID string) error
	Search(filter usersapimodels.UserFilter) (list []usersapimodels.UserView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store usersstore.Provider
}

func (i impl) GetByID(userID string) (item usersapimodels.UserView, err error) {
	rec, err := i.getRec(userID)
	if err != nil {
		return usersapimodels.UserView{}, err
	}
	return rec.ToModel(), nil
}

func (i impl) Update(userID string, data usersapimodels.UpdateUser) error {
	logger := log.WithField("user_id", userID)
	rec, err := i.getRec(userID)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{}
	if data.Name != nil && *data.Name != "" {
		updMap["name"] = *data.Name
	}
	if data.Email != nil && *data.Email != "" && *data.Email != rec.Email {
		other, err := i.store.FindByEmail(*data.Email)
		if err != nil {
			logger.WithError(err).Error("ошибка проверки email")
			return err
		}
		if other != nil && other.ID != userID {
			return errs.New(errs.KindDuplicateEmail, "пользователь с таким email уже зарегистрирован")
		}
		updMap["email"] = *data.Email
	}
	if len(updMap) == 0 {
		return nil
	}
	err = i.store.Update(userID, updMap)
	if err != nil {
		logger.WithError(err).Error("ошибка обновления пользователя")
		return err
	}
	logger.Info("обновлен профиль пользователя")
	return nil
}

func (i impl) ChangePassword(userID string, data usersapimodels.ChangePassword) error {
	logger := log.WithField("user_id", userID)
	rec, err := i.getRec(userID)
	if err != nil {
		return err
	}
	if !authutils.CheckPassword(rec.PasswordHash, data.CurrentPassword) {
		return errs.New(errs.KindInvalidCredentials, "неверный текущий пароль")
	}
	hash, err := authutils.HashPassword(data.NewPassword)
	if err != nil {
		logger.WithError(err).Error("ошибка хеширования пароля")
		return err
	}
	err = i.store.Update(userID, map[string]interface{}{"password_hash": hash})
	if err != nil {
		logger.WithError(err).Error("ошибка смены пароля")
		return err
	}
	logger.Info("изменен пароль пользователя")
	return nil
}

func (i impl) Delete(userID string) error {
	logger := log.WithField("user_id", userID)
	_, err := i.getRec(userID)
	if err != nil {
		return err
	}
	err = i.store.Delete(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка удаления пользователя")
		return err
	}
	logger.Info("удален пользователь")
	return nil
}

func (i impl) Search(filter usersapimodels.UserFilter) (list []usersapimodels.UserView, rowCount int64, err error) {
	rowCount, err = i.store.SearchCount(filter)
	if err != nil {
		return nil, 0, err
	}

	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []usersapimodels.UserView{}, rowCount, nil
	}

	recList, err := i.store.Search(filter)
	if err != nil {
		log.WithError(err).Error("ошибка поиска пользователей")
		return nil, 0, err
	}
	result := make([]usersapimodels.UserView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, rec.ToModel())
	}
	return result, rowCount, nil
}

func (i impl) getRec(userID string) (rec *dbmodels.User, err error) {
	rec, err = i.store.GetByID(userID)
	if err != nil {
		log.WithField("user_id", userID).
			WithError(err).
			Error("ошибка получения пользователя")
		return nil, err
	}
	if rec == nil {
		return nil, errs.New(errs.KindNotFound, "пользователь не найден")
	}
	return rec, nil
}
