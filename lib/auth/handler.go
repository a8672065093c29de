package authhandler

import (
	log "github.com/sirupsen/logrus"

	"approval-flow-backend/db"
	usersstore "approval-flow-backend/lib/users/store"
	authutils "approval-flow-backend/lib/utils/auth-utils"
	"approval-flow-backend/lib/utils/errs"
	authapimodels "approval-flow-backend/models/api/auth"
	dbmodels "approval-flow-backend/models/db"
)

type Provider interface {
	Register(data authapimodels.RegisterRequest) (resp authapimodels.AuthResponse, err error)
	Login(data authapimodels.LoginRequest) (resp authapimodels.AuthResponse, err error)
	Refresh(refreshToken string) (resp authapimodels.JWTResponse, err error)
}

var Instance Provider

func NewHandler(tokenProvider *authutils.TokenProvider) {
	Instance = impl{
		usersStore:    usersstore.NewInstance(db.DB),
		tokenProvider: tokenProvider,
	}
}

type impl struct {
	usersStore    usersstore.Provider
	tokenProvider *authutils.TokenProvider
}

func (i impl) Register(data authapimodels.RegisterRequest) (resp authapimodels.AuthResponse, err error) {
	logger := log.WithField("email", data.Email)
	exist, err := i.usersStore.ExistByEmail(data.Email)
	if err != nil {
		logger.WithError(err).Error("ошибка проверки email при регистрации")
		return authapimodels.AuthResponse{}, err
	}
	if exist {
		return authapimodels.AuthResponse{}, errs.New(errs.KindDuplicateEmail, "пользователь с таким email уже зарегистрирован")
	}
	hash, err := authutils.HashPassword(data.Password)
	if err != nil {
		logger.WithError(err).Error("ошибка хеширования пароля")
		return authapimodels.AuthResponse{}, err
	}
	rec := dbmodels.User{
		Email:        data.Email,
		Name:         data.Name,
		PasswordHash: hash,
	}
	id, err := i.usersStore.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания пользователя")
		return authapimodels.AuthResponse{}, err
	}
	rec.ID = id
	logger.
		WithField("user_id", id).
		Info("зарегистрирован пользователь")
	return i.issueTokens(rec)
}

func (i impl) Login(data authapimodels.LoginRequest) (resp authapimodels.AuthResponse, err error) {
	logger := log.WithField("email", data.Email)
	rec, err := i.usersStore.FindByEmail(data.Email)
	if err != nil {
		logger.WithError(err).Error("ошибка поиска пользователя")
		return authapimodels.AuthResponse{}, err
	}
	if rec == nil || !authutils.CheckPassword(rec.PasswordHash, data.Password) {
		return authapimodels.AuthResponse{}, errs.New(errs.KindInvalidCredentials, "неверный email или пароль")
	}
	return i.issueTokens(*rec)
}

func (i impl) Refresh(refreshToken string) (resp authapimodels.JWTResponse, err error) {
	userID, err := i.tokenProvider.VerifyToken(refreshToken, authutils.TokenTypeRefresh)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	rec, err := i.usersStore.GetByID(userID)
	if err != nil {
		log.WithField("user_id", userID).
			WithError(err).
			Error("ошибка получения пользователя при обновлении токена")
		return authapimodels.JWTResponse{}, err
	}
	if rec == nil {
		return authapimodels.JWTResponse{}, errs.New(errs.KindInvalidToken, "пользователь не найден")
	}
	return i.getTokenPair(*rec)
}

func (i impl) issueTokens(rec dbmodels.User) (resp authapimodels.AuthResponse, err error) {
	pair, err := i.getTokenPair(rec)
	if err != nil {
		return authapimodels.AuthResponse{}, err
	}
	return authapimodels.AuthResponse{
		User:        rec.ToModel(),
		JWTResponse: pair,
	}, nil
}

func (i impl) getTokenPair(rec dbmodels.User) (resp authapimodels.JWTResponse, err error) {
	token, err := i.tokenProvider.GetToken(rec.ID, rec.Name)
	if err != nil {
		log.WithField("user_id", rec.ID).
			WithError(err).
			Error("ошибка выпуска токена")
		return authapimodels.JWTResponse{}, err
	}
	refresh, err := i.tokenProvider.GetRefreshToken(rec.ID, rec.Name)
	if err != nil {
		log.WithField("user_id", rec.ID).
			WithError(err).
			Error("ошибка выпуска refresh токена")
		return authapimodels.JWTResponse{}, err
	}
	return authapimodels.JWTResponse{
		Token:        token,
		RefreshToken: refresh,
	}, nil
}
