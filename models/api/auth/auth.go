package authapimodels

import (
	"net/mail"
	"strings"

	"approval-flow-backend/lib/utils/errs"
	usersapimodels "approval-flow-backend/models/api/users"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errs.New(errs.KindValidation, "почта имеет неправильный формат")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errs.New(errs.KindValidation, "не указано имя пользователя")
	}
	if len(r.Password) < 8 {
		return errs.New(errs.KindValidation, "пароль должен содержать не менее 8 символов")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errs.New(errs.KindValidation, "почта имеет неправильный формат")
	}
	if r.Password == "" {
		return errs.New(errs.KindValidation, "не указан пароль")
	}
	return nil
}

type JWTResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type JWTRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r JWTRefreshRequest) Validate() error {
	if len(strings.TrimSpace(r.RefreshToken)) == 0 {
		return errs.New(errs.KindValidation, "refresh token не должен быть пустым")
	}
	return nil
}

type AuthResponse struct {
	User usersapimodels.UserView `json:"user"`
	JWTResponse
}
