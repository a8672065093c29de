package usersapimodels

import (
	"net/mail"
	"strings"
	"time"

	apimodels "approval-flow-backend/models/api"

	"approval-flow-backend/lib/utils/errs"
)

type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateUser struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (r UpdateUser) Validate() error {
	if r.Name == nil && r.Email == nil {
		return errs.New(errs.KindValidation, "не указаны поля для обновления")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errs.New(errs.KindValidation, "имя не должно быть пустым")
	}
	if r.Email != nil {
		_, err := mail.ParseAddress(*r.Email)
		if err != nil {
			return errs.New(errs.KindValidation, "почта имеет неправильный формат")
		}
	}
	return nil
}

type ChangePassword struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r ChangePassword) Validate() error {
	if r.CurrentPassword == "" {
		return errs.New(errs.KindValidation, "не указан текущий пароль")
	}
	if len(r.NewPassword) < 8 {
		return errs.New(errs.KindValidation, "новый пароль должен содержать не менее 8 символов")
	}
	return nil
}

type UserFilter struct {
	Search string `json:"search"` // поиск по имени или почте
	apimodels.Pagination
}
