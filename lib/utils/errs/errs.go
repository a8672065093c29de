package errs

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// Kind - машиночитаемый код ошибки, отдается клиенту в поле code
type Kind string

const (
	KindDuplicateEmail     Kind = "DUPLICATE_EMAIL"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindInvalidToken       Kind = "INVALID_TOKEN"
	KindNotFound           Kind = "NOT_FOUND"
	KindForbidden          Kind = "FORBIDDEN"
	KindInvalidState       Kind = "INVALID_STATE"
	KindOutOfOrder         Kind = "OUT_OF_ORDER"
	KindNoStages           Kind = "NO_STAGES"
	KindValidation         Kind = "VALIDATION_ERROR"
)

type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Kind() Kind {
	return e.kind
}

func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: errors.Errorf(format, args...).Error()}
}

// GetKind возвращает код ошибки, если где-то в цепочке лежит *Error
func GetKind(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind, true
	}
	return "", false
}

var kindHTTPStatus = map[Kind]int{
	KindDuplicateEmail:     fiber.StatusBadRequest,
	KindInvalidCredentials: fiber.StatusUnauthorized,
	KindInvalidToken:       fiber.StatusUnauthorized,
	KindNotFound:           fiber.StatusNotFound,
	KindForbidden:          fiber.StatusForbidden,
	KindInvalidState:       fiber.StatusConflict,
	KindOutOfOrder:         fiber.StatusConflict,
	KindNoStages:           fiber.StatusBadRequest,
	KindValidation:         fiber.StatusBadRequest,
}

func HTTPStatus(kind Kind) int {
	if status, exist := kindHTTPStatus[kind]; exist {
		return status
	}
	return fiber.StatusInternalServerError
}
