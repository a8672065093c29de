package authhandler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"approval-flow-backend/db"
	authutils "approval-flow-backend/lib/utils/auth-utils"
	"approval-flow-backend/lib/utils/errs"
	authapimodels "approval-flow-backend/models/api/auth"
)

func setupTest(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.Nil(t, err)
	sqlDB, err := conn.DB()
	require.Nil(t, err)
	sqlDB.SetMaxOpenConns(1)
	db.DB = conn
	require.Nil(t, db.AutoMigrateDB())
	NewHandler(authutils.NewTokenProvider("test-secret", 60, 120))
}

func TestRegister(t *testing.T) {
	setupTest(t)

	t.Run(`регистрация выдает пару токенов`, func(t *testing.T) {
		resp, err := Instance.Register(authapimodels.RegisterRequest{
			Email:    "ivanov@example.com",
			Name:     "Иванов Иван",
			Password: "strong-password",
		})
		require.Nil(t, err)
		require.NotEmpty(t, resp.User.ID)
		require.Equal(t, "ivanov@example.com", resp.User.Email)
		require.NotEmpty(t, resp.Token)
		require.NotEmpty(t, resp.RefreshToken)
	})

	t.Run(`повторная регистрация с тем же email`, func(t *testing.T) {
		_, err := Instance.Register(authapimodels.RegisterRequest{
			Email:    "ivanov@example.com",
			Name:     "Другой Иванов",
			Password: "another-password",
		})
		require.NotNil(t, err)
		kind, ok := errs.GetKind(err)
		require.True(t, ok)
		require.Equal(t, errs.KindDuplicateEmail, kind)
	})
}

func TestLogin(t *testing.T) {
	setupTest(t)
	_, err := Instance.Register(authapimodels.RegisterRequest{
		Email:    "petrov@example.com",
		Name:     "Петров Петр",
		Password: "strong-password",
	})
	require.Nil(t, err)

	t.Run(`вход с верным паролем`, func(t *testing.T) {
		resp, err := Instance.Login(authapimodels.LoginRequest{
			Email:    "petrov@example.com",
			Password: "strong-password",
		})
		require.Nil(t, err)
		require.NotEmpty(t, resp.Token)
		require.NotEmpty(t, resp.RefreshToken)
	})

	t.Run(`неверный пароль и неизвестный email дают одинаковую ошибку`, func(t *testing.T) {
		_, errWrongPass := Instance.Login(authapimodels.LoginRequest{
			Email:    "petrov@example.com",
			Password: "wrong-password",
		})
		require.NotNil(t, errWrongPass)
		kind, ok := errs.GetKind(errWrongPass)
		require.True(t, ok)
		require.Equal(t, errs.KindInvalidCredentials, kind)

		_, errNoUser := Instance.Login(authapimodels.LoginRequest{
			Email:    "unknown@example.com",
			Password: "strong-password",
		})
		require.NotNil(t, errNoUser)
		kind, ok = errs.GetKind(errNoUser)
		require.True(t, ok)
		require.Equal(t, errs.KindInvalidCredentials, kind)
		require.Equal(t, errWrongPass.Error(), errNoUser.Error())
	})
}

func TestRefresh(t *testing.T) {
	setupTest(t)
	reg, err := Instance.Register(authapimodels.RegisterRequest{
		Email:    "sidorov@example.com",
		Name:     "Сидоров Семен",
		Password: "strong-password",
	})
	require.Nil(t, err)

	t.Run(`обновление выдает новую пару токенов`, func(t *testing.T) {
		resp, err := Instance.Refresh(reg.RefreshToken)
		require.Nil(t, err)
		require.NotEmpty(t, resp.Token)
		require.NotEmpty(t, resp.RefreshToken)
	})

	t.Run(`access токен не подходит для обновления`, func(t *testing.T) {
		_, err := Instance.Refresh(reg.Token)
		require.NotNil(t, err)
		kind, ok := errs.GetKind(err)
		require.True(t, ok)
		require.Equal(t, errs.KindInvalidToken, kind)
	})

	t.Run(`мусор вместо refresh токена`, func(t *testing.T) {
		_, err := Instance.Refresh("not-a-token")
		require.NotNil(t, err)
	})
}
