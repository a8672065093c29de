package usershandler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"approval-flow-backend/db"
	usersstore "approval-flow-backend/lib/users/store"
	authutils "approval-flow-backend/lib/utils/auth-utils"
	"approval-flow-backend/lib/utils/errs"
	usersapimodels "approval-flow-backend/models/api/users"
	dbmodels "approval-flow-backend/models/db"
)

func setupTest(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.Nil(t, err)
	sqlDB, err := conn.DB()
	require.Nil(t, err)
	sqlDB.SetMaxOpenConns(1)
	db.DB = conn
	require.Nil(t, db.AutoMigrateDB())
	NewHandler()
}

func createUser(t *testing.T, email, name, password string) string {
	hash, err := authutils.HashPassword(password)
	require.Nil(t, err)
	id, err := usersstore.NewInstance(db.DB).Create(dbmodels.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	require.Nil(t, err)
	return id
}

func TestUpdate(t *testing.T) {
	setupTest(t)
	first := createUser(t, "ivanov@example.com", "Иванов Иван", "strong-password")
	createUser(t, "petrov@example.com", "Петров Петр", "strong-password")

	t.Run(`обновление имени и почты`, func(t *testing.T) {
		name := "Иванов И.И."
		email := "ivanov2@example.com"
		err := Instance.Update(first, usersapimodels.UpdateUser{Name: &name, Email: &email})
		require.Nil(t, err)
		view, err := Instance.GetByID(first)
		require.Nil(t, err)
		require.Equal(t, "Иванов И.И.", view.Name)
		require.Equal(t, "ivanov2@example.com", view.Email)
	})

	t.Run(`занятая почта`, func(t *testing.T) {
		email := "petrov@example.com"
		err := Instance.Update(first, usersapimodels.UpdateUser{Email: &email})
		require.NotNil(t, err)
		kind, ok := errs.GetKind(err)
		require.True(t, ok)
		require.Equal(t, errs.KindDuplicateEmail, kind)
	})
}

func TestChangePassword(t *testing.T) {
	setupTest(t)
	userID := createUser(t, "ivanov@example.com", "Иванов Иван", "strong-password")

	t.Run(`неверный текущий пароль`, func(t *testing.T) {
		err := Instance.ChangePassword(userID, usersapimodels.ChangePassword{
			CurrentPassword: "wrong-password",
			NewPassword:     "new-strong-password",
		})
		require.NotNil(t, err)
		kind, ok := errs.GetKind(err)
		require.True(t, ok)
		require.Equal(t, errs.KindInvalidCredentials, kind)
	})

	t.Run(`смена пароля`, func(t *testing.T) {
		err := Instance.ChangePassword(userID, usersapimodels.ChangePassword{
			CurrentPassword: "strong-password",
			NewPassword:     "new-strong-password",
		})
		require.Nil(t, err)
		rec, err := usersstore.NewInstance(db.DB).GetByID(userID)
		require.Nil(t, err)
		require.True(t, authutils.CheckPassword(rec.PasswordHash, "new-strong-password"))
	})
}

func TestSearch(t *testing.T) {
	setupTest(t)
	createUser(t, "ivanov@example.com", "Иванов Иван", "strong-password")
	createUser(t, "petrov@example.com", "Петров Петр", "strong-password")
	createUser(t, "sidorov@example.com", "Сидоров Семен", "strong-password")

	t.Run(`поиск по имени`, func(t *testing.T) {
		list, rowCount, err := Instance.Search(usersapimodels.UserFilter{Search: "етров"})
		require.Nil(t, err)
		require.Equal(t, int64(1), rowCount)
		require.Len(t, list, 1)
		require.Equal(t, "petrov@example.com", list[0].Email)
	})

	t.Run(`поиск по почте`, func(t *testing.T) {
		_, rowCount, err := Instance.Search(usersapimodels.UserFilter{Search: "sidorov@"})
		require.Nil(t, err)
		require.Equal(t, int64(1), rowCount)
	})

	t.Run(`без фильтра возвращаются все`, func(t *testing.T) {
		_, rowCount, err := Instance.Search(usersapimodels.UserFilter{})
		require.Nil(t, err)
		require.Equal(t, int64(3), rowCount)
	})
}

func TestDelete(t *testing.T) {
	setupTest(t)
	userID := createUser(t, "ivanov@example.com", "Иванов Иван", "strong-password")

	require.Nil(t, Instance.Delete(userID))
	_, err := Instance.GetByID(userID)
	require.NotNil(t, err)
	kind, ok := errs.GetKind(err)
	require.True(t, ok)
	require.Equal(t, errs.KindNotFound, kind)
}
