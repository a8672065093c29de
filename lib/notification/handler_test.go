package notificationhandler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"approval-flow-backend/db"
	"approval-flow-backend/lib/smtp"
	usersstore "approval-flow-backend/lib/users/store"
	"approval-flow-backend/lib/utils/errs"
	notificationapimodels "approval-flow-backend/models/api/notification"
	dbmodels "approval-flow-backend/models/db"
)

func setupTest(t *testing.T) string {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.Nil(t, err)
	sqlDB, err := conn.DB()
	require.Nil(t, err)
	sqlDB.SetMaxOpenConns(1)
	db.DB = conn
	require.Nil(t, db.AutoMigrateDB())
	require.Nil(t, smtp.Connect("", "", "", "", "", false))
	NewHandler()

	userID, err := usersstore.NewInstance(db.DB).Create(dbmodels.User{
		Email:        "user@example.com",
		Name:         "Пользователь",
		PasswordHash: "hash",
	})
	require.Nil(t, err)
	return userID
}

func TestNotifications(t *testing.T) {
	userID := setupTest(t)

	Instance.Notify(userID, "Назначен этап согласования", "Вам назначен этап по заявке")
	Instance.Notify(userID, "Заявка согласована", "Заявка прошла все этапы")

	t.Run(`список и счетчик непрочитанных`, func(t *testing.T) {
		list, rowCount, err := Instance.List(userID, notificationapimodels.NotificationFilter{})
		require.Nil(t, err)
		require.Equal(t, int64(2), rowCount)
		require.Len(t, list, 2)

		count, err := Instance.UnreadCount(userID)
		require.Nil(t, err)
		require.Equal(t, int64(2), count)
	})

	t.Run(`отметка прочитанным`, func(t *testing.T) {
		list, _, err := Instance.List(userID, notificationapimodels.NotificationFilter{})
		require.Nil(t, err)
		require.Nil(t, Instance.MarkRead(userID, list[0].ID))

		count, err := Instance.UnreadCount(userID)
		require.Nil(t, err)
		require.Equal(t, int64(1), count)

		list, rowCount, err := Instance.List(userID, notificationapimodels.NotificationFilter{OnlyUnread: true})
		require.Nil(t, err)
		require.Equal(t, int64(1), rowCount)
		require.Len(t, list, 1)
	})

	t.Run(`чужое уведомление не отмечается`, func(t *testing.T) {
		list, _, err := Instance.List(userID, notificationapimodels.NotificationFilter{})
		require.Nil(t, err)
		err = Instance.MarkRead("other-user", list[0].ID)
		kind, ok := errs.GetKind(err)
		require.True(t, ok)
		require.Equal(t, errs.KindNotFound, kind)
	})

	t.Run(`отметить все прочитанными`, func(t *testing.T) {
		require.Nil(t, Instance.MarkAllRead(userID))
		count, err := Instance.UnreadCount(userID)
		require.Nil(t, err)
		require.Equal(t, int64(0), count)
	})
}
