package requesthandler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"approval-flow-backend/db"
	usersstore "approval-flow-backend/lib/users/store"
	"approval-flow-backend/lib/utils/errs"
	"approval-flow-backend/models"
	requestapimodels "approval-flow-backend/models/api/request"
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

func createUser(t *testing.T, email, name string) string {
	id, err := usersstore.NewInstance(db.DB).Create(dbmodels.User{
		Email:        email,
		Name:         name,
		PasswordHash: "hash",
	})
	require.Nil(t, err)
	return id
}

func requireKind(t *testing.T, err error, expected errs.Kind) {
	require.NotNil(t, err)
	kind, ok := errs.GetKind(err)
	require.True(t, ok)
	require.Equal(t, expected, kind)
}

func TestCreate(t *testing.T) {
	setupTest(t)
	creator := createUser(t, "author@example.com", "Автор")
	approver := createUser(t, "appr@example.com", "Согласующий")

	t.Run(`создание с этапами`, func(t *testing.T) {
		id, err := Instance.Create(creator, requestapimodels.RequestCreateData{
			RequestData: requestapimodels.RequestData{Title: "Командировка"},
			Stages: requestapimodels.Stages{Stages: []requestapimodels.StageData{
				{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
			}},
		})
		require.Nil(t, err)
		require.NotEmpty(t, id)

		view, err := Instance.GetByID(creator, id)
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusDraft, view.Status)
		require.Len(t, view.Stages, 1)
		require.Equal(t, models.StageStatusPending, view.Stages[0].Status)
		require.True(t, view.CanEdit)
		require.True(t, view.CanSubmit)
	})

	t.Run(`неизвестный ответственный за этап`, func(t *testing.T) {
		_, err := Instance.Create(creator, requestapimodels.RequestCreateData{
			RequestData: requestapimodels.RequestData{Title: "Командировка"},
			Stages: requestapimodels.Stages{Stages: []requestapimodels.StageData{
				{StageType: models.StageTypeApprove, AssignedUserID: "missing-user", OrderIndex: 1},
			}},
		})
		requireKind(t, err, errs.KindValidation)
	})
}

func TestAccess(t *testing.T) {
	setupTest(t)
	creator := createUser(t, "author@example.com", "Автор")
	approver := createUser(t, "appr@example.com", "Согласующий")
	stranger := createUser(t, "other@example.com", "Посторонний")

	id, err := Instance.Create(creator, requestapimodels.RequestCreateData{
		RequestData: requestapimodels.RequestData{Title: "Командировка"},
		Stages: requestapimodels.Stages{Stages: []requestapimodels.StageData{
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
		}},
	})
	require.Nil(t, err)

	t.Run(`доступ автора и ответственного`, func(t *testing.T) {
		_, err := Instance.GetByID(creator, id)
		require.Nil(t, err)
		_, err = Instance.GetByID(approver, id)
		require.Nil(t, err)
	})

	t.Run(`доступ постороннего запрещен`, func(t *testing.T) {
		_, err := Instance.GetByID(stranger, id)
		requireKind(t, err, errs.KindForbidden)
	})

	t.Run(`редактирование не автором запрещено`, func(t *testing.T) {
		err := Instance.Update(approver, id, requestapimodels.RequestEditData{
			RequestData: requestapimodels.RequestData{Title: "Другое"},
		})
		requireKind(t, err, errs.KindForbidden)
	})
}

func TestUpdateDelete(t *testing.T) {
	setupTest(t)
	creator := createUser(t, "author@example.com", "Автор")
	approver := createUser(t, "appr@example.com", "Согласующий")

	newRequest := func(t *testing.T) string {
		id, err := Instance.Create(creator, requestapimodels.RequestCreateData{
			RequestData: requestapimodels.RequestData{Title: "Командировка"},
			Stages: requestapimodels.Stages{Stages: []requestapimodels.StageData{
				{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
			}},
		})
		require.Nil(t, err)
		return id
	}

	t.Run(`черновик редактируется`, func(t *testing.T) {
		id := newRequest(t)
		err := Instance.Update(creator, id, requestapimodels.RequestEditData{
			RequestData: requestapimodels.RequestData{Title: "Командировка в Казань", Description: "на неделю"},
		})
		require.Nil(t, err)
		view, err := Instance.GetByID(creator, id)
		require.Nil(t, err)
		require.Equal(t, "Командировка в Казань", view.Title)
		require.Equal(t, "на неделю", view.Description)
	})

	t.Run(`не черновик не редактируется`, func(t *testing.T) {
		id := newRequest(t)
		err := db.DB.Model(&dbmodels.Request{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"status": models.RequestStatusInApproval}).
			Error
		require.Nil(t, err)
		err = Instance.Update(creator, id, requestapimodels.RequestEditData{
			RequestData: requestapimodels.RequestData{Title: "Другое"},
		})
		requireKind(t, err, errs.KindInvalidState)
		err = Instance.Delete(creator, id)
		requireKind(t, err, errs.KindInvalidState)
	})

	t.Run(`удаление черновика`, func(t *testing.T) {
		id := newRequest(t)
		require.Nil(t, Instance.Delete(creator, id))
		_, err := Instance.GetByID(creator, id)
		requireKind(t, err, errs.KindNotFound)
	})
}

func TestList(t *testing.T) {
	setupTest(t)
	creator := createUser(t, "author@example.com", "Автор")
	approver := createUser(t, "appr@example.com", "Согласующий")

	for k := 0; k < 3; k++ {
		_, err := Instance.Create(creator, requestapimodels.RequestCreateData{
			RequestData: requestapimodels.RequestData{Title: "Заявка"},
			Stages: requestapimodels.Stages{Stages: []requestapimodels.StageData{
				{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
			}},
		})
		require.Nil(t, err)
	}

	t.Run(`свои заявки`, func(t *testing.T) {
		list, rowCount, err := Instance.List(creator, requestapimodels.RequestFilter{})
		require.Nil(t, err)
		require.Equal(t, int64(3), rowCount)
		require.Len(t, list, 3)
	})

	t.Run(`ответственный видит заявки только с флагом участия`, func(t *testing.T) {
		_, rowCount, err := Instance.List(approver, requestapimodels.RequestFilter{})
		require.Nil(t, err)
		require.Equal(t, int64(0), rowCount)

		_, rowCount, err = Instance.List(approver, requestapimodels.RequestFilter{IncludeParticipating: true})
		require.Nil(t, err)
		require.Equal(t, int64(3), rowCount)
	})

	t.Run(`фильтр по статусу`, func(t *testing.T) {
		status := models.RequestStatusApproved
		_, rowCount, err := Instance.List(creator, requestapimodels.RequestFilter{Status: &status})
		require.Nil(t, err)
		require.Equal(t, int64(0), rowCount)
	})
}

func TestComments(t *testing.T) {
	setupTest(t)
	creator := createUser(t, "author@example.com", "Автор")
	approver := createUser(t, "appr@example.com", "Согласующий")
	stranger := createUser(t, "other@example.com", "Посторонний")

	id, err := Instance.Create(creator, requestapimodels.RequestCreateData{
		RequestData: requestapimodels.RequestData{Title: "Командировка"},
		Stages: requestapimodels.Stages{Stages: []requestapimodels.StageData{
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
		}},
	})
	require.Nil(t, err)

	t.Run(`комментарии участников`, func(t *testing.T) {
		_, err := Instance.AddComment(creator, id, requestapimodels.CommentData{Comment: "прошу согласовать"})
		require.Nil(t, err)
		_, err = Instance.AddComment(approver, id, requestapimodels.CommentData{Comment: "смотрю"})
		require.Nil(t, err)

		list, err := Instance.ListComments(creator, id)
		require.Nil(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "прошу согласовать", list[0].Comment)
		require.Equal(t, "Автор", list[0].AuthorName)
	})

	t.Run(`посторонний не комментирует`, func(t *testing.T) {
		_, err := Instance.AddComment(stranger, id, requestapimodels.CommentData{Comment: "я мимо"})
		requireKind(t, err, errs.KindForbidden)
	})
}
