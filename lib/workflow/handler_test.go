package workflowhandler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"approval-flow-backend/db"
	notificationhandler "approval-flow-backend/lib/notification"
	notificationstore "approval-flow-backend/lib/notification/store"
	requesthandler "approval-flow-backend/lib/request"
	"approval-flow-backend/lib/smtp"
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
	require.Nil(t, smtp.Connect("", "", "", "", "", false))
	notificationhandler.NewHandler()
	requesthandler.NewHandler()
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

func createRequest(t *testing.T, creatorID string, stages []requestapimodels.StageData) string {
	id, err := requesthandler.Instance.Create(creatorID, requestapimodels.RequestCreateData{
		RequestData: requestapimodels.RequestData{
			Title:       "Закупка оборудования",
			Description: "Сервер для стенда",
		},
		Stages: requestapimodels.Stages{Stages: stages},
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

func stageByOrder(t *testing.T, view requestapimodels.RequestView, order int) requestapimodels.StageView {
	for _, stage := range view.Stages {
		if stage.OrderIndex == order {
			return stage
		}
	}
	t.Fatalf("этап с номером %v не найден", order)
	return requestapimodels.StageView{}
}

func TestSubmit(t *testing.T) {
	setupTest(t)
	creator := createUser(t, "author@example.com", "Автор")
	recommender := createUser(t, "rec@example.com", "Рекомендатель")
	approver := createUser(t, "appr@example.com", "Согласующий")

	t.Run(`отправка переводит заявку и первый этап в работу`, func(t *testing.T) {
		id := createRequest(t, creator, []requestapimodels.StageData{
			{StageType: models.StageTypeRecommend, AssignedUserID: recommender, OrderIndex: 1},
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 2},
		})
		view, err := Instance.Submit(creator, id)
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusInReview, view.Status)
		require.NotNil(t, view.SubmittedAt)
		first := stageByOrder(t, view, 1)
		require.Equal(t, models.StageStatusInProgress, first.Status)
		require.NotNil(t, view.CurrentStageID)
		require.Equal(t, first.ID, *view.CurrentStageID)
		second := stageByOrder(t, view, 2)
		require.Equal(t, models.StageStatusPending, second.Status)

		// ответственный за первый этап уведомлен
		count, err := notificationstore.NewInstance(db.DB).CountUnread(recommender)
		require.Nil(t, err)
		require.Equal(t, int64(1), count)
	})

	t.Run(`первый этап согласования дает статус IN_APPROVAL`, func(t *testing.T) {
		id := createRequest(t, creator, []requestapimodels.StageData{
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
		})
		view, err := Instance.Submit(creator, id)
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusInApproval, view.Status)
	})

	t.Run(`отправка не автором запрещена`, func(t *testing.T) {
		id := createRequest(t, creator, []requestapimodels.StageData{
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
		})
		_, err := Instance.Submit(approver, id)
		requireKind(t, err, errs.KindForbidden)
	})

	t.Run(`повторная отправка недопустима`, func(t *testing.T) {
		id := createRequest(t, creator, []requestapimodels.StageData{
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
		})
		_, err := Instance.Submit(creator, id)
		require.Nil(t, err)
		_, err = Instance.Submit(creator, id)
		requireKind(t, err, errs.KindInvalidState)
	})

	t.Run(`отправка без этапов недопустима`, func(t *testing.T) {
		id := createRequest(t, creator, nil)
		_, err := Instance.Submit(creator, id)
		requireKind(t, err, errs.KindNoStages)
	})

	t.Run(`отправка несуществующей заявки`, func(t *testing.T) {
		_, err := Instance.Submit(creator, "missing-id")
		requireKind(t, err, errs.KindNotFound)
	})
}

func TestTakeAction(t *testing.T) {
	setupTest(t)
	creator := createUser(t, "author@example.com", "Автор")
	recommender := createUser(t, "rec@example.com", "Рекомендатель")
	approver := createUser(t, "appr@example.com", "Согласующий")

	newSubmitted := func(t *testing.T) requestapimodels.RequestView {
		id := createRequest(t, creator, []requestapimodels.StageData{
			{StageType: models.StageTypeRecommend, AssignedUserID: recommender, OrderIndex: 1},
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 2},
		})
		view, err := Instance.Submit(creator, id)
		require.Nil(t, err)
		return view
	}

	t.Run(`полный цикл согласования`, func(t *testing.T) {
		view := newSubmitted(t)
		first := stageByOrder(t, view, 1)

		view, err := Instance.TakeAction(recommender, first.ID, requestapimodels.StageActionData{
			Action:  models.StageActionRecommended,
			Comment: "рекомендую",
		})
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusInApproval, view.Status)
		done := stageByOrder(t, view, 1)
		require.Equal(t, models.StageStatusCompleted, done.Status)
		require.NotNil(t, done.Action)
		require.Equal(t, models.StageActionRecommended, *done.Action)
		require.NotNil(t, done.ActionAt)
		require.Equal(t, "рекомендую", done.Comment)
		second := stageByOrder(t, view, 2)
		require.Equal(t, models.StageStatusInProgress, second.Status)
		require.Equal(t, second.ID, *view.CurrentStageID)

		view, err = Instance.TakeAction(approver, second.ID, requestapimodels.StageActionData{
			Action: models.StageActionApproved,
		})
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusApproved, view.Status)
		require.NotNil(t, view.CompletedAt)
		require.Nil(t, view.CurrentStageID)
	})

	t.Run(`действие вне очереди`, func(t *testing.T) {
		view := newSubmitted(t)
		second := stageByOrder(t, view, 2)
		_, err := Instance.TakeAction(approver, second.ID, requestapimodels.StageActionData{
			Action: models.StageActionApproved,
		})
		requireKind(t, err, errs.KindOutOfOrder)
	})

	t.Run(`действие чужого пользователя запрещено`, func(t *testing.T) {
		view := newSubmitted(t)
		first := stageByOrder(t, view, 1)
		_, err := Instance.TakeAction(approver, first.ID, requestapimodels.StageActionData{
			Action: models.StageActionRecommended,
		})
		requireKind(t, err, errs.KindForbidden)
	})

	t.Run(`действие не соответствует типу этапа`, func(t *testing.T) {
		view := newSubmitted(t)
		first := stageByOrder(t, view, 1)
		_, err := Instance.TakeAction(recommender, first.ID, requestapimodels.StageActionData{
			Action: models.StageActionApproved,
		})
		requireKind(t, err, errs.KindValidation)
	})

	t.Run(`отклонение завершает заявку, поздние этапы не трогаются`, func(t *testing.T) {
		view := newSubmitted(t)
		first := stageByOrder(t, view, 1)
		view, err := Instance.TakeAction(recommender, first.ID, requestapimodels.StageActionData{
			Action: models.StageActionRecommended,
		})
		require.Nil(t, err)
		second := stageByOrder(t, view, 2)
		view, err = Instance.TakeAction(approver, second.ID, requestapimodels.StageActionData{
			Action:  models.StageActionRejected,
			Comment: "бюджет исчерпан",
		})
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusRejected, view.Status)
		require.NotNil(t, view.CompletedAt)
		require.Nil(t, view.CurrentStageID)
	})

	t.Run(`повторное действие по завершенному этапу`, func(t *testing.T) {
		view := newSubmitted(t)
		first := stageByOrder(t, view, 1)
		_, err := Instance.TakeAction(recommender, first.ID, requestapimodels.StageActionData{
			Action: models.StageActionRecommended,
		})
		require.Nil(t, err)
		_, err = Instance.TakeAction(recommender, first.ID, requestapimodels.StageActionData{
			Action: models.StageActionRecommended,
		})
		requireKind(t, err, errs.KindInvalidState)
	})

	t.Run(`действие по черновику недопустимо`, func(t *testing.T) {
		id := createRequest(t, creator, []requestapimodels.StageData{
			{StageType: models.StageTypeRecommend, AssignedUserID: recommender, OrderIndex: 1},
		})
		view, err := requesthandler.Instance.GetByID(creator, id)
		require.Nil(t, err)
		first := stageByOrder(t, view, 1)
		_, err = Instance.TakeAction(recommender, first.ID, requestapimodels.StageActionData{
			Action: models.StageActionRecommended,
		})
		requireKind(t, err, errs.KindInvalidState)
	})
}

func TestCancel(t *testing.T) {
	setupTest(t)
	creator := createUser(t, "author@example.com", "Автор")
	approver := createUser(t, "appr@example.com", "Согласующий")

	t.Run(`отмена черновика`, func(t *testing.T) {
		id := createRequest(t, creator, []requestapimodels.StageData{
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
		})
		view, err := Instance.Cancel(creator, id)
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusCancelled, view.Status)
		require.NotNil(t, view.CompletedAt)
		require.Equal(t, models.StageStatusSkipped, stageByOrder(t, view, 1).Status)
	})

	t.Run(`отмена на согласовании пропускает незавершенные этапы`, func(t *testing.T) {
		id := createRequest(t, creator, []requestapimodels.StageData{
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
		})
		_, err := Instance.Submit(creator, id)
		require.Nil(t, err)
		view, err := Instance.Cancel(creator, id)
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusCancelled, view.Status)
		require.Nil(t, view.CurrentStageID)
		require.Equal(t, models.StageStatusSkipped, stageByOrder(t, view, 1).Status)
	})

	t.Run(`отмена не автором запрещена`, func(t *testing.T) {
		id := createRequest(t, creator, []requestapimodels.StageData{
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
		})
		_, err := Instance.Cancel(approver, id)
		requireKind(t, err, errs.KindForbidden)
	})

	t.Run(`отмена согласованной заявки недопустима`, func(t *testing.T) {
		id := createRequest(t, creator, []requestapimodels.StageData{
			{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 1},
		})
		view, err := Instance.Submit(creator, id)
		require.Nil(t, err)
		_, err = Instance.TakeAction(approver, stageByOrder(t, view, 1).ID, requestapimodels.StageActionData{
			Action: models.StageActionApproved,
		})
		require.Nil(t, err)
		_, err = Instance.Cancel(creator, id)
		requireKind(t, err, errs.KindInvalidState)
	})
}

func TestPendingActions(t *testing.T) {
	setupTest(t)
	creator := createUser(t, "author@example.com", "Автор")
	recommender := createUser(t, "rec@example.com", "Рекомендатель")
	approver := createUser(t, "appr@example.com", "Согласующий")

	firstID := createRequest(t, creator, []requestapimodels.StageData{
		{StageType: models.StageTypeRecommend, AssignedUserID: recommender, OrderIndex: 1},
		{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 2},
	})
	secondID := createRequest(t, creator, []requestapimodels.StageData{
		{StageType: models.StageTypeApprove, AssignedUserID: recommender, OrderIndex: 1},
	})
	_, err := Instance.Submit(creator, firstID)
	require.Nil(t, err)
	_, err = Instance.Submit(creator, secondID)
	require.Nil(t, err)

	t.Run(`этапы в работе у ответственного`, func(t *testing.T) {
		view, err := Instance.PendingActions(recommender, requestapimodels.PendingFilter{})
		require.Nil(t, err)
		require.Len(t, view.Items, 2)
		require.Equal(t, 2, view.TotalPending)
		require.Equal(t, 1, view.RecommendationsPending)
		require.Equal(t, 1, view.ApprovalsPending)
		require.Equal(t, "Закупка оборудования", view.Items[0].RequestTitle)
		require.Equal(t, "Автор", view.Items[0].CreatorName)
		require.NotEmpty(t, view.Items[0].WaitingFor)
	})

	t.Run(`фильтр по типу этапа`, func(t *testing.T) {
		stageType := models.StageTypeApprove
		view, err := Instance.PendingActions(recommender, requestapimodels.PendingFilter{StageType: &stageType})
		require.Nil(t, err)
		require.Len(t, view.Items, 1)
		require.Equal(t, models.StageTypeApprove, view.Items[0].StageType)
	})

	t.Run(`у второго согласующего пока пусто`, func(t *testing.T) {
		view, err := Instance.PendingActions(approver, requestapimodels.PendingFilter{})
		require.Nil(t, err)
		require.Len(t, view.Items, 0)
		require.Equal(t, 0, view.TotalPending)
	})
}

func TestHistory(t *testing.T) {
	setupTest(t)
	creator := createUser(t, "author@example.com", "Автор")
	recommender := createUser(t, "rec@example.com", "Рекомендатель")
	approver := createUser(t, "appr@example.com", "Согласующий")
	stranger := createUser(t, "other@example.com", "Посторонний")

	id := createRequest(t, creator, []requestapimodels.StageData{
		{StageType: models.StageTypeRecommend, AssignedUserID: recommender, OrderIndex: 1},
		{StageType: models.StageTypeApprove, AssignedUserID: approver, OrderIndex: 2},
	})
	view, err := Instance.Submit(creator, id)
	require.Nil(t, err)
	_, err = Instance.TakeAction(recommender, stageByOrder(t, view, 1).ID, requestapimodels.StageActionData{
		Action:  models.StageActionRecommended,
		Comment: "рекомендую",
	})
	require.Nil(t, err)

	t.Run(`история доступна участникам и упорядочена`, func(t *testing.T) {
		list, err := Instance.History(recommender, id)
		require.Nil(t, err)
		require.Len(t, list, 2)
		require.Equal(t, 1, list[0].OrderIndex)
		require.Equal(t, 2, list[1].OrderIndex)
		require.Equal(t, models.StageStatusCompleted, list[0].Status)
		require.Equal(t, "рекомендую", list[0].Comment)
		require.Equal(t, models.StageStatusInProgress, list[1].Status)
	})

	t.Run(`история недоступна постороннему`, func(t *testing.T) {
		_, err := Instance.History(stranger, id)
		requireKind(t, err, errs.KindForbidden)
	})
}
