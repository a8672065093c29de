package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"approval-flow-backend/controllers"
	workflowhandler "approval-flow-backend/lib/workflow"
	"approval-flow-backend/middleware"
	"approval-flow-backend/models"
	apimodels "approval-flow-backend/models/api"
	requestapimodels "approval-flow-backend/models/api/request"
)

type workflowApiController struct {
	controllers.BaseAPIController
}

func InitWorkflowApiRouters(app *fiber.App) {
	controller := workflowApiController{}
	app.Route("workflow", func(router fiber.Router) {
		router.Get("pending", controller.pending)
		router.Put("stage/:id/action", controller.takeAction)
	})
}

// @Summary Действие по этапу
// @Tags Согласование
// @Description Действие ответственного по своему этапу: рекомендация, согласование или отклонение
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 requestapimodels.StageActionData	true	"request body"
// @Param   id          		path    string  				    	true         "stage ID"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workflow/stage/{id}/action [put]
func (c *workflowApiController) takeAction(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload requestapimodels.StageActionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выполнения действия по этапу")
	}
	userID := middleware.GetUserID(ctx)
	resp, err := workflowhandler.Instance.TakeAction(userID, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выполнения действия по этапу")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Назначенные этапы
// @Tags Согласование
// @Description Этапы, ожидающие действия текущего пользователя, с учетом фильтра по типу
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	stage_type			query 	string	false	"RECOMMEND/APPROVE"
// @Success 200 {object} apimodels.Response{data=requestapimodels.PendingActionsView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workflow/pending [get]
func (c *workflowApiController) pending(ctx *fiber.Ctx) error {
	filter := requestapimodels.PendingFilter{}
	if value := ctx.Query("stage_type"); value != "" {
		stageType := models.StageType(value)
		if !stageType.IsValid() {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("неизвестный тип этапа"))
		}
		filter.StageType = &stageType
	}

	userID := middleware.GetUserID(ctx)
	resp, err := workflowhandler.Instance.PendingActions(userID, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения назначенных этапов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
