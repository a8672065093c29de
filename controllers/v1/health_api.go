package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"approval-flow-backend/controllers"
	"approval-flow-backend/db"
	apimodels "approval-flow-backend/models/api"
)

type healthApiController struct {
	controllers.BaseAPIController
}

func InitHealthApiRouters(app *fiber.App) {
	controller := healthApiController{}
	app.Get("health", controller.health)
	app.Get("readiness", controller.readiness)
}

// @Summary Проверка работоспособности
// @Tags Служебные
// @Description Проверка работоспособности
// @Success 200 {object} apimodels.Response
// @router /health [get]
func (c *healthApiController) health(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse("ok"))
}

// @Summary Проверка готовности
// @Tags Служебные
// @Description Проверка готовности, включая доступность БД
// @Success 200 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /readiness [get]
func (c *healthApiController) readiness(ctx *fiber.Ctx) error {
	if err := db.PingDB(); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("база данных недоступна"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse("ok"))
}
