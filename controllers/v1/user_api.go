package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"approval-flow-backend/controllers"
	usershandler "approval-flow-backend/lib/users"
	"approval-flow-backend/middleware"
	apimodels "approval-flow-backend/models/api"
	usersapimodels "approval-flow-backend/models/api/users"
)

type userApiController struct {
	controllers.BaseAPIController
}

func InitUserApiRouters(app *fiber.App) {
	controller := userApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Post("search", controller.search)
		router.Route("me", func(meRoute fiber.Router) {
			meRoute.Get("", controller.get)
			meRoute.Put("", controller.update)
			meRoute.Patch("password", controller.changePassword)
			meRoute.Delete("", controller.delete)
		})
	})
}

// @Summary Профиль текущего пользователя
// @Tags Пользователи
// @Description Профиль текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me [get]
func (c *userApiController) get(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	resp, err := usershandler.Instance.GetByID(userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Обновление профиля
// @Tags Пользователи
// @Description Обновление профиля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 usersapimodels.UpdateUser	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me [put]
func (c *userApiController) update(ctx *fiber.Ctx) error {
	var payload usersapimodels.UpdateUser
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления профиля")
	}
	userID := middleware.GetUserID(ctx)
	err := usershandler.Instance.Update(userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления профиля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Смена пароля
// @Tags Пользователи
// @Description Смена пароля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 usersapimodels.ChangePassword	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me/password [patch]
func (c *userApiController) changePassword(ctx *fiber.Ctx) error {
	var payload usersapimodels.ChangePassword
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены пароля")
	}
	userID := middleware.GetUserID(ctx)
	err := usershandler.Instance.ChangePassword(userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены пароля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление учетной записи
// @Tags Пользователи
// @Description Удаление учетной записи со всеми заявками и уведомлениями
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me [delete]
func (c *userApiController) delete(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	err := usershandler.Instance.Delete(userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Поиск пользователей
// @Tags Пользователи
// @Description Поиск пользователей по имени или почте, для выбора ответственных за этапы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 usersapimodels.UserFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/search [post]
func (c *userApiController) search(ctx *fiber.Ctx) error {
	var payload usersapimodels.UserFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	list, rowCount, err := usershandler.Instance.Search(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка поиска пользователей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}
