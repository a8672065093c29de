package apiv1

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"approval-flow-backend/controllers"
	attachmenthandler "approval-flow-backend/lib/attachment"
	"approval-flow-backend/middleware"
	apimodels "approval-flow-backend/models/api"
)

type attachmentApiController struct {
	controllers.BaseAPIController
}

func InitAttachmentApiRouters(app *fiber.App, bodyLimit int64) {
	controller := attachmentApiController{}
	app.Route("request/:id/attachment", func(router fiber.Router) {
		router.Post("", middleware.WithBodyLimit(bodyLimit), controller.upload)
		router.Get("", controller.list)
		router.Get(":attachmentId", controller.download)
		router.Delete(":attachmentId", controller.delete)
	})
}

// @Summary Загрузка вложения
// @Tags Вложения
// @Description Загрузка вложения к заявке участником согласования
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	file				formData	file	true	"файл"
// @Success 200 {object} apimodels.Response{data=requestapimodels.AttachmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/attachment [post]
func (c *attachmentApiController) upload(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось получить файл из запроса"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось прочитать файл из запроса"))
	}
	defer file.Close()

	userID := middleware.GetUserID(ctx)
	resp, err := attachmenthandler.Instance.Upload(ctx.Context(), userID, id,
		fileHeader.Filename, fileHeader.Header.Get(fiber.HeaderContentType), fileHeader.Size, file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки вложения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список вложений
// @Tags Вложения
// @Description Список вложений заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]requestapimodels.AttachmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/attachment [get]
func (c *attachmentApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	userID := middleware.GetUserID(ctx)
	resp, err := attachmenthandler.Instance.List(userID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вложений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Скачивание вложения
// @Tags Вложения
// @Description Скачивание вложения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   attachmentId		path    string  				    	true         "attachment ID"
// @Success 200 {file} binary
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/attachment/{attachmentId} [get]
func (c *attachmentApiController) download(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	attachmentID, err := c.GetIDByKey(ctx, "attachmentId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	userID := middleware.GetUserID(ctx)
	rec, body, err := attachmenthandler.Instance.Download(ctx.Context(), userID, id, attachmentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка скачивания вложения")
	}
	ctx.Set(fiber.HeaderContentType, rec.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", rec.FileName))
	return ctx.Status(fiber.StatusOK).Send(body)
}

// @Summary Удаление вложения
// @Tags Вложения
// @Description Удаление вложения автором файла или автором заявки, только в черновике
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   attachmentId		path    string  				    	true         "attachment ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/attachment/{attachmentId} [delete]
func (c *attachmentApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	attachmentID, err := c.GetIDByKey(ctx, "attachmentId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	userID := middleware.GetUserID(ctx)
	err = attachmenthandler.Instance.Delete(ctx.Context(), userID, id, attachmentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления вложения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
