package controller

import (
	"io"

	"document-bot-be/internal/dto"
	"document-bot-be/internal/pkg/serverutils"
	"document-bot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	ClearMessages(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IAssistantService
}

func NewAssistantController(service service.IAssistantService) IAssistantController {
	return &assistantController{service: service}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.SessionMiddleware)
	h.Post("/ask", c.Ask)
	h.Get("/messages", c.GetMessages)
	h.Delete("/messages", c.ClearMessages)
}

func (c *assistantController) Ask(ctx *fiber.Ctx) error {
	sessionKey := ctx.Locals("session_key").(string)

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// Optional document upload riding along with the question.
	var fileName string
	var fileContent []byte
	if header, err := ctx.FormFile("file"); err == nil && header != nil {
		f, err := header.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cannot read uploaded file")
		}
		fileContent, err = io.ReadAll(f)
		f.Close()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cannot read uploaded file")
		}
		fileName = header.Filename
	}

	res, err := c.service.Ask(ctx.Context(), sessionKey, &req, fileName, fileContent)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

func (c *assistantController) GetMessages(ctx *fiber.Ctx) error {
	sessionKey := ctx.Locals("session_key").(string)

	res, err := c.service.GetMessages(ctx.Context(), sessionKey)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *assistantController) ClearMessages(ctx *fiber.Ctx) error {
	sessionKey := ctx.Locals("session_key").(string)

	if err := c.service.ClearMessages(ctx.Context(), sessionKey); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear messages", nil))
}
