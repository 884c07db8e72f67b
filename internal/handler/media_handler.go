package handler

import (
	"github.com/gofiber/fiber/v2"

	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/service/media"
)

type MediaHandler struct {
	mediaService media.Service
}

func NewMediaHandler(mediaService media.Service) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload stores one item photo from the multipart "file" field. The client
// attaches the returned URL to the item it creates or edits.
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer fileReader.Close()

	upload, err := h.mediaService.UploadImage(c.Context(), userID, fileReader)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(upload)
}
