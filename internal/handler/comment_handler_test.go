package handler_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/handler"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/mocks"
	"campus-lostfound/internal/service/comment"
)

func commentApp(userID uuid.UUID) (*fiber.App, *mocks.CommentRepository, *mocks.ItemRepository, *mocks.UserRepository) {
	commentRepo := new(mocks.CommentRepository)
	itemRepo := new(mocks.ItemRepository)
	userRepo := new(mocks.UserRepository)
	h := handler.NewCommentHandler(comment.NewService(commentRepo, itemRepo, userRepo, new(mocks.Publisher)))

	app := newApp(userID)
	app.Get("/items/:itemId/comments", h.List)
	app.Post("/items/:itemId/comments", h.Create)
	app.Put("/items/:itemId/comments/:commentId", h.Update)
	app.Delete("/items/:itemId/comments/:commentId", h.Delete)
	return app, commentRepo, itemRepo, userRepo
}

func TestCommentHandler_Create(t *testing.T) {
	author := &domain.User{ID: uuid.New(), Email: "dana@campus.edu", FullName: "Dana"}
	item := &domain.Item{ID: uuid.New(), IsVisible: true, ReportedBy: uuid.New()}

	t.Run("Success", func(t *testing.T) {
		app, commentRepo, itemRepo, userRepo := commentApp(author.ID)
		itemRepo.On("GetByID", mock.Anything, item.ID).Return(item, nil).Once()
		userRepo.On("GetByID", mock.Anything, author.ID).Return(author, nil).Once()
		commentRepo.On("Mutate", mock.Anything, item.ID).Return([]domain.Comment{}, nil).Once()

		resp := do(t, app, "POST", "/items/"+item.ID.String()+"/comments", `{"message":"I saw it at the bus stop"}`)

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		var comments []domain.Comment
		decode(t, resp, &comments)
		assert.Len(t, comments, 1)
		assert.Equal(t, "Dana", comments[0].UserName)
	})

	t.Run("Anonymous", func(t *testing.T) {
		app, _, _, _ := commentApp(uuid.Nil)

		resp := do(t, app, "POST", "/items/"+item.ID.String()+"/comments", `{"message":"hi"}`)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Invalid item ID", func(t *testing.T) {
		app, _, _, _ := commentApp(author.ID)

		resp := do(t, app, "POST", "/items/not-a-uuid/comments", `{"message":"hi"}`)

		var body middleware.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid item ID", body.Message)
	})

	t.Run("Empty message", func(t *testing.T) {
		app, _, _, _ := commentApp(author.ID)

		resp := do(t, app, "POST", "/items/"+item.ID.String()+"/comments", `{"message":"  "}`)

		var body middleware.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "message", body.Field)
	})
}

func TestCommentHandler_Update(t *testing.T) {
	itemID := uuid.New()
	authorID := uuid.New()
	existing := []domain.Comment{{ID: "c-1", UserID: authorID, Message: "hello"}}

	t.Run("Permission Error", func(t *testing.T) {
		app, commentRepo, _, _ := commentApp(uuid.New())
		commentRepo.On("Mutate", mock.Anything, itemID).Return(existing, nil).Once()

		resp := do(t, app, "PUT", "/items/"+itemID.String()+"/comments/c-1", `{"message":"hijack"}`)

		var body middleware.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", body.Code)
	})

	t.Run("Unknown comment", func(t *testing.T) {
		app, commentRepo, _, _ := commentApp(authorID)
		commentRepo.On("Mutate", mock.Anything, itemID).Return(existing, nil).Once()

		resp := do(t, app, "DELETE", "/items/"+itemID.String()+"/comments/c-9", "")

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestCommentHandler_List(t *testing.T) {
	hidden := &domain.Item{ID: uuid.New(), IsVisible: false, ReportedBy: uuid.New()}
	app, _, itemRepo, _ := commentApp(uuid.Nil)
	itemRepo.On("GetByID", mock.Anything, hidden.ID).Return(hidden, nil).Once()

	resp := do(t, app, "GET", "/items/"+hidden.ID.String()+"/comments", "")

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
