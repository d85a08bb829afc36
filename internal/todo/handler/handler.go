package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/arunsaradgi/fullstacktodo/internal/todo"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Service is the subset of service.Service the handlers use.
type Service interface {
	List(ctx context.Context) ([]todo.Todo, error)
	Get(ctx context.Context, id string) (*todo.Todo, error)
	Create(ctx context.Context, in todo.CreateInput) (*todo.Todo, error)
	Update(ctx context.Context, id string, p todo.Patch) (*todo.Todo, error)
	Delete(ctx context.Context, id string) (*todo.Todo, error)
}

// RegisterTodoRoutes mounts the todo resource under rg at /todos.
// Errors the handlers cannot classify are attached to the gin context and
// left to the catch-all error middleware.
func RegisterTodoRoutes(rg gin.IRouter, svc Service) {
	h := &todoHandler{svc: svc}
	g := rg.Group("/todos")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

type todoHandler struct {
	svc Service
}

func (h *todoHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *todoHandler) get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *todoHandler) create(c *gin.Context) {
	var in todo.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, bindError(err))
		return
	}
	t, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *todoHandler) update(c *gin.Context) {
	var p todo.Patch
	// an empty body is an empty patch
	if err := c.ShouldBindJSON(&p); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, bindError(err))
		return
	}
	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *todoHandler) remove(c *gin.Context) {
	t, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// respondError writes the client response for classified errors and hands
// everything else to the error middleware.
func respondError(c *gin.Context, err error) {
	var ve *todo.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "error": ve.Error(), "field": ve.Field})
	case errors.Is(err, todo.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Todo not found"})
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body too large"})
	default:
		_ = c.Error(err)
		c.Abort()
	}
}

// bindError turns a gin binding failure into a ValidationError.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return err
	case errors.As(err, &verrs) && len(verrs) > 0:
		return &todo.ValidationError{Field: strings.ToLower(verrs[0].Field()), Reason: "is required"}
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return &todo.ValidationError{Field: "body", Reason: "must be a valid JSON object"}
		}
		return &todo.ValidationError{Field: typeErr.Field, Reason: "must be a " + typeErr.Type.String()}
	case errors.Is(err, io.EOF):
		return &todo.ValidationError{Field: "body", Reason: "is required"}
	default:
		return &todo.ValidationError{Field: "body", Reason: "must be a valid JSON object"}
	}
}
