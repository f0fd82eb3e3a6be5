package api

import (
	"net/http"

	"github.com/fridgechef/backend/internal/middleware"
	"github.com/fridgechef/backend/internal/service"
	"github.com/fridgechef/backend/internal/types"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.ICommentService
}

func NewCommentHandler(commentService service.ICommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/recipe/:id/comments/", h.ListComments)
	router.POST("/recipe/:id/comments/", h.CreateComment)
}

// ListComments returns the comments of a recipe, newest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}
	var req types.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Username = middleware.Username(c, req.Username)

	comment, err := h.commentService.CreateComment(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
