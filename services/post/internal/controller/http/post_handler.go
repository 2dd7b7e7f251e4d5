package http

import (
	"errors"
	"io"
	"net/http"

	"post-board/pkg/logger"
	"post-board/pkg/middleware"
	"post-board/services/post/internal/entity"
	"post-board/services/post/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

// RegisterRoutes mounts the post endpoints on rg.
func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/posts", h.AddPost)
	rg.GET("/posts", h.GetPosts)
	rg.GET("/posts/:id", h.GetPost)
	rg.PUT("/posts/:id", h.UpdatePost)
	rg.DELETE("/posts/:id", h.DeletePost)
}

type ValidationErrorResponse struct {
	Error   string   `json:"error" example:"Bad Request"`
	Message []string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PostResponse struct {
	Post *entity.Post `json:"post"`
}

// AddPost godoc
// @Summary      Create a post
// @Description  Create a post guarded by its own password
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request body AddPostRequest true "Post data"
// @Success      201
// @Failure      400  {object}  ValidationErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts [post]
func (h *PostHandler) AddPost(c *gin.Context) {
	var req AddPostRequest
	if !h.bind(c, &req) {
		return
	}
	if violations := req.Validate(); len(violations) > 0 {
		h.badRequest(c, violations...)
		return
	}

	if _, err := h.postUseCase.AddPost(c.Request.Context(), req.Author, req.Password, req.Title, req.Content); err != nil {
		h.fail(c, "Failed to create post", err)
		return
	}

	c.Status(http.StatusCreated)
}

// GetPosts godoc
// @Summary      Search posts
// @Description  Newest first, 20 per page. Pass the returned beforeLastId to fetch the next page.
// @Tags         posts
// @Produce      json
// @Param        beforeLastId query int false "Only posts with a smaller id"
// @Param        keyword query string false "Whitespace separated words matched against title or content"
// @Success      200  {object}  entity.PostPage
// @Failure      400  {object}  ValidationErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts [get]
func (h *PostHandler) GetPosts(c *gin.Context) {
	beforeLastID, ok := parseCursor(c.Query("beforeLastId"))
	if !ok {
		h.badRequest(c, MsgInvalidID)
		return
	}

	page, err := h.postUseCase.GetPosts(c.Request.Context(), beforeLastID, c.Query("keyword"))
	if err != nil {
		h.fail(c, "Failed to search posts", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetPost godoc
// @Summary      Get post by ID
// @Tags         posts
// @Produce      json
// @Param        id path int true "Post ID"
// @Success      200  {object}  PostResponse
// @Failure      400  {object}  ValidationErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.badRequest(c, MsgInvalidID)
		return
	}

	post, err := h.postUseCase.GetPost(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to get post", err)
		return
	}

	c.JSON(http.StatusOK, PostResponse{Post: post})
}

// UpdatePost godoc
// @Summary      Update post
// @Description  Replace author, title and content. The password must match the one the post was created with.
// @Tags         posts
// @Accept       json
// @Param        id path int true "Post ID"
// @Param        request body UpdatePostRequest true "Update data"
// @Success      204
// @Failure      400  {object}  ValidationErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.badRequest(c, MsgInvalidID)
		return
	}

	var req UpdatePostRequest
	if !h.bind(c, &req) {
		return
	}
	if violations := req.Validate(); len(violations) > 0 {
		h.badRequest(c, violations...)
		return
	}

	if err := h.postUseCase.UpdatePost(c.Request.Context(), id, req.Password, req.Author, req.Title, req.Content); err != nil {
		h.fail(c, "Failed to update post", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeletePost godoc
// @Summary      Delete post
// @Description  Soft-delete a post. The password must match the one the post was created with.
// @Tags         posts
// @Accept       json
// @Param        id path int true "Post ID"
// @Param        request body DeletePostRequest true "Password"
// @Success      204
// @Failure      400  {object}  ValidationErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.badRequest(c, MsgInvalidID)
		return
	}

	var req DeletePostRequest
	if !h.bind(c, &req) {
		return
	}
	if violations := req.Validate(); len(violations) > 0 {
		h.badRequest(c, violations...)
		return
	}

	if err := h.postUseCase.DeletePost(c.Request.Context(), id, req.Password); err != nil {
		h.fail(c, "Failed to delete post", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// bind decodes a JSON body into req. An empty body leaves req zeroed so
// field validation reports what is missing.
func (h *PostHandler) bind(c *gin.Context, req interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(c, MsgInvalidBody)
		return false
	}
	return true
}

func (h *PostHandler) badRequest(c *gin.Context, messages ...string) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "Bad Request", Message: messages})
}

func (h *PostHandler) fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, usecase.ErrPostNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: MsgPostNotFound})
	case errors.Is(err, usecase.ErrPasswordMismatch):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: MsgPasswordMismatch})
	default:
		h.logger.Error("%s (request_id=%s): %v", action, c.GetString(middleware.RequestIDKey), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: action})
	}
}
