package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fabrica-tour/api/internal/api/handler/v1/request"
	"github.com/fabrica-tour/api/internal/api/handler/v1/response"
	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/service"
)

type PostService interface {
	CreatePost(ctx context.Context, post domain.Post) (domain.Post, error)
	UpdatePost(ctx context.Context, post domain.Post) (domain.Post, error)
	DeletePost(ctx context.Context, id uint) error
	ListPosts(ctx context.Context) ([]domain.Post, error)
	ListForUser(ctx context.Context, user domain.User) ([]domain.Post, error)
	PublishDue(ctx context.Context, now time.Time) ([]domain.Post, error)
	AddComment(ctx context.Context, user domain.User, postID uint, body string) (domain.Comment, error)
	ListComments(ctx context.Context, user domain.User, postID uint) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, user domain.User, commentID uint) error
	React(ctx context.Context, user domain.User, postID uint, kind domain.ReactionKind) error
}

type PostHandler struct {
	svc  PostService
	uSvc UserService
}

func NewPostHandler(svc PostService, uSvc UserService) *PostHandler {
	return &PostHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetFeed godoc
// @Summary      Get the news feed for the authenticated user
// @Description  Only published posts visible to the user's group.
// @Tags         feed
// @Produce      json
// @Success      200  {array}   domain.Post
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /feed [get]
// @Security BearerAuth
func (h *PostHandler) HandleGetFeed(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	posts, err := h.svc.ListForUser(ctx.Request.Context(), user)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetFeed -> h.svc.ListForUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// HandleListAllPosts godoc
// @Summary      List all posts including scheduled ones
// @Description  Admin only.
// @Tags         feed
// @Produce      json
// @Success      200  {array}   domain.Post
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/posts [get]
// @Security BearerAuth
func (h *PostHandler) HandleListAllPosts(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	posts, err := h.svc.ListPosts(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListAllPosts -> h.svc.ListPosts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// HandleCreatePost godoc
// @Summary      Create a post
// @Description  Admin only. A future publish_at schedules the post.
// @Tags         feed
// @Accept       json
// @Produce      json
// @Param        request  body      request.PostRequest  true  "request body"
// @Success      201  {object}  domain.Post
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/posts [post]
// @Security BearerAuth
func (h *PostHandler) HandleCreatePost(ctx *gin.Context) {
	admin, respErr := getAdminFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	post := req.ToDomain()
	post.AuthorID = admin.ID

	created, err := h.svc.CreatePost(ctx.Request.Context(), post)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreatePost -> h.svc.CreatePost -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdatePost godoc
// @Summary      Update a post
// @Description  Admin only.
// @Tags         feed
// @Accept       json
// @Produce      json
// @Param        postID   path      int                  true  "Post ID"
// @Param        request  body      request.PostRequest  true  "request body"
// @Success      200  {object}  domain.Post
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/posts/{postID} [put]
// @Security BearerAuth
func (h *PostHandler) HandleUpdatePost(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	postID, respErr := parseIDParam(ctx, "postID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	post := req.ToDomain()
	post.ID = postID

	updated, err := h.svc.UpdatePost(ctx.Request.Context(), post)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("post", "ID", postID))

			return
		}

		err = fmt.Errorf("v1.HandleUpdatePost -> h.svc.UpdatePost -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeletePost godoc
// @Summary      Delete a post with its comments and reactions
// @Description  Admin only.
// @Tags         feed
// @Produce      json
// @Param        postID  path      int  true  "Post ID"
// @Success      204  {string}  string "No Content"
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/posts/{postID} [delete]
// @Security BearerAuth
func (h *PostHandler) HandleDeletePost(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	postID, respErr := parseIDParam(ctx, "postID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DeletePost(ctx.Request.Context(), postID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("post", "ID", postID))

			return
		}

		err = fmt.Errorf("v1.HandleDeletePost -> h.svc.DeletePost -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListComments godoc
// @Summary      List comments on a post
// @Tags         feed
// @Produce      json
// @Param        postID  path      int  true  "Post ID"
// @Success      200  {array}   domain.Comment
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /feed/{postID}/comments [get]
// @Security BearerAuth
func (h *PostHandler) HandleListComments(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	postID, respErr := parseIDParam(ctx, "postID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	comments, err := h.svc.ListComments(ctx.Request.Context(), user, postID)
	if err != nil {
		h.renderPostErr(ctx, "v1.HandleListComments -> h.svc.ListComments", postID, err)

		return
	}

	ctx.JSON(http.StatusOK, comments)
}

// HandleAddComment godoc
// @Summary      Comment on a post
// @Tags         feed
// @Accept       json
// @Produce      json
// @Param        postID   path      int                     true  "Post ID"
// @Param        request  body      request.CommentRequest  true  "request body"
// @Success      201  {object}  domain.Comment
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /feed/{postID}/comments [post]
// @Security BearerAuth
func (h *PostHandler) HandleAddComment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	postID, respErr := parseIDParam(ctx, "postID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	comment, err := h.svc.AddComment(ctx.Request.Context(), user, postID, req.Body)
	if err != nil {
		h.renderPostErr(ctx, "v1.HandleAddComment -> h.svc.AddComment", postID, err)

		return
	}

	ctx.JSON(http.StatusCreated, comment)
}

// HandleDeleteComment godoc
// @Summary      Delete a comment
// @Description  The comment's author or an admin.
// @Tags         feed
// @Produce      json
// @Param        commentID  path      int  true  "Comment ID"
// @Success      204  {string}  string "No Content"
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /feed/comments/{commentID} [delete]
// @Security BearerAuth
func (h *PostHandler) HandleDeleteComment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	commentID, respErr := parseIDParam(ctx, "commentID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DeleteComment(ctx.Request.Context(), user, commentID); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("comment", "ID", commentID))
		case errors.Is(err, service.ErrNotCommentAuthor):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleDeleteComment -> h.svc.DeleteComment -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleReact godoc
// @Summary      React to a post
// @Description  Sending the same reaction again removes it, a different one
// @Description  replaces it.
// @Tags         feed
// @Accept       json
// @Produce      json
// @Param        postID   path      int                      true  "Post ID"
// @Param        request  body      request.ReactionRequest  true  "request body"
// @Success      204  {string}  string "No Content"
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /feed/{postID}/reactions [post]
// @Security BearerAuth
func (h *PostHandler) HandleReact(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	postID, respErr := parseIDParam(ctx, "postID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.ReactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err := h.svc.React(ctx.Request.Context(), user, postID, domain.ReactionKind(req.Kind))
	if err != nil {
		if errors.Is(err, service.ErrInvalidReaction) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		h.renderPostErr(ctx, "v1.HandleReact -> h.svc.React", postID, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *PostHandler) renderPostErr(ctx *gin.Context, op string, postID uint, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.RenderErr(ctx, response.ErrNotFound("post", "ID", postID))
	case errors.Is(err, service.ErrPostNotVisible):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
