package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabrica-tour/api/internal/api/handler/v1/request"
	"github.com/fabrica-tour/api/internal/api/handler/v1/response"
	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/service"
)

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleListUsers godoc
// @Summary      List all users
// @Description  Admin only.
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users [get]
// @Security BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.svc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	users, err := h.svc.ListUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Description  Admins can fetch anyone, regular users only themselves.
// @Tags         users
// @Produce      json
// @Param        userID   path      int  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID} [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	caller, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if userID != caller.ID && !caller.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("cannot view other users")))

		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))

			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleCreateUser godoc
// @Summary      Create a user
// @Description  Admin only.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateUserRequest  true  "request body"
// @Success      201  {object}  domain.User
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users [post]
// @Security BearerAuth
func (h *UserHandler) HandleCreateUser(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.svc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.CreateUser(ctx.Request.Context(), domain.User{
		Matricula: req.Matricula,
		Password:  req.Password,
		Name:      req.Name,
		Role:      req.Role,
		GroupID:   req.GroupID,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserMatriculaExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUserMatriculaExists))

			return
		}

		err = fmt.Errorf("v1.HandleCreateUser -> h.svc.CreateUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleUpdateUser godoc
// @Summary      Update a user
// @Description  Admin only. Deactivation happens through is_active.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userID   path      int                        true  "User ID"
// @Param        request  body      request.UpdateUserRequest  true  "request body"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID} [put]
// @Security BearerAuth
func (h *UserHandler) HandleUpdateUser(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.svc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user, err := h.svc.UpdateUser(ctx.Request.Context(), domain.User{
		ID:       userID,
		Name:     req.Name,
		Role:     req.Role,
		IsActive: isActive,
		GroupID:  req.GroupID,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateUser -> h.svc.UpdateUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleAssignGroup godoc
// @Summary      Assign a user to a group
// @Description  Admin only. A null group_id removes the user from any group.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userID   path      int                         true  "User ID"
// @Param        request  body      request.AssignGroupRequest  true  "request body"
// @Success      204  {string}  string "No Content"
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID}/group [put]
// @Security BearerAuth
func (h *UserHandler) HandleAssignGroup(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.svc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.AssignGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.AssignGroup(ctx.Request.Context(), userID, req.GroupID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))

			return
		}
		if errors.Is(err, service.ErrGroupNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("group", "ID", req.GroupID))

			return
		}

		err = fmt.Errorf("v1.HandleAssignGroup -> h.svc.AssignGroup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}
