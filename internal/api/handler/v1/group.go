package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabrica-tour/api/internal/api/handler/v1/request"
	"github.com/fabrica-tour/api/internal/api/handler/v1/response"
	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/service"
)

type GroupService interface {
	CreateGroup(ctx context.Context, group domain.Group) (domain.Group, error)
	GetGroup(ctx context.Context, id uint) (domain.Group, error)
	ListGroups(ctx context.Context) ([]domain.Group, error)
	UpdateGroup(ctx context.Context, group domain.Group) (domain.Group, error)
	DeleteGroup(ctx context.Context, id uint) error
}

type GroupHandler struct {
	svc  GroupService
	uSvc UserService
}

func NewGroupHandler(svc GroupService, uSvc UserService) *GroupHandler {
	return &GroupHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListGroups godoc
// @Summary      List all groups
// @Description  Admin only.
// @Tags         groups
// @Produce      json
// @Success      200  {array}   domain.Group
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /groups [get]
// @Security BearerAuth
func (h *GroupHandler) HandleListGroups(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	groups, err := h.svc.ListGroups(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListGroups -> h.svc.ListGroups -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, groups)
}

// HandleCreateGroup godoc
// @Summary      Create a group
// @Description  Admin only.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request  body      request.GroupRequest  true  "request body"
// @Success      201  {object}  domain.Group
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /groups [post]
// @Security BearerAuth
func (h *GroupHandler) HandleCreateGroup(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	group, err := h.svc.CreateGroup(ctx.Request.Context(), domain.Group{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateGroup -> h.svc.CreateGroup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, group)
}

// HandleUpdateGroup godoc
// @Summary      Update a group
// @Description  Admin only.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupID  path      int                   true  "Group ID"
// @Param        request  body      request.GroupRequest  true  "request body"
// @Success      200  {object}  domain.Group
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /groups/{groupID} [put]
// @Security BearerAuth
func (h *GroupHandler) HandleUpdateGroup(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	groupID, respErr := parseIDParam(ctx, "groupID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	group, err := h.svc.UpdateGroup(ctx.Request.Context(), domain.Group{
		ID:          groupID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("group", "ID", groupID))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateGroup -> h.svc.UpdateGroup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, group)
}

// HandleDeleteGroup godoc
// @Summary      Delete a group
// @Description  Admin only. Members are detached, their history is kept.
// @Tags         groups
// @Produce      json
// @Param        groupID  path      int  true  "Group ID"
// @Success      204  {string}  string "No Content"
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /groups/{groupID} [delete]
// @Security BearerAuth
func (h *GroupHandler) HandleDeleteGroup(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	groupID, respErr := parseIDParam(ctx, "groupID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DeleteGroup(ctx.Request.Context(), groupID); err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("group", "ID", groupID))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteGroup -> h.svc.DeleteGroup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}
