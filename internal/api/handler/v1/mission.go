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

type MissionService interface {
	CreateMission(ctx context.Context, mission domain.Mission) (domain.Mission, error)
	UpdateMission(ctx context.Context, mission domain.Mission) (domain.Mission, error)
	DeleteMission(ctx context.Context, id uint) error
	GetMission(ctx context.Context, id uint) (domain.Mission, error)
	ListMissions(ctx context.Context) ([]domain.Mission, error)
	ListForUser(ctx context.Context, user domain.User) (available, completed []domain.Mission, err error)
	Complete(ctx context.Context, user domain.User, missionID uint, answer, evidenceKey string) (domain.MissionCompletion, error)
	ListCompletions(ctx context.Context) ([]domain.MissionCompletion, error)
}

type EvidenceSigner interface {
	EvidenceURL(ctx context.Context, key string) (string, error)
}

type MissionHandler struct {
	svc    MissionService
	pSvc   PointsService
	uSvc   UserService
	signer EvidenceSigner
}

func NewMissionHandler(svc MissionService, pSvc PointsService, uSvc UserService, signer EvidenceSigner) *MissionHandler {
	return &MissionHandler{
		svc:    svc,
		pSvc:   pSvc,
		uSvc:   uSvc,
		signer: signer,
	}
}

// HandleListMissions godoc
// @Summary      List missions for the authenticated user
// @Description  Splits missions into available and already completed. Quiz
// @Description  answers never include the correct flag.
// @Tags         missions
// @Produce      json
// @Success      200  {object}  response.MissionListResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /missions [get]
// @Security BearerAuth
func (h *MissionHandler) HandleListMissions(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	available, completed, err := h.svc.ListForUser(ctx.Request.Context(), user)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMissions -> h.svc.ListForUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.MissionListResponse{
		Available: available,
		Completed: completed,
	})
}

// HandleCompleteMission godoc
// @Summary      Complete a mission
// @Description  Awards the mission's points exactly once per user.
// @Tags         missions
// @Accept       json
// @Produce      json
// @Param        missionID  path      int                             true  "Mission ID"
// @Param        request    body      request.CompleteMissionRequest  true  "request body"
// @Success      201  {object}  response.CompletionResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /missions/{missionID}/complete [post]
// @Security BearerAuth
func (h *MissionHandler) HandleCompleteMission(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	missionID, respErr := parseIDParam(ctx, "missionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CompleteMissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	completion, err := h.svc.Complete(ctx.Request.Context(), user, missionID, req.Answer, req.EvidenceKey)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("mission", "ID", missionID))
		case errors.Is(err, service.ErrMissionAlreadyCompleted):
			response.RenderErr(ctx, response.ErrConflict(service.ErrMissionAlreadyCompleted))
		case errors.Is(err, service.ErrMissionInactive),
			errors.Is(err, service.ErrMissionNotVisible):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrAnswerRequired),
			errors.Is(err, service.ErrEvidenceRequired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCompleteMission -> h.svc.Complete -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	balance, err := h.pSvc.Balance(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleCompleteMission -> h.pSvc.Balance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, response.CompletionResponse{
		Completion: completion,
		Balance:    balance,
	})
}

// HandleListAllMissions godoc
// @Summary      List all missions including inactive ones
// @Description  Admin only. Options keep their correct flags.
// @Tags         missions
// @Produce      json
// @Success      200  {array}   domain.Mission
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/missions [get]
// @Security BearerAuth
func (h *MissionHandler) HandleListAllMissions(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	missions, err := h.svc.ListMissions(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListAllMissions -> h.svc.ListMissions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, missions)
}

// HandleCreateMission godoc
// @Summary      Create a mission
// @Description  Admin only.
// @Tags         missions
// @Accept       json
// @Produce      json
// @Param        request  body      request.MissionRequest  true  "request body"
// @Success      201  {object}  domain.Mission
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/missions [post]
// @Security BearerAuth
func (h *MissionHandler) HandleCreateMission(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.MissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	mission, err := h.svc.CreateMission(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateMission -> h.svc.CreateMission -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, mission)
}

// HandleUpdateMission godoc
// @Summary      Update a mission
// @Description  Admin only. Options and group links are replaced wholesale.
// @Tags         missions
// @Accept       json
// @Produce      json
// @Param        missionID  path      int                     true  "Mission ID"
// @Param        request    body      request.MissionRequest  true  "request body"
// @Success      200  {object}  domain.Mission
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/missions/{missionID} [put]
// @Security BearerAuth
func (h *MissionHandler) HandleUpdateMission(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	missionID, respErr := parseIDParam(ctx, "missionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.MissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	mission := req.ToDomain()
	mission.ID = missionID

	updated, err := h.svc.UpdateMission(ctx.Request.Context(), mission)
	if err != nil {
		if errors.Is(err, service.ErrMissionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("mission", "ID", missionID))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateMission -> h.svc.UpdateMission -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteMission godoc
// @Summary      Delete a mission
// @Description  Admin only. Past completions and awarded points survive.
// @Tags         missions
// @Produce      json
// @Param        missionID  path      int  true  "Mission ID"
// @Success      204  {string}  string "No Content"
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/missions/{missionID} [delete]
// @Security BearerAuth
func (h *MissionHandler) HandleDeleteMission(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	missionID, respErr := parseIDParam(ctx, "missionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DeleteMission(ctx.Request.Context(), missionID); err != nil {
		if errors.Is(err, service.ErrMissionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("mission", "ID", missionID))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteMission -> h.svc.DeleteMission -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListCompletions godoc
// @Summary      List all mission completions
// @Description  Admin only. Evidence photos come back as short-lived signed URLs.
// @Tags         missions
// @Produce      json
// @Success      200  {array}   response.CompletionListItem
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/completions [get]
// @Security BearerAuth
func (h *MissionHandler) HandleListCompletions(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	completions, err := h.svc.ListCompletions(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCompletions -> h.svc.ListCompletions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	items := make([]response.CompletionListItem, 0, len(completions))
	for _, completion := range completions {
		item := response.CompletionListItem{MissionCompletion: completion}
		if completion.EvidenceKey != "" {
			item.EvidenceURL, err = h.signer.EvidenceURL(ctx.Request.Context(), completion.EvidenceKey)
			if err != nil {
				err = fmt.Errorf("v1.HandleListCompletions -> h.signer.EvidenceURL -> %w", err)
				response.RenderErr(ctx, response.ErrInternalServerError(err))

				return
			}
		}
		items = append(items, item)
	}

	ctx.JSON(http.StatusOK, items)
}
