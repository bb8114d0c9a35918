package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabrica-tour/api/internal/api/handler/v1/response"
	"github.com/fabrica-tour/api/internal/domain"
)

type PointsService interface {
	Balance(ctx context.Context, userID uint) (domain.PointsBalance, error)
	Ranking(ctx context.Context) ([]domain.RankingEntry, error)
	MyRank(ctx context.Context, userID uint) (domain.UserRank, error)
}

type PointsHandler struct {
	svc  PointsService
	uSvc UserService
}

func NewPointsHandler(svc PointsService, uSvc UserService) *PointsHandler {
	return &PointsHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetBalance godoc
// @Summary      Get the authenticated user's points balance
// @Tags         points
// @Produce      json
// @Success      200  {object}  domain.PointsBalance
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /points/balance [get]
// @Security BearerAuth
func (h *PointsHandler) HandleGetBalance(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	balance, err := h.svc.Balance(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBalance -> h.svc.Balance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, balance)
}

// HandleGetRanking godoc
// @Summary      Get the points ranking
// @Tags         points
// @Produce      json
// @Success      200  {array}   domain.RankingEntry
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /points/ranking [get]
// @Security BearerAuth
func (h *PointsHandler) HandleGetRanking(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	entries, err := h.svc.Ranking(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetRanking -> h.svc.Ranking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, entries)
}

// HandleGetMyRank godoc
// @Summary      Get the authenticated user's rank
// @Tags         points
// @Produce      json
// @Success      200  {object}  domain.UserRank
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /points/rank [get]
// @Security BearerAuth
func (h *PointsHandler) HandleGetMyRank(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	rank, err := h.svc.MyRank(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyRank -> h.svc.MyRank -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, rank)
}
