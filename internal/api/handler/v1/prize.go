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

type PrizeService interface {
	CreatePrize(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	UpdatePrize(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	DeletePrize(ctx context.Context, id uint) error
	ListPrizes(ctx context.Context) ([]domain.Prize, error)
	ListForUser(ctx context.Context, user domain.User) ([]domain.Prize, map[uint]bool, error)
	Redeem(ctx context.Context, user domain.User, prizeID uint) (domain.PrizeRedemption, error)
	ListRedemptions(ctx context.Context) ([]domain.PrizeRedemption, error)
}

type PrizeHandler struct {
	svc  PrizeService
	pSvc PointsService
	uSvc UserService
}

func NewPrizeHandler(svc PrizeService, pSvc PointsService, uSvc UserService) *PrizeHandler {
	return &PrizeHandler{
		svc:  svc,
		pSvc: pSvc,
		uSvc: uSvc,
	}
}

// HandleListPrizes godoc
// @Summary      List prizes visible to the authenticated user
// @Tags         prizes
// @Produce      json
// @Success      200  {object}  response.PrizeListResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /prizes [get]
// @Security BearerAuth
func (h *PrizeHandler) HandleListPrizes(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	prizes, redeemed, err := h.svc.ListForUser(ctx.Request.Context(), user)
	if err != nil {
		err = fmt.Errorf("v1.HandleListPrizes -> h.svc.ListForUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	redeemedIDs := make([]uint, 0, len(redeemed))
	for _, prize := range prizes {
		if redeemed[prize.ID] {
			redeemedIDs = append(redeemedIDs, prize.ID)
		}
	}

	balance, err := h.pSvc.Balance(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListPrizes -> h.pSvc.Balance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.PrizeListResponse{
		Prizes:   prizes,
		Redeemed: redeemedIDs,
		Balance:  balance,
	})
}

// HandleRedeemPrize godoc
// @Summary      Redeem a prize
// @Description  Debits the prize cost and decrements stock, both atomically.
// @Tags         prizes
// @Produce      json
// @Param        prizeID  path      int  true  "Prize ID"
// @Success      201  {object}  response.RedemptionResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /prizes/{prizeID}/redeem [post]
// @Security BearerAuth
func (h *PrizeHandler) HandleRedeemPrize(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	prizeID, respErr := parseIDParam(ctx, "prizeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	redemption, err := h.svc.Redeem(ctx.Request.Context(), user, prizeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPrizeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("prize", "ID", prizeID))
		case errors.Is(err, service.ErrPrizeInactive),
			errors.Is(err, service.ErrPrizeNotVisible):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrPrizeAlreadyRedeemed),
			errors.Is(err, service.ErrPrizeOutOfStock):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrInsufficientPoints):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleRedeemPrize -> h.svc.Redeem -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	balance, err := h.pSvc.Balance(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleRedeemPrize -> h.pSvc.Balance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, response.RedemptionResponse{
		Redemption: redemption,
		Balance:    balance,
	})
}

// HandleListAllPrizes godoc
// @Summary      List all prizes including inactive ones
// @Description  Admin only.
// @Tags         prizes
// @Produce      json
// @Success      200  {array}   domain.Prize
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/prizes [get]
// @Security BearerAuth
func (h *PrizeHandler) HandleListAllPrizes(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	prizes, err := h.svc.ListPrizes(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListAllPrizes -> h.svc.ListPrizes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, prizes)
}

// HandleCreatePrize godoc
// @Summary      Create a prize
// @Description  Admin only.
// @Tags         prizes
// @Accept       json
// @Produce      json
// @Param        request  body      request.PrizeRequest  true  "request body"
// @Success      201  {object}  domain.Prize
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/prizes [post]
// @Security BearerAuth
func (h *PrizeHandler) HandleCreatePrize(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.PrizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	prize, err := h.svc.CreatePrize(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreatePrize -> h.svc.CreatePrize -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, prize)
}

// HandleUpdatePrize godoc
// @Summary      Update a prize
// @Description  Admin only.
// @Tags         prizes
// @Accept       json
// @Produce      json
// @Param        prizeID  path      int                   true  "Prize ID"
// @Param        request  body      request.PrizeRequest  true  "request body"
// @Success      200  {object}  domain.Prize
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/prizes/{prizeID} [put]
// @Security BearerAuth
func (h *PrizeHandler) HandleUpdatePrize(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	prizeID, respErr := parseIDParam(ctx, "prizeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.PrizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	prize := req.ToDomain()
	prize.ID = prizeID

	updated, err := h.svc.UpdatePrize(ctx.Request.Context(), prize)
	if err != nil {
		if errors.Is(err, service.ErrPrizeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("prize", "ID", prizeID))

			return
		}

		err = fmt.Errorf("v1.HandleUpdatePrize -> h.svc.UpdatePrize -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeletePrize godoc
// @Summary      Delete a prize
// @Description  Admin only. Past redemptions are kept.
// @Tags         prizes
// @Produce      json
// @Param        prizeID  path      int  true  "Prize ID"
// @Success      204  {string}  string "No Content"
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/prizes/{prizeID} [delete]
// @Security BearerAuth
func (h *PrizeHandler) HandleDeletePrize(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	prizeID, respErr := parseIDParam(ctx, "prizeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DeletePrize(ctx.Request.Context(), prizeID); err != nil {
		if errors.Is(err, service.ErrPrizeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("prize", "ID", prizeID))

			return
		}

		err = fmt.Errorf("v1.HandleDeletePrize -> h.svc.DeletePrize -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListRedemptions godoc
// @Summary      List all prize redemptions
// @Description  Admin only.
// @Tags         prizes
// @Produce      json
// @Success      200  {array}   domain.PrizeRedemption
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/redemptions [get]
// @Security BearerAuth
func (h *PrizeHandler) HandleListRedemptions(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	redemptions, err := h.svc.ListRedemptions(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListRedemptions -> h.svc.ListRedemptions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, redemptions)
}
