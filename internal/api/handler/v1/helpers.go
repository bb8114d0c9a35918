package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fabrica-tour/api/internal/api/handler/v1/response"
	"github.com/fabrica-tour/api/internal/api/middleware"
	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/service"
)

// UserService is the slice of the user service that every authenticated
// handler needs to resolve the caller.
type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) (domain.User, error)
	AssignGroup(ctx context.Context, userID uint, groupID *uint) error
}

func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized(errors.New("missing authentication"))
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("invalid authentication"))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(errors.New("user no longer exists"))
		}

		err = fmt.Errorf("getUserFromContext -> svc.GetUser -> %w", err)

		return domain.User{}, response.ErrInternalServerError(err)
	}

	if !user.IsActive {
		return domain.User{}, response.ErrUnauthorized(errors.New("user is deactivated"))
	}

	return user, nil
}

func getAdminFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	user, respErr := getUserFromContext(ctx, svc)
	if respErr != nil {
		return domain.User{}, respErr
	}

	if !user.IsAdmin() {
		return domain.User{}, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID))
	}

	return user, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %v", name))
	}

	return uint(id), nil
}
