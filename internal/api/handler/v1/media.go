package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabrica-tour/api/internal/api/handler/v1/response"
	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/service"
)

type MediaService interface {
	Upload(ctx context.Context, title, description, filename, contentType string, size int64, body io.Reader) (domain.MediaFile, error)
	List(ctx context.Context) ([]domain.MediaFile, error)
	Delete(ctx context.Context, id uint) error
	UploadEvidence(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error)
	EvidenceURL(ctx context.Context, key string) (string, error)
}

type MediaHandler struct {
	svc  MediaService
	uSvc UserService
}

func NewMediaHandler(svc MediaService, uSvc UserService) *MediaHandler {
	return &MediaHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListMedia godoc
// @Summary      List the media library
// @Description  URLs are signed and expire after a few minutes.
// @Tags         media
// @Produce      json
// @Success      200  {array}   domain.MediaFile
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /media [get]
// @Security BearerAuth
func (h *MediaHandler) HandleListMedia(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	files, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListMedia -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, files)
}

// HandleUploadMedia godoc
// @Summary      Upload a media file
// @Description  Admin only. Multipart form with a "file" part plus optional
// @Description  "title" and "description" fields.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "media file"
// @Success      201  {object}  domain.MediaFile
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/media [post]
// @Security BearerAuth
func (h *MediaHandler) HandleUploadMedia(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	defer file.Close()

	created, err := h.svc.Upload(
		ctx.Request.Context(),
		ctx.PostForm("title"),
		ctx.PostForm("description"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedContentType) || errors.Is(err, service.ErrFileTooLarge) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		err = fmt.Errorf("v1.HandleUploadMedia -> h.svc.Upload -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleDeleteMedia godoc
// @Summary      Delete a media file
// @Description  Admin only. Removes both the object and its metadata.
// @Tags         media
// @Produce      json
// @Param        mediaID  path      int  true  "Media ID"
// @Success      204  {string}  string "No Content"
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/media/{mediaID} [delete]
// @Security BearerAuth
func (h *MediaHandler) HandleDeleteMedia(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	mediaID, respErr := parseIDParam(ctx, "mediaID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), mediaID); err != nil {
		if errors.Is(err, service.ErrMediaNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("media", "ID", mediaID))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteMedia -> h.svc.Delete -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUploadEvidence godoc
// @Summary      Upload a mission evidence photo
// @Description  Returns the object key to submit with the mission completion.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "evidence photo"
// @Success      201  {object}  response.EvidenceUploadResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /media/evidence [post]
// @Security BearerAuth
func (h *MediaHandler) HandleUploadEvidence(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	defer file.Close()

	key, err := h.svc.UploadEvidence(
		ctx.Request.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedContentType) || errors.Is(err, service.ErrFileTooLarge) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		err = fmt.Errorf("v1.HandleUploadEvidence -> h.svc.UploadEvidence -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	url, err := h.svc.EvidenceURL(ctx.Request.Context(), key)
	if err != nil {
		err = fmt.Errorf("v1.HandleUploadEvidence -> h.svc.EvidenceURL -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, response.EvidenceUploadResponse{
		Key: key,
		URL: url,
	})
}
