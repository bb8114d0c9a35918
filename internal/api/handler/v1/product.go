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

type ProductService interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	Scan(ctx context.Context, code string) (domain.Product, error)
}

type ProductHandler struct {
	svc  ProductService
	uSvc UserService
}

func NewProductHandler(svc ProductService, uSvc UserService) *ProductHandler {
	return &ProductHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListProducts godoc
// @Summary      List active products
// @Tags         products
// @Produce      json
// @Success      200  {array}   domain.Product
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /products [get]
// @Security BearerAuth
func (h *ProductHandler) HandleListProducts(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	products, err := h.svc.ListActive(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListProducts -> h.svc.ListActive -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, products)
}

// HandleScanProduct godoc
// @Summary      Resolve a scanned QR code to its product
// @Tags         products
// @Produce      json
// @Param        code  path      string  true  "QR code"
// @Success      200  {object}  domain.Product
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /products/scan/{code} [get]
// @Security BearerAuth
func (h *ProductHandler) HandleScanProduct(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	code := ctx.Param("code")

	product, err := h.svc.Scan(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "QR code", code))

			return
		}

		err = fmt.Errorf("v1.HandleScanProduct -> h.svc.Scan -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, product)
}

// HandleListAllProducts godoc
// @Summary      List all products including inactive ones
// @Description  Admin only.
// @Tags         products
// @Produce      json
// @Success      200  {array}   domain.Product
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/products [get]
// @Security BearerAuth
func (h *ProductHandler) HandleListAllProducts(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	products, err := h.svc.ListProducts(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListAllProducts -> h.svc.ListProducts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, products)
}

// HandleCreateProduct godoc
// @Summary      Create a product
// @Description  Admin only. The QR code value must be unique.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request  body      request.ProductRequest  true  "request body"
// @Success      201  {object}  domain.Product
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/products [post]
// @Security BearerAuth
func (h *ProductHandler) HandleCreateProduct(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	product, err := h.svc.CreateProduct(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateProduct -> h.svc.CreateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// HandleUpdateProduct godoc
// @Summary      Update a product
// @Description  Admin only.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        productID  path      int                     true  "Product ID"
// @Param        request    body      request.ProductRequest  true  "request body"
// @Success      200  {object}  domain.Product
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/products/{productID} [put]
// @Security BearerAuth
func (h *ProductHandler) HandleUpdateProduct(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	productID, respErr := parseIDParam(ctx, "productID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	product := req.ToDomain()
	product.ID = productID

	updated, err := h.svc.UpdateProduct(ctx.Request.Context(), product)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", productID))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateProduct -> h.svc.UpdateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteProduct godoc
// @Summary      Delete a product
// @Description  Admin only.
// @Tags         products
// @Produce      json
// @Param        productID  path      int  true  "Product ID"
// @Success      204  {string}  string "No Content"
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/products/{productID} [delete]
// @Security BearerAuth
func (h *ProductHandler) HandleDeleteProduct(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	productID, respErr := parseIDParam(ctx, "productID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DeleteProduct(ctx.Request.Context(), productID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", productID))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteProduct -> h.svc.DeleteProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}
