package httpserver

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/models"
	"github.com/craftsphere/marketplace/internal/mykafka"
	"github.com/craftsphere/marketplace/internal/service/catalog"
	"github.com/craftsphere/marketplace/internal/service/search"
	"github.com/craftsphere/marketplace/internal/transport"
	"github.com/craftsphere/marketplace/internal/util"
)

type ProductHTTP struct {
	Svc      *catalog.Service
	ES       *elasticsearch.Client
	Producer *mykafka.Producer
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return c.JSON(http.StatusOK, product)
}

// GetProducts lists the approved catalog page by page. Managers and
// admins can pass ?status= to browse the moderation queue instead.
func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetApprovedProducts(ctx, offset, limit)
	if err != nil {
		l.Error("get_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	l.Info("get_products_success")
	return c.JSON(http.StatusOK, paginated(items, page, limit, offset, total))
}

func (h *ProductHTTP) GetProductsByStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products_by_status")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	status := c.QueryParam("status")
	if status == "" {
		status = models.ProductPending
	}

	total, items, err := h.Svc.GetProductsByStatus(ctx, status, offset, limit)
	if err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			l.Warn("get_products_by_status_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("get_products_by_status_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, paginated(items, page, limit, offset, total))
}

func (h *ProductHTTP) GetMyProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_my_products")

	artisanID, err := getUserID(c)
	if err != nil {
		l.Error("get_my_products_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Svc.GetArtisanProducts(ctx, artisanID)
	if err != nil {
		l.Error("get_my_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	artisanID, err := getUserID(c)
	if err != nil {
		l.Error("product_create_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product := models.Product{
		ArtisanID:   artisanID,
		Name:        req.Name,
		Category:    req.Category,
		Material:    req.Material,
		Image:       req.Image,
		Description: req.Description,
		OldPrice:    req.OldPrice,
		NewPrice:    req.NewPrice,
		Quantity:    req.Quantity,
	}
	if err := h.Svc.CreateProduct(ctx, &product); err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			l.Warn("product_create_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("product_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to db")
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, artisanID.String(), map[string]any{
		"type":       "product_created",
		"product_id": product.ID.String(),
		"artisan_id": artisanID.String(),
	})

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	artisanID, err := getUserID(c)
	if err != nil {
		l.Error("product_patch_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("product_patch_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	current, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("product_patch_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("product_patch_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	applyPatch(current, &req)

	updated, err := h.Svc.UpdateProduct(ctx, artisanID, current)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			l.Warn("product_patch_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, catalog.ErrValidation):
			l.Warn("product_patch_error", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			l.Error("product_patch_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
		}
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, artisanID.String(), map[string]any{
		"type":       "product_updated",
		"product_id": id.String(),
	})

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, updated)
}

func (h *ProductHTTP) ApproveProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.approve_product")

	id, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("product_approve_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.ApproveProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_approve_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ApproveProduct(ctx, id, req.Approve); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("product_approve_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("product_approve_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot change product status")
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, id.String(), map[string]any{
		"type":       "product_moderated",
		"product_id": id.String(),
		"approved":   req.Approve,
	})

	l.Info("approve_product_success", "product_id", id, "approved", req.Approve)
	return c.JSON(http.StatusOK, echo.Map{
		"product_id": id,
		"approved":   req.Approve,
	})
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("product_delete_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("product_delete_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("product_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product from db")
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, id.String(), map[string]any{
		"type":       "product_deleted",
		"product_id": id.String(),
	})

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	query := c.QueryParam("q")
	if query == "" {
		l.Warn("search_error", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	items, err := search.Search(ctx, h.ES, query, offset, limit)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	l.Info("search_success", "hits", len(items))
	return c.JSON(http.StatusOK, items)
}

func applyPatch(p *models.Product, req *transport.PatchProductRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Material != nil {
		p.Material = *req.Material
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.OldPrice != nil {
		p.OldPrice = *req.OldPrice
	}
	if req.NewPrice != nil {
		p.NewPrice = *req.NewPrice
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
}

func paginated(items any, page, limit, offset int, total int64) map[string]any {
	return map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	}
}
