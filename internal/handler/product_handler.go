package handler

import (
	"fmt"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	catalog service.CatalogService
	query   service.QueryService
	images  model.ImageResolver
}

func NewProductHandler(catalog service.CatalogService, query service.QueryService, images model.ImageResolver) *ProductHandler {
	return &ProductHandler{catalog: catalog, query: query, images: images}
}

func (h *ProductHandler) toResponses(products []model.Product) []model.ProductResponse {
	out := make([]model.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, products[i].ToResponse(h.images))
	}
	return out
}

// ListProducts returns one page of products.
// GET /api/v1/products?category=Semen&in_stock=true&sort=price&order=desc&page=1
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	sort, err := parseSort(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.query.List(c.UserContext(), filter, sort, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": h.toResponses(result.Items),
		"meta": fiber.Map{
			"total":       result.Total,
			"page":        result.Page,
			"page_size":   result.PageSize,
			"total_pages": result.TotalPages(),
		},
	})
}

// CountProducts returns the number of products matching the list filter.
// GET /api/v1/products/count
func (h *ProductHandler) CountProducts(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	total, err := h.query.Count(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": total})
}

// GetProduct looks a product up by id or slug.
// GET /api/v1/products/:key
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	withDeleted, _, err := parseBool(c, "with_deleted")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.catalog.Get(c.UserContext(), c.Params("key"), withDeleted)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": product.ToResponse(h.images)})
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalog.Create(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product.ToResponse(h.images)})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.catalog.Update(c.UserContext(), productID, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated.ToResponse(h.images)})
}

// AdjustStock applies a signed stock delta.
// POST /api/v1/products/:id/stock {"delta": -5}
func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req struct {
		Delta *int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Delta == nil {
		return respondError(c, model.NewValidationError("delta", "required", ""))
	}

	product, err := h.catalog.AdjustStock(c.UserContext(), productID, *req.Delta, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": product.ToResponse(h.images)})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalog.SoftDelete(c.UserContext(), productID, actorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *ProductHandler) RestoreProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalog.Restore(c.UserContext(), productID, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product restored", "data": product.ToResponse(h.images)})
}

func (h *ProductHandler) PurgeProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalog.Purge(c.UserContext(), productID, actorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product permanently deleted"})
}

type bulkRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func parseBulk(c *fiber.Ctx) ([]uuid.UUID, error) {
	var req bulkRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, model.NewValidationError("ids", "uuid", "")
	}
	if len(req.IDs) == 0 {
		return nil, model.NewValidationError("ids", "required", "")
	}
	return req.IDs, nil
}

func (h *ProductHandler) bulkSetActive(c *fiber.Ctx, active bool) error {
	ids, err := parseBulk(c)
	if err != nil {
		return respondError(c, err)
	}

	result := h.catalog.SetActive(c.UserContext(), ids, active, actorFrom(c))
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%d of %d products updated", len(result.Succeeded), len(ids)),
		"data":    result,
	})
}

// BulkActivate handles POST /api/v1/products/bulk/activate
func (h *ProductHandler) BulkActivate(c *fiber.Ctx) error {
	return h.bulkSetActive(c, true)
}

// BulkDeactivate handles POST /api/v1/products/bulk/deactivate
func (h *ProductHandler) BulkDeactivate(c *fiber.Ctx) error {
	return h.bulkSetActive(c, false)
}

// BulkDelete handles POST /api/v1/products/bulk/delete
func (h *ProductHandler) BulkDelete(c *fiber.Ctx) error {
	ids, err := parseBulk(c)
	if err != nil {
		return respondError(c, err)
	}

	result := h.catalog.BulkDelete(c.UserContext(), ids, actorFrom(c))
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%d of %d products deleted", len(result.Succeeded), len(ids)),
		"data":    result,
	})
}

// ListCategories returns the registered categories with their badge colours.
func (h *ProductHandler) ListCategories(c *fiber.Ctx) error {
	categories := model.Categories()
	data := make([]fiber.Map, 0, len(categories))
	for _, name := range categories {
		data = append(data, fiber.Map{"name": name, "color": model.CategoryColor(name)})
	}
	return c.JSON(data)
}
