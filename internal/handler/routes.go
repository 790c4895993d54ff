package handler

import (
	"go-catalog-admin/internal/middleware"
	"go-catalog-admin/internal/model"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the catalog API on router; everything except token
// validation sits behind auth.
func RegisterRoutes(router fiber.Router, auth fiber.Handler, authHandler *AuthHandler, products *ProductHandler, stats *StatsHandler) {
	router.Post("/auth/validate-token", authHandler.ValidateToken)

	protected := router.Group("", auth)
	protected.Get("/auth/me", authHandler.Me)

	view := middleware.RequirePrivilege(model.PrivilegeProductView)
	create := middleware.RequirePrivilege(model.PrivilegeProductCreate)
	update := middleware.RequirePrivilege(model.PrivilegeProductUpdate)
	remove := middleware.RequirePrivilege(model.PrivilegeProductDelete)

	// The create and edit forms need the category list too
	protected.Get("/categories",
		middleware.RequireAnyPrivilege(model.PrivilegeProductView, model.PrivilegeProductCreate, model.PrivilegeProductUpdate),
		products.ListCategories)

	// Fixed paths first so they are not captured by :key
	protected.Get("/products", view, products.ListProducts)
	protected.Get("/products/count", view, products.CountProducts)
	protected.Get("/products/stats", view, stats.GetStats)
	protected.Get("/products/:key", view, products.GetProduct)

	protected.Post("/products", create, products.CreateProduct)
	protected.Put("/products/:id", update, products.UpdateProduct)
	protected.Patch("/products/:id", update, products.UpdateProduct)
	protected.Post("/products/:id/stock", update, products.AdjustStock)

	protected.Delete("/products/:id", remove, products.DeleteProduct)
	protected.Post("/products/:id/restore", remove, products.RestoreProduct)
	protected.Delete("/products/:id/purge", remove, products.PurgeProduct)

	protected.Post("/products/bulk/activate", update, products.BulkActivate)
	protected.Post("/products/bulk/deactivate", update, products.BulkDeactivate)
	protected.Post("/products/bulk/delete", remove, products.BulkDelete)
}
