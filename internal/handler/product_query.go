package handler

import (
	"strconv"
	"strings"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// parseFilter reads the list filter from the query string. category may be
// repeated or comma separated.
func parseFilter(c *fiber.Ctx) (repository.Filter, error) {
	var filter repository.Filter

	for _, raw := range c.Context().QueryArgs().PeekMulti("category") {
		for _, name := range strings.Split(string(raw), ",") {
			if name = strings.TrimSpace(name); name != "" {
				filter.Categories = append(filter.Categories, name)
			}
		}
	}

	active, set, err := parseBool(c, "active")
	if err != nil {
		return filter, err
	}
	if set {
		filter.Active = &active
	}
	if filter.InStock, _, err = parseBool(c, "in_stock"); err != nil {
		return filter, err
	}
	if filter.IncludeDeleted, _, err = parseBool(c, "with_deleted"); err != nil {
		return filter, err
	}
	filter.Search = c.Query("search")

	if filter.PriceRange.Min, err = parsePrice(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.PriceRange.Max, err = parsePrice(c, "max_price"); err != nil {
		return filter, err
	}
	return filter, nil
}

// parseBool reads an optional boolean parameter; set is false when it is absent.
func parseBool(c *fiber.Ctx, key string) (value, set bool, err error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return false, false, nil
	}
	value, err = strconv.ParseBool(raw)
	if err != nil {
		return false, false, model.NewValidationError(key, "boolean", raw)
	}
	return value, true, nil
}

func parsePrice(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, model.NewValidationError(key, "numeric", raw)
	}
	return &price, nil
}

func parseSort(c *fiber.Ctx) (repository.Sort, error) {
	return service.ParseSort(c.Query("sort"), c.Query("order"))
}

func parsePage(c *fiber.Ctx) repository.Page {
	return repository.Page{
		Number: c.QueryInt("page", 1),
		Size:   c.QueryInt("page_size", repository.DefaultPageSize),
	}
}
