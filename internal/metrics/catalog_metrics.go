package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsCreated is a Prometheus counter for tracking the total number of products created.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_created_total",
		Help: "The total number of products created",
	})

	ProductsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_updated_total",
		Help: "The total number of product updates",
	})

	// ProductsDeleted counts soft deletes; purges are tracked separately.
	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_deleted_total",
		Help: "The total number of products soft-deleted",
	})

	ProductsRestored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_restored_total",
		Help: "The total number of soft-deleted products restored",
	})

	ProductsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_purged_total",
		Help: "The total number of products permanently removed",
	})

	// StockAdjustments is labelled by direction: "in", "out" or "rejected".
	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_stock_adjustments_total",
		Help: "The total number of stock adjustments by direction",
	}, []string{"direction"})
)

// ObserveStockAdjustment records an applied delta.
func ObserveStockAdjustment(delta int) {
	if delta < 0 {
		StockAdjustments.WithLabelValues("out").Inc()
		return
	}
	StockAdjustments.WithLabelValues("in").Inc()
}

// ObserveStockRejection records an adjustment refused for insufficient stock.
func ObserveStockRejection() {
	StockAdjustments.WithLabelValues("rejected").Inc()
}
