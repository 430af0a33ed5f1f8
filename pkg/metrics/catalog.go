package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics counts catalog writes. A nil *CatalogMetrics is a no-op.
type CatalogMetrics struct {
	productsCreated    prometheus.Counter
	validationFailures *prometheus.CounterVec
	identifierRetries  *prometheus.CounterVec
	ordersCreated      prometheus.Counter
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	productsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_created_total",
		Help: "Products persisted successfully.",
	})
	validationFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_validation_failures_total",
		Help: "Writes rejected by validation or unresolved references.",
	}, []string{"entity"})
	identifierRetries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_identifier_retries_total",
		Help: "Transactions retried after a generated identifier collided.",
	}, []string{"sequence"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders persisted successfully.",
	})
	reg.MustRegister(productsCreated, validationFailures, identifierRetries, ordersCreated)
	return &CatalogMetrics{
		productsCreated:    productsCreated,
		validationFailures: validationFailures,
		identifierRetries:  identifierRetries,
		ordersCreated:      ordersCreated,
	}
}

func (c *CatalogMetrics) IncProductCreated() {
	if c == nil || c.productsCreated == nil {
		return
	}
	c.productsCreated.Inc()
}

func (c *CatalogMetrics) IncValidationFailure(entity string) {
	if c == nil || c.validationFailures == nil {
		return
	}
	c.validationFailures.WithLabelValues(normalizeLabel(entity)).Inc()
}

func (c *CatalogMetrics) IncIdentifierRetry(sequence string) {
	if c == nil || c.identifierRetries == nil {
		return
	}
	c.identifierRetries.WithLabelValues(normalizeLabel(sequence)).Inc()
}

func (c *CatalogMetrics) IncOrderCreated() {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
