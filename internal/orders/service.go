package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/internal/sequence"
	"github.com/mohib357/mamstar-plan/pkg/config"
	"github.com/mohib357/mamstar-plan/pkg/db"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	"github.com/mohib357/mamstar-plan/pkg/enums"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/metrics"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
)

const (
	orderPrefix = "ORD"
	orderWidth  = 5

	defaultIdentifierRetries = 3
)

// Service manages back-office orders.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo      Repository
	customers CustomerLedger
	dbClient  *db.Client
	metrics   *metrics.CatalogMetrics
	logg      *logger.Logger
	cfg       config.CatalogConfig
	now       func() time.Time
}

// NewService wires the order service. catalogMetrics is optional.
func NewService(repo Repository, customers CustomerLedger, dbClient *db.Client, catalogMetrics *metrics.CatalogMetrics, logg *logger.Logger, cfg config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer ledger required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.IdentifierRetries <= 0 {
		cfg.IdentifierRetries = defaultIdentifierRetries
	}
	return &service{
		repo:      repo,
		customers: customers,
		dbClient:  dbClient,
		metrics:   catalogMetrics,
		logg:      logg,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	if input.CustomerID != nil {
		if err := s.fillCustomer(ctx, &input); err != nil {
			return nil, err
		}
	}

	problems := pkgerrors.FieldErrors{}
	template := draftOrder(input, problems)
	if err := problems.Err(); err != nil {
		s.metrics.IncValidationFailure("order")
		return nil, err
	}
	if err := s.priceItems(ctx, template, input.Items); err != nil {
		return nil, err
	}
	if template.OrderDate.IsZero() {
		template.OrderDate = s.now().UTC()
	}
	if actorID != uuid.Nil {
		template.CreatedBy = &actorID
	}

	var created *models.Order
	for attempt := 1; ; attempt++ {
		order := cloneOrder(template)
		err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			return s.insert(ctx, tx, order)
		})
		if err == nil {
			created = order
			break
		}
		if db.UniqueViolationOn(err, "orders", "order_number") && attempt < s.cfg.IdentifierRetries {
			s.metrics.IncIdentifierRetry(sequence.OrderID)
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"sequence": sequence.OrderID, "attempt": attempt}), "sequence.retry")
			continue
		}
		return nil, s.writeError(err)
	}

	s.metrics.IncOrderCreated()
	s.logg.Info(s.logg.WithEntity(ctx, "order", created.ID.String()), "order.created")
	return s.Get(ctx, created.ID)
}

func (s *service) insert(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	txRepo := s.repo.WithTx(tx)

	number, err := s.nextOrderNumber(ctx, tx, txRepo)
	if err != nil {
		return err
	}
	order.OrderNumber = number

	if err := txRepo.Create(ctx, order); err != nil {
		return err
	}
	if order.CustomerID != nil {
		if err := s.customers.RecordOrderTx(ctx, tx, *order.CustomerID, order); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Reference("customerId")
			}
			return err
		}
	}
	return nil
}

func (s *service) nextOrderNumber(ctx context.Context, tx *gorm.DB, txRepo Repository) (string, error) {
	for attempt := 0; attempt <= s.cfg.IdentifierRetries; attempt++ {
		number, err := sequence.NextFormatted(ctx, tx, sequence.OrderID, orderPrefix, orderWidth)
		if err != nil {
			return "", err
		}
		taken, err := txRepo.OrderNumberTaken(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
		s.metrics.IncIdentifierRetry(sequence.OrderID)
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"sequence": sequence.OrderID, "value": number}), "sequence.retry")
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a free order number")
}

// fillCustomer resolves the linked customer and fills blank contact fields
// from the stored record.
func (s *service) fillCustomer(ctx context.Context, input *CreateOrderInput) error {
	c, err := s.customers.FindByID(ctx, *input.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncValidationFailure("order")
			return pkgerrors.Reference("customerId")
		}
		return db.StorageError(err, "load customer")
	}
	if strings.TrimSpace(input.Customer.Name) == "" {
		input.Customer.Name = c.Name
	}
	if strings.TrimSpace(input.Customer.Phone) == "" {
		input.Customer.Phone = c.Phone
	}
	if strings.TrimSpace(input.Customer.Email) == "" && c.Email != nil {
		input.Customer.Email = *c.Email
	}
	if input.Customer.Address.IsZero() {
		input.Customer.Address = c.Address
	}
	return nil
}

// priceItems resolves every line's product, defaults name and price from it,
// and computes the line and order totals.
func (s *service) priceItems(ctx context.Context, order *models.Order, items []ItemInput) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.repo.FindProducts(ctx, ids)
	if err != nil {
		return db.StorageError(err, "resolve products")
	}

	total := decimal.Zero
	for i := range order.Items {
		line := &order.Items[i]
		product, ok := products[line.ProductID]
		if !ok {
			s.metrics.IncValidationFailure("order")
			return pkgerrors.Reference(fmt.Sprintf("products[%d].product", i))
		}
		if line.Name == "" {
			line.Name = product.Name
		}
		if items[i].Price == nil {
			line.Price = product.Price
		}
		line.Price = line.Price.Round(2)
		line.Total = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		total = total.Add(line.Total)
	}
	order.TotalAmount = total
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.NotFoundOr(err, "order", "load order")
	}
	dto := NewOrderDTO(order)
	return &dto, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	filter := ListFilter{Search: input.Search}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := enums.ParseOrderStatus(strings.ToLower(raw))
		if err != nil {
			return nil, pkgerrors.ValidationField("status", "unknown order status")
		}
		filter.Status = &status
	}

	page := input.Pagination.Normalize(s.cfg.DefaultPageSize)
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, db.StorageError(err, "list orders")
	}
	result := &ListResult{
		Orders: make([]OrderDTO, 0, len(rows)),
		Meta:   pagination.NewMeta(total, page),
	}
	for i := range rows {
		result.Orders = append(result.Orders, NewOrderDTO(&rows[i]))
	}
	return result, nil
}

// UpdateStatus moves the order to status. The first transition to delivered
// stamps the delivery date.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, raw string) (*OrderDTO, error) {
	status, err := enums.ParseOrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		s.metrics.IncValidationFailure("order")
		return nil, pkgerrors.ValidationField("status", "unknown order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.NotFoundOr(err, "order", "load order")
	}

	var deliveredAt *time.Time
	if status == enums.OrderStatusDelivered && order.DeliveryDate == nil {
		now := s.now().UTC()
		deliveredAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, status, deliveredAt); err != nil {
		return nil, db.NotFoundOr(err, "order", "update order status")
	}

	logCtx := s.logg.WithEntity(ctx, "order", id.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{"from": order.Status, "to": status})
	s.logg.Info(logCtx, "order.status_changed")
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var found bool
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		found, err = s.repo.WithTx(tx).Delete(ctx, id)
		return err
	})
	if err != nil {
		return db.StorageError(err, "delete order")
	}
	if !found {
		return pkgerrors.NotFound("order")
	}
	s.logg.Info(s.logg.WithEntity(ctx, "order", id.String()), "order.deleted")
	return nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, db.StorageError(err, "order stats")
	}
	return stats, nil
}

func (s *service) writeError(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	if db.UniqueViolationOn(err, "orders", "order_number") {
		return pkgerrors.ValidationField("orderId", "already in use")
	}
	return db.StorageError(err, "create order")
}

// draftOrder validates input and builds the unsaved order with its lines in
// request order. Every problem is collected.
func draftOrder(input CreateOrderInput, problems pkgerrors.FieldErrors) *models.Order {
	order := &models.Order{
		CustomerID:      input.CustomerID,
		CustomerName:    strings.TrimSpace(input.Customer.Name),
		CustomerEmail:   strings.TrimSpace(input.Customer.Email),
		CustomerPhone:   strings.TrimSpace(input.Customer.Phone),
		CustomerAddress: input.Customer.Address,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
		Notes:           strings.TrimSpace(input.Notes),
	}
	if input.OrderDate != nil {
		order.OrderDate = input.OrderDate.UTC()
	}

	if order.CustomerName == "" {
		problems.Add("customer.name", "required")
	}
	if order.CustomerPhone == "" {
		problems.Add("customer.phone", "required")
	}
	if raw := strings.TrimSpace(input.PaymentStatus); raw != "" {
		ps, err := enums.ParsePaymentStatus(strings.ToLower(raw))
		if err != nil {
			problems.Add("paymentStatus", "unknown payment status")
		} else {
			order.PaymentStatus = ps
		}
	}

	if len(input.Items) == 0 {
		problems.Add("products", "at least one item is required")
	}
	for i, it := range input.Items {
		field := fmt.Sprintf("products[%d]", i)
		if it.ProductID == uuid.Nil {
			problems.Add(field+".product", "required")
		}
		if it.Quantity < 1 {
			problems.Add(field+".quantity", "must be at least 1")
		}
		line := models.OrderItem{
			Position:  i,
			ProductID: it.ProductID,
			Name:      strings.TrimSpace(it.Name),
			Quantity:  it.Quantity,
		}
		if it.Price != nil {
			if it.Price.IsNegative() {
				problems.Add(field+".price", "must not be negative")
			}
			line.Price = *it.Price
		}
		order.Items = append(order.Items, line)
	}
	return order
}

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return &cp
}
