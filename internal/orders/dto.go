package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohib357/mamstar-plan/pkg/db/models"
	"github.com/mohib357/mamstar-plan/pkg/enums"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
	"github.com/mohib357/mamstar-plan/pkg/types"
)

// CustomerInput is the contact snapshot stored on the order.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address types.Address
}

// ItemInput is one requested line. A nil Price takes the product's current price
// and a blank Name takes the product's name.
type ItemInput struct {
	ProductID uuid.UUID
	Name      string
	Price     *decimal.Decimal
	Quantity  int
}

type CreateOrderInput struct {
	CustomerID    *uuid.UUID
	Customer      CustomerInput
	Items         []ItemInput
	PaymentStatus string
	PaymentMethod string
	OrderDate     *time.Time
	Notes         string
}

type ListFilter struct {
	Status *enums.OrderStatus
	Search string
}

type ListInput struct {
	Status     string
	Search     string
	Pagination pagination.Params
}

type ListResult struct {
	Orders []OrderDTO `json:"orders"`
	pagination.Meta
}

type Stats struct {
	TotalOrders     int64           `json:"totalOrders"`
	PendingOrders   int64           `json:"pendingOrders"`
	DeliveredOrders int64           `json:"deliveredOrders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
}

type CustomerDTO struct {
	Name    string        `json:"name"`
	Email   string        `json:"email,omitempty"`
	Phone   string        `json:"phone"`
	Address types.Address `json:"address"`
}

type ItemDTO struct {
	ProductID uuid.UUID       `json:"product"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	OrderID       string              `json:"orderId"`
	CustomerID    *uuid.UUID          `json:"customerId,omitempty"`
	Customer      CustomerDTO         `json:"customer"`
	Items         []ItemDTO           `json:"products"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	PaymentMethod string              `json:"paymentMethod,omitempty"`
	OrderDate     time.Time           `json:"orderDate"`
	DeliveryDate  *time.Time          `json:"deliveryDate,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	CreatedBy     *uuid.UUID          `json:"createdBy,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func NewOrderDTO(o *models.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemDTO{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Total:     it.Total,
		})
	}
	return OrderDTO{
		ID:         o.ID,
		OrderID:    o.OrderNumber,
		CustomerID: o.CustomerID,
		Customer: CustomerDTO{
			Name:    o.CustomerName,
			Email:   o.CustomerEmail,
			Phone:   o.CustomerPhone,
			Address: o.CustomerAddress,
		},
		Items:         items,
		TotalAmount:   o.TotalAmount,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		OrderDate:     o.OrderDate,
		DeliveryDate:  o.DeliveryDate,
		Notes:         o.Notes,
		CreatedBy:     o.CreatedBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
