package domain

import "time"

// Order statuses as stored in the orders table. Manual orders recorded
// through the back office use ManualOrderPaid / ManualOrderCanceled instead.
const (
	OrderStatusPending    = "pending"
	OrderStatusPreparing  = "preparing"
	OrderStatusDelivering = "delivering"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"

	ManualOrderPaid     = "paid"
	ManualOrderCanceled = "canceled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// UnknownRegion is the fallback region for users that never supplied one.
const UnknownRegion = "Unknown"

type OrderItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type Order struct {
	ID     string      `json:"id"`
	Email  string      `json:"email"`
	Items  []OrderItem `json:"items"`
	Total  float64     `json:"total"`
	Status string      `json:"status"`
	Date   time.Time   `json:"date"`
}

// ManualOrder has the same shape as Order but is produced by the offline
// recording workflow; only settled ("paid") manual orders enter aggregation.
type ManualOrder struct {
	ID     string      `json:"id"`
	Email  string      `json:"email"`
	Items  []OrderItem `json:"items"`
	Total  float64     `json:"total"`
	Status string      `json:"status"`
	Date   time.Time   `json:"date"`
}

type Payment struct {
	PaymentID  string  `json:"paymentId"`
	Status     string  `json:"status"`
	AmountPaid float64 `json:"amountPaid"`
	Email      string  `json:"email"`
}

type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Region       string    `json:"region"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"createdAt"`
}

type Review struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	ProductID string    `json:"productId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Date      time.Time `json:"date"`
}

// Snapshot is one immutable read of the collections the dashboard derives
// from. The store normalizes defaults (empty status -> pending, empty region
// -> Unknown) before handing it out, so aggregation never re-checks them.
type Snapshot struct {
	Orders       []Order
	ManualOrders []ManualOrder
	Payments     []Payment
	Users        []User
}

// Normalize applies the documented record defaults in place.
func (s *Snapshot) Normalize() {
	for i := range s.Orders {
		if s.Orders[i].Status == "" {
			s.Orders[i].Status = OrderStatusPending
		}
	}
	for i := range s.Users {
		if s.Users[i].Region == "" {
			s.Users[i].Region = UnknownRegion
		}
	}
}
