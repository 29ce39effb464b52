// Package store defines the persistence boundary. The dashboard core only
// ever consumes Snapshot; the CRUD surface is what the storefront and back
// office mutate.
package store

import (
	"context"
	"errors"

	"tavolo-order-service/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type Store interface {
	// Snapshot returns one consistent, normalized read of the collections
	// the dashboard derives from. Each call is independent; callers must not
	// mutate the result.
	Snapshot(ctx context.Context) (domain.Snapshot, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	UpdateOrderStatus(ctx context.Context, id string, status string) (*domain.Order, error)

	ListManualOrders(ctx context.Context) ([]domain.ManualOrder, error)
	CreateManualOrder(ctx context.Context, order domain.ManualOrder) error
	UpdateManualOrderStatus(ctx context.Context, id string, status string) (*domain.ManualOrder, error)

	ListPayments(ctx context.Context) ([]domain.Payment, error)
	CreatePayment(ctx context.Context, payment domain.Payment) error
	UpdatePaymentStatus(ctx context.Context, id string, status string) (*domain.Payment, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user domain.User) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) error
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListReviews(ctx context.Context) ([]domain.Review, error)
	CreateReview(ctx context.Context, review domain.Review) error
	DeleteReview(ctx context.Context, id string) error
}
