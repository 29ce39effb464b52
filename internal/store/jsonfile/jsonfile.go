// Package jsonfile persists each collection as one flat JSON array on disk.
// It is the platform's native storage: small data, whole-file reads, and a
// single writer lock per store. Writes go to a temp file first so a crash
// never leaves a half-written table behind.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/store"
)

const (
	ordersFile       = "orders.json"
	manualOrdersFile = "manual_orders.json"
	paymentsFile     = "payments.json"
	usersFile        = "users.json"
	productsFile     = "products.json"
	reviewsFile      = "reviews.json"
)

type Store struct {
	dir string
	mu  sync.RWMutex
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func readTable[T any](s *Store, name string) ([]T, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

func writeTable[T any](s *Store, name string, rows []T) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *Store) Snapshot(_ context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders, err := readTable[domain.Order](s, ordersFile)
	if err != nil {
		return domain.Snapshot{}, err
	}
	manual, err := readTable[domain.ManualOrder](s, manualOrdersFile)
	if err != nil {
		return domain.Snapshot{}, err
	}
	payments, err := readTable[domain.Payment](s, paymentsFile)
	if err != nil {
		return domain.Snapshot{}, err
	}
	users, err := readTable[domain.User](s, usersFile)
	if err != nil {
		return domain.Snapshot{}, err
	}

	snap := domain.Snapshot{Orders: orders, ManualOrders: manual, Payments: payments, Users: users}
	snap.Normalize()
	return snap, nil
}

func (s *Store) ListOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readTable[domain.Order](s, ordersFile)
}

func (s *Store) ListOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0)
	for _, order := range orders {
		if order.Email == email {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *Store) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders, err := readTable[domain.Order](s, ordersFile)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateOrder(_ context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := readTable[domain.Order](s, ordersFile)
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == order.ID {
			return store.ErrDuplicate
		}
	}
	return writeTable(s, ordersFile, append(orders, order))
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := readTable[domain.Order](s, ordersFile)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			if err := writeTable(s, ordersFile, orders); err != nil {
				return nil, err
			}
			return &orders[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListManualOrders(_ context.Context) ([]domain.ManualOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readTable[domain.ManualOrder](s, manualOrdersFile)
}

func (s *Store) CreateManualOrder(_ context.Context, order domain.ManualOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := readTable[domain.ManualOrder](s, manualOrdersFile)
	if err != nil {
		return err
	}
	for i := range rows {
		if rows[i].ID == order.ID {
			return store.ErrDuplicate
		}
	}
	return writeTable(s, manualOrdersFile, append(rows, order))
}

func (s *Store) UpdateManualOrderStatus(_ context.Context, id string, status string) (*domain.ManualOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := readTable[domain.ManualOrder](s, manualOrdersFile)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			rows[i].Status = status
			if err := writeTable(s, manualOrdersFile, rows); err != nil {
				return nil, err
			}
			return &rows[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListPayments(_ context.Context) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readTable[domain.Payment](s, paymentsFile)
}

func (s *Store) CreatePayment(_ context.Context, payment domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := readTable[domain.Payment](s, paymentsFile)
	if err != nil {
		return err
	}
	for i := range rows {
		if rows[i].PaymentID == payment.PaymentID {
			return store.ErrDuplicate
		}
	}
	return writeTable(s, paymentsFile, append(rows, payment))
}

func (s *Store) UpdatePaymentStatus(_ context.Context, id string, status string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := readTable[domain.Payment](s, paymentsFile)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].PaymentID == id {
			rows[i].Status = status
			if err := writeTable(s, paymentsFile, rows); err != nil {
				return nil, err
			}
			return &rows[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readTable[domain.User](s, usersFile)
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := readTable[domain.User](s, usersFile)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readTable[domain.User](s, usersFile)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Email == user.Email {
			return store.ErrDuplicate
		}
	}
	return writeTable(s, usersFile, append(users, user))
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readTable[domain.Product](s, productsFile)
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, err := readTable[domain.Product](s, productsFile)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := readTable[domain.Product](s, productsFile)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == product.ID {
			return store.ErrDuplicate
		}
	}
	return writeTable(s, productsFile, append(products, product))
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := readTable[domain.Product](s, productsFile)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			return writeTable(s, productsFile, products)
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := readTable[domain.Product](s, productsFile)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == id {
			return writeTable(s, productsFile, append(products[:i], products[i+1:]...))
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListReviews(_ context.Context) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readTable[domain.Review](s, reviewsFile)
}

func (s *Store) CreateReview(_ context.Context, review domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, err := readTable[domain.Review](s, reviewsFile)
	if err != nil {
		return err
	}
	return writeTable(s, reviewsFile, append(reviews, review))
}

func (s *Store) DeleteReview(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, err := readTable[domain.Review](s, reviewsFile)
	if err != nil {
		return err
	}
	for i := range reviews {
		if reviews[i].ID == id {
			return writeTable(s, reviewsFile, append(reviews[:i], reviews[i+1:]...))
		}
	}
	return store.ErrNotFound
}
