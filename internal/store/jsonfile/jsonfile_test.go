package jsonfile

import (
	"context"
	"errors"
	"testing"
	"time"

	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	order := domain.Order{
		ID:     "ord-1",
		Email:  "a@example.com",
		Items:  []domain.OrderItem{{Name: "Jollof Rice", Quantity: 2, UnitPrice: 1500}},
		Total:  3000,
		Status: "pending",
		Date:   time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC),
	}
	if err := s.CreateOrder(ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := s.CreateOrder(ctx, order); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	loaded, err := s.GetOrder(ctx, "ord-1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if loaded.Total != 3000 || len(loaded.Items) != 1 {
		t.Fatalf("unexpected order: %+v", loaded)
	}

	updated, err := s.UpdateOrderStatus(ctx, "ord-1", "delivered")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != "delivered" {
		t.Fatalf("expected delivered, got %s", updated.Status)
	}

	if _, err := s.UpdateOrderStatus(ctx, "missing", "delivered"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrdersByEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, order := range []domain.Order{
		{ID: "o1", Email: "a@example.com", Status: "pending"},
		{ID: "o2", Email: "b@example.com", Status: "pending"},
		{ID: "o3", Email: "a@example.com", Status: "delivered"},
	} {
		if err := s.CreateOrder(ctx, order); err != nil {
			t.Fatalf("create order: %v", err)
		}
	}

	mine, err := s.ListOrdersByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("list by email: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(mine))
	}
}

func TestSnapshotNormalizesDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.CreateOrder(ctx, domain.Order{ID: "o1", Email: "a@example.com"}); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := s.CreateUser(ctx, domain.User{Email: "a@example.com", Name: "Ada"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Orders[0].Status != domain.OrderStatusPending {
		t.Fatalf("expected pending default, got %q", snap.Orders[0].Status)
	}
	if snap.Users[0].Region != domain.UnknownRegion {
		t.Fatalf("expected Unknown region default, got %q", snap.Users[0].Region)
	}
}

func TestSnapshotOnEmptyDir(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Orders) != 0 || len(snap.ManualOrders) != 0 || len(snap.Payments) != 0 || len(snap.Users) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	product := domain.Product{ID: "p1", Name: "Suya", Price: 2000, Category: "Grill", Available: true}
	if err := s.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	product.Price = 2500
	if err := s.UpdateProduct(ctx, product); err != nil {
		t.Fatalf("update product: %v", err)
	}

	loaded, err := s.GetProduct(ctx, "p1")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if loaded.Price != 2500 {
		t.Fatalf("expected updated price, got %f", loaded.Price)
	}

	if err := s.DeleteProduct(ctx, "p1"); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := s.GetProduct(ctx, "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestManualOrderSettlementFlow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.CreateManualOrder(ctx, domain.ManualOrder{ID: "m1", Total: 500, Status: domain.ManualOrderCanceled}); err != nil {
		t.Fatalf("create manual order: %v", err)
	}
	settled, err := s.UpdateManualOrderStatus(ctx, "m1", domain.ManualOrderPaid)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Status != domain.ManualOrderPaid {
		t.Fatalf("expected paid, got %s", settled.Status)
	}
}
