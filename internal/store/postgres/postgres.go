// Package postgres implements the store against PostgreSQL for deployments
// that have outgrown the flat-file tables. Schemas mirror the JSON records;
// order items stay denormalized as jsonb since aggregation always reads them
// whole.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/store"
	"tavolo-order-service/internal/utils"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	manual, err := s.ListManualOrders(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	payments, err := s.ListPayments(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	users, err := s.ListUsers(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	snap := domain.Snapshot{Orders: orders, ManualOrders: manual, Payments: payments, Users: users}
	snap.Normalize()
	return snap, nil
}

func scanOrderRows(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			order domain.Order
			items []byte
			total pgtype.Numeric
		)
		if err := rows.Scan(&order.ID, &order.Email, &items, &total, &order.Status, &order.Date); err != nil {
			return nil, err
		}
		order.Total = utils.NumericToFloat64(total)
		if len(items) > 0 {
			if err := json.Unmarshal(items, &order.Items); err != nil {
				return nil, fmt.Errorf("decode order items: %w", err)
			}
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, `select id, email, items, total, status, date from orders order by date`)
	if err != nil {
		return nil, err
	}
	return scanOrderRows(rows)
}

func (s *Store) ListOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, `select id, email, items, total, status, date from orders where email = $1 order by date desc`, email)
	if err != nil {
		return nil, err
	}
	return scanOrderRows(rows)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	rows, err := s.pool.Query(ctx, `select id, email, items, total, status, date from orders where id = $1`, id)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrderRows(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, store.ErrNotFound
	}
	return &orders[0], nil
}

func (s *Store) CreateOrder(ctx context.Context, order domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`insert into orders (id, email, items, total, status, date) values ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.Email, items, order.Total, order.Status, order.Date,
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	tag, err := s.pool.Exec(ctx, `update orders set status = $2 where id = $1`, id, status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) ListManualOrders(ctx context.Context) ([]domain.ManualOrder, error) {
	rows, err := s.pool.Query(ctx, `select id, email, items, total, status, date from manual_orders order by date`)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrderRows(rows)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ManualOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, domain.ManualOrder(o))
	}
	return out, nil
}

func (s *Store) CreateManualOrder(ctx context.Context, order domain.ManualOrder) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`insert into manual_orders (id, email, items, total, status, date) values ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.Email, items, order.Total, order.Status, order.Date,
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) UpdateManualOrderStatus(ctx context.Context, id string, status string) (*domain.ManualOrder, error) {
	tag, err := s.pool.Exec(ctx, `update manual_orders set status = $2 where id = $1`, id, status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, store.ErrNotFound
	}

	rows, err := s.pool.Query(ctx, `select id, email, items, total, status, date from manual_orders where id = $1`, id)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrderRows(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, store.ErrNotFound
	}
	out := domain.ManualOrder(orders[0])
	return &out, nil
}

func (s *Store) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	rows, err := s.pool.Query(ctx, `select payment_id, status, amount_paid, email from payments order by payment_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var (
			payment domain.Payment
			amount  pgtype.Numeric
		)
		if err := rows.Scan(&payment.PaymentID, &payment.Status, &amount, &payment.Email); err != nil {
			return nil, err
		}
		payment.AmountPaid = utils.NumericToFloat64(amount)
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (s *Store) CreatePayment(ctx context.Context, payment domain.Payment) error {
	_, err := s.pool.Exec(ctx,
		`insert into payments (payment_id, status, amount_paid, email) values ($1, $2, $3, $4)`,
		payment.PaymentID, payment.Status, payment.AmountPaid, payment.Email,
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status string) (*domain.Payment, error) {
	var (
		payment domain.Payment
		amount  pgtype.Numeric
	)
	err := s.pool.QueryRow(ctx,
		`update payments set status = $2 where payment_id = $1 returning payment_id, status, amount_paid, email`,
		id, status,
	).Scan(&payment.PaymentID, &payment.Status, &amount, &payment.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	payment.AmountPaid = utils.NumericToFloat64(amount)
	return &payment, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, `select email, name, coalesce(region, ''), role, password_hash, created_at from users order by created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Email, &user.Name, &user.Region, &user.Role, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx,
		`select email, name, coalesce(region, ''), role, password_hash, created_at from users where email = $1`,
		email,
	).Scan(&user.Email, &user.Name, &user.Region, &user.Role, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.User) error {
	_, err := s.pool.Exec(ctx,
		`insert into users (email, name, region, role, password_hash, created_at) values ($1, $2, $3, $4, $5, $6)`,
		user.Email, user.Name, user.Region, user.Role, user.PasswordHash, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, `select id, name, price, category, coalesce(image_url, ''), available, created_at from products order by created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var (
			product domain.Product
			price   pgtype.Numeric
		)
		if err := rows.Scan(&product.ID, &product.Name, &price, &product.Category, &product.ImageURL, &product.Available, &product.CreatedAt); err != nil {
			return nil, err
		}
		product.Price = utils.NumericToFloat64(price)
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var (
		product domain.Product
		price   pgtype.Numeric
	)
	err := s.pool.QueryRow(ctx,
		`select id, name, price, category, coalesce(image_url, ''), available, created_at from products where id = $1`,
		id,
	).Scan(&product.ID, &product.Name, &price, &product.Category, &product.ImageURL, &product.Available, &product.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	product.Price = utils.NumericToFloat64(price)
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) error {
	_, err := s.pool.Exec(ctx,
		`insert into products (id, name, price, category, image_url, available, created_at) values ($1, $2, $3, $4, $5, $6, $7)`,
		product.ID, product.Name, product.Price, product.Category, product.ImageURL, product.Available, product.CreatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) error {
	tag, err := s.pool.Exec(ctx,
		`update products set name = $2, price = $3, category = $4, image_url = $5, available = $6 where id = $1`,
		product.ID, product.Name, product.Price, product.Category, product.ImageURL, product.Available,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `delete from products where id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := s.pool.Query(ctx, `select id, email, product_id, rating, comment, date from reviews order by date desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(&review.ID, &review.Email, &review.ProductID, &review.Rating, &review.Comment, &review.Date); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (s *Store) CreateReview(ctx context.Context, review domain.Review) error {
	_, err := s.pool.Exec(ctx,
		`insert into reviews (id, email, product_id, rating, comment, date) values ($1, $2, $3, $4, $5, $6)`,
		review.ID, review.Email, review.ProductID, review.Rating, review.Comment, review.Date,
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `delete from reviews where id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
