package stub

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"orders-admin/internal/order"
)

var ErrOrderNotFound = errors.New("stub: order not found")

// Store persists orders and products for the stub upstream.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListOrders returns one page of order rows plus the total row count for the
// given filters. Rows are newest first; aggregates are computed in SQL.
func (s *Store) ListOrders(ctx context.Context, q order.PageQuery) ([]order.Row, int, error) {
	q = q.Normalize()

	where := []string{}
	args := []any{}

	if q.CustomerName != "" {
		args = append(args, "%"+q.CustomerName+"%")
		where = append(where, fmt.Sprintf("o.customer_name ILIKE $%d", len(args)))
	}
	if q.Date != nil {
		args = append(args, q.Date.Format("2006-01-02"))
		where = append(where, fmt.Sprintf("o.created_at::date = $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM orders o" + whereClause
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("stub: count orders: %w", err)
	}

	query := `
		SELECT o.id, o.customer_name, o.created_at,
		       COALESCE(SUM(i.quantity), 0) AS total_products,
		       COALESCE(SUM(i.product_price * i.quantity), 0) AS total_price
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id` +
		whereClause + `
		GROUP BY o.id
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)

	rows := []order.Row{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("stub: select orders: %w", err)
	}

	return rows, total, nil
}

// GetOrder returns one order with its nested line items.
func (s *Store) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	err := s.db.GetContext(ctx, &o,
		"SELECT id, customer_name, created_at FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("stub: get order: %w", err)
	}

	o.Products = []order.LineItem{}
	err = s.db.SelectContext(ctx, &o.Products,
		"SELECT product_id, quantity, product_price FROM order_items WHERE order_id = $1 ORDER BY id", id)
	if err != nil {
		return nil, fmt.Errorf("stub: get order items: %w", err)
	}

	return &o, nil
}

// CreateOrder inserts an order with its items in one transaction.
func (s *Store) CreateOrder(ctx context.Context, draft order.Draft) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("stub: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowxContext(ctx,
		"INSERT INTO orders (customer_name, created_at) VALUES ($1, $2) RETURNING id",
		draft.CustomerName, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("stub: insert order: %w", err)
	}

	if err := insertItems(ctx, tx, id, draft.Products); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("stub: commit: %w", err)
	}
	return id, nil
}

// UpdateOrder replaces the order's name and items wholesale.
func (s *Store) UpdateOrder(ctx context.Context, id int64, draft order.Draft) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("stub: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET customer_name = $1 WHERE id = $2", draft.CustomerName, id)
	if err != nil {
		return fmt.Errorf("stub: update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", id); err != nil {
		return fmt.Errorf("stub: clear order items: %w", err)
	}

	if err := insertItems(ctx, tx, id, draft.Products); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("stub: commit: %w", err)
	}
	return nil
}

// DeleteOrder removes the order; items go with it via ON DELETE CASCADE.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("stub: delete order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListProducts returns the whole catalog.
func (s *Store) ListProducts(ctx context.Context) ([]order.Product, error) {
	products := []order.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT id, name, price FROM products ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("stub: select products: %w", err)
	}
	return products, nil
}

func insertItems(ctx context.Context, tx *sqlx.Tx, orderID int64, items []order.LineItem) error {
	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, product_price)
			 VALUES ($1, $2, $3, $4)`,
			orderID, item.ProductID, item.Quantity, item.ProductPrice)
		if err != nil {
			return fmt.Errorf("stub: insert order item: %w", err)
		}
	}
	return nil
}
