package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the Postgres-backed Store. Orders and their line items live
// in two tables written inside one transaction.
type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

const orderColumns = `id, order_number, customer_name, customer_email, customer_phone,
	customer_address, subtotal, shipping, tax, total, status, payment_status,
	payment_method, notes, tracking_number, delivered_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.Customer.Name, &o.Customer.Email,
		&o.Customer.Phone, &o.Customer.Address, &o.Subtotal, &o.Shipping, &o.Tax,
		&o.Total, &o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.Notes,
		&o.TrackingNumber, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *PGStore) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = PaymentUPI
	}
	o.RecomputeTotals()

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("order: begin create: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The sequence, not a row count, names the order: concurrent
	// creates cannot mint duplicates.
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('order_numbers')`).Scan(&seq); err != nil {
		return fmt.Errorf("order: next number: %w", err)
	}
	o.OrderNumber = FormatNumber(seq)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders
			(id, order_number, customer_name, customer_email, customer_phone, customer_address,
			 subtotal, shipping, tax, total, status, payment_status, payment_method, notes,
			 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		o.ID, o.OrderNumber, o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		o.Customer.Address, o.Subtotal, o.Shipping, o.Tax, o.Total, o.Status,
		o.PaymentStatus, o.PaymentMethod, o.Notes, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("order: insert: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, quantity, price, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			uuid.NewString(), o.ID, it.ProductID, it.Name, it.Quantity, it.Price, it.Total)
		if err != nil {
			return fmt.Errorf("order: insert item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("order: commit create: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id string) (*Order, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order: get %s: %w", id, err)
	}
	if err := s.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PGStore) List(ctx context.Context, opts ListOptions) ([]Order, int, error) {
	limit, page := opts.Limit, opts.Page
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}

	where := "TRUE"
	args := []any{}
	if opts.Status != "" {
		args = append(args, opts.Status)
		where = "status = $1"
	}

	var total int
	if err := s.DB.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM orders WHERE %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("order: count: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	q := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))

	orders, err := s.queryOrders(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *PGStore) ListByEmail(ctx context.Context, email string) ([]Order, error) {
	return s.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE LOWER(customer_email) = LOWER($1) ORDER BY created_at DESC`,
		email)
}

func (s *PGStore) UpdateStatus(ctx context.Context, id string, status Status, trackingNumber string) (*Order, error) {
	row := s.DB.QueryRow(ctx, `
		UPDATE orders
		SET status = $2,
		    tracking_number = CASE WHEN $3 <> '' THEN $3 ELSE tracking_number END,
		    delivered_at = CASE WHEN $2 = 'delivered' THEN NOW() ELSE delivered_at END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns, id, status, trackingNumber)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order: update status %s: %w", id, err)
	}
	if err := s.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("order: delete %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("order: count: %w", err)
	}
	return n, nil
}

func (s *PGStore) CountBetween(ctx context.Context, from, to time.Time) (int, error) {
	var (
		n   int
		err error
	)
	if to.IsZero() {
		err = s.DB.QueryRow(ctx,
			`SELECT COUNT(*) FROM orders WHERE created_at >= $1`, from).Scan(&n)
	} else {
		err = s.DB.QueryRow(ctx,
			`SELECT COUNT(*) FROM orders WHERE created_at >= $1 AND created_at < $2`, from, to).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("order: count between: %w", err)
	}
	return n, nil
}

func (s *PGStore) Revenue(ctx context.Context, since time.Time) (float64, error) {
	var sum float64
	err := s.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM orders
		WHERE status <> 'cancelled' AND created_at >= $1`, since).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("order: revenue: %w", err)
	}
	return sum, nil
}

func (s *PGStore) TopProducts(ctx context.Context, n int) ([]ProductSales, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT product_id, MAX(name), SUM(quantity)::int, SUM(total)
		FROM order_items
		GROUP BY product_id
		ORDER BY SUM(quantity) DESC
		LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("order: top products: %w", err)
	}
	defer rows.Close()

	var out []ProductSales
	for rows.Next() {
		var ps ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.Name, &ps.UnitsSold, &ps.Revenue); err != nil {
			return nil, fmt.Errorf("order: top products scan: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (s *PGStore) Recent(ctx context.Context, n int) ([]Order, error) {
	return s.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, n)
}

func (s *PGStore) SalesByDay(ctx context.Context, since time.Time) ([]DailySales, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT TO_CHAR(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       COUNT(*)::int, SUM(total)
		FROM orders
		WHERE status <> 'cancelled' AND created_at >= $1
		GROUP BY day
		ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("order: sales by day: %w", err)
	}
	defer rows.Close()

	var out []DailySales
	for rows.Next() {
		var ds DailySales
		if err := rows.Scan(&ds.Date, &ds.Orders, &ds.Revenue); err != nil {
			return nil, fmt.Errorf("order: sales scan: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

func (s *PGStore) queryOrders(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("order: query: %w", err)
	}
	defer rows.Close()

	var (
		out  []Order
		refs []*Order
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("order: scan: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		refs = append(refs, &out[i])
	}
	if err := s.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

// attachItems loads line items for the given orders in one query.
func (s *PGStore) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	byID := make(map[string]*Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	rows, err := s.DB.Query(ctx, `
		SELECT order_id, product_id, name, quantity, price, total
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY order_id`, ids)
	if err != nil {
		return fmt.Errorf("order: load items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			it      Item
		)
		if err := rows.Scan(&orderID, &it.ProductID, &it.Name, &it.Quantity, &it.Price, &it.Total); err != nil {
			return fmt.Errorf("order: item scan: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}
