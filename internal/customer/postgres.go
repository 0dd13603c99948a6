package customer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the Postgres-backed Store. Addresses and order refs are
// JSONB documents on the customer row, mirroring the embedded-array
// shape the API exposes.
type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

const customerColumns = `id, name, email, phone, addresses, orders,
	total_orders, total_spent, loyalty_points, status, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var (
		c         Customer
		addrsJSON []byte
		refsJSON  []byte
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &addrsJSON, &refsJSON,
		&c.TotalOrders, &c.TotalSpent, &c.LoyaltyPoints, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addrsJSON, &c.Addresses); err != nil {
		return nil, fmt.Errorf("decode addresses: %w", err)
	}
	if err := json.Unmarshal(refsJSON, &c.Orders); err != nil {
		return nil, fmt.Errorf("decode order refs: %w", err)
	}
	return &c, nil
}

func (s *PGStore) List(ctx context.Context, opts ListOptions) ([]Customer, int, error) {
	limit, page := opts.Limit, opts.Page
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}

	where := "TRUE"
	args := []any{}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where = "(name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1)"
	}

	var total int
	if err := s.DB.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM customers WHERE %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customer: count: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	q := fmt.Sprintf(`SELECT %s FROM customers WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		customerColumns, where, len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("customer: list: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("customer: list scan: %w", err)
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (s *PGStore) Get(ctx context.Context, id string) (*Customer, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customer: get %s: %w", id, err)
	}
	return c, nil
}

func (s *PGStore) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`, NormalizeEmail(email))
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customer: get by email: %w", err)
	}
	return c, nil
}

func (s *PGStore) Update(ctx context.Context, id string, upd Update) (*Customer, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Phone != nil {
		next.Phone = *upd.Phone
	}
	if upd.Status != nil {
		next.Status = *upd.Status
	}
	if upd.LoyaltyPoints != nil {
		next.LoyaltyPoints = *upd.LoyaltyPoints
	}

	row := s.DB.QueryRow(ctx, `
		UPDATE customers
		SET name = $2, phone = $3, status = $4, loyalty_points = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+customerColumns,
		id, next.Name, next.Phone, next.Status, next.LoyaltyPoints)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customer: update %s: %w", id, err)
	}
	return c, nil
}

func (s *PGStore) AddAddress(ctx context.Context, id string, addr Address) (*Customer, error) {
	if addr.Type == "" {
		addr.Type = AddressHome
	}
	addrJSON, err := json.Marshal(addr)
	if err != nil {
		return nil, fmt.Errorf("customer: encode address: %w", err)
	}

	row := s.DB.QueryRow(ctx, `
		UPDATE customers
		SET addresses = addresses || $2::jsonb, updated_at = NOW()
		WHERE id = $1
		RETURNING `+customerColumns, id, addrJSON)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customer: add address %s: %w", id, err)
	}
	return c, nil
}

func (s *PGStore) RecordOrder(ctx context.Context, contact Contact, orderID string, total float64) (*Customer, error) {
	seedAddrs, err := json.Marshal([]Address{{
		Type:      AddressHome,
		Address:   contact.Address,
		IsDefault: true,
	}})
	if err != nil {
		return nil, fmt.Errorf("customer: encode seed address: %w", err)
	}

	// Single-statement upsert keyed on the unique email: two concurrent
	// checkouts for the same email serialize on the row.
	row := s.DB.QueryRow(ctx, `
		INSERT INTO customers
			(id, name, email, phone, addresses, orders, total_orders, total_spent, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, jsonb_build_array($6::text), 1, $7, 'active', NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET
			total_orders = customers.total_orders + 1,
			total_spent  = customers.total_spent + EXCLUDED.total_spent,
			orders       = customers.orders || EXCLUDED.orders,
			updated_at   = NOW()
		RETURNING `+customerColumns,
		uuid.NewString(), contact.Name, NormalizeEmail(contact.Email), contact.Phone,
		seedAddrs, orderID, total)

	c, err := scanCustomer(row)
	if err != nil {
		return nil, fmt.Errorf("customer: record order: %w", err)
	}
	return c, nil
}

func (s *PGStore) RevertOrder(ctx context.Context, email, orderID string, total float64) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE customers
		SET total_orders = total_orders - 1,
		    total_spent  = total_spent - $3,
		    orders       = orders - $2,
		    updated_at   = NOW()
		WHERE email = $1`, NormalizeEmail(email), orderID, total)
	if err != nil {
		return fmt.Errorf("customer: revert order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("customer: count: %w", err)
	}
	return n, nil
}

func (s *PGStore) CountActive(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE status = 'active'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("customer: count active: %w", err)
	}
	return n, nil
}

func (s *PGStore) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM customers WHERE created_at >= $1`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("customer: count since: %w", err)
	}
	return n, nil
}

func (s *PGStore) TopBySpend(ctx context.Context, n int) ([]TopCustomer, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT name, email, total_spent, total_orders
		FROM customers ORDER BY total_spent DESC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("customer: top by spend: %w", err)
	}
	defer rows.Close()

	var out []TopCustomer
	for rows.Next() {
		var t TopCustomer
		if err := rows.Scan(&t.Name, &t.Email, &t.TotalSpent, &t.TotalOrders); err != nil {
			return nil, fmt.Errorf("customer: top scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
