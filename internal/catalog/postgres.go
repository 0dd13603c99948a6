package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the Postgres-backed Store.
type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

const productColumns = `id, name, description, size, price, COALESCE(original_price, 0), image,
	category, stock, in_stock, rating, reviews, COALESCE(badge, ''), is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Size, &p.Price, &p.OriginalPrice,
		&p.Image, &p.Category, &p.Stock, &p.InStock, &p.Rating, &p.Reviews, &p.Badge,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PGStore) List(ctx context.Context, opts ListOptions) ([]Product, error) {
	var (
		conds = []string{"is_active"}
		args  []any
	)
	if opts.Category != "" {
		args = append(args, opts.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if opts.InStock {
		conds = append(conds, "in_stock")
	}

	orderBy := "LOWER(name) ASC"
	switch opts.SortBy {
	case SortPriceLow:
		orderBy = "price ASC"
	case SortPriceHigh:
		orderBy = "price DESC"
	case SortRating:
		orderBy = "rating DESC"
	case SortNewest:
		orderBy = "created_at DESC"
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	limitClause := ""
	if limit > 0 {
		args = append(args, limit)
		limitClause = fmt.Sprintf(" LIMIT $%d", len(args))
	}

	q := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s%s`,
		productColumns, strings.Join(conds, " AND "), orderBy, limitClause)

	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: list scan: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PGStore) Get(ctx context.Context, id string) (*Product, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND is_active`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	return p, nil
}

func (s *PGStore) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.IsActive = true
	p.InStock = p.Stock > 0

	_, err := s.DB.Exec(ctx, `
		INSERT INTO products
			(id, name, description, size, price, original_price, image, category,
			 stock, in_stock, rating, reviews, badge, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6, 0::double precision),$7,$8,$9,$10,$11,$12,NULLIF($13, ''),$14,$15,$16)`,
		p.ID, p.Name, p.Description, p.Size, p.Price, p.OriginalPrice, p.Image, p.Category,
		p.Stock, p.InStock, p.Rating, p.Reviews, string(p.Badge), p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog: create: %w", err)
	}
	return nil
}

func (s *PGStore) Update(ctx context.Context, id string, upd Update) (*Product, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Description != nil {
		next.Description = *upd.Description
	}
	if upd.Size != nil {
		next.Size = *upd.Size
	}
	if upd.Price != nil {
		next.Price = *upd.Price
	}
	if upd.OriginalPrice != nil {
		next.OriginalPrice = *upd.OriginalPrice
	}
	if upd.Image != nil {
		next.Image = *upd.Image
	}
	if upd.Category != nil {
		next.Category = *upd.Category
	}
	if upd.Rating != nil {
		next.Rating = *upd.Rating
	}
	if upd.Reviews != nil {
		next.Reviews = *upd.Reviews
	}
	if upd.Badge != nil {
		next.Badge = *upd.Badge
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	row := s.DB.QueryRow(ctx, `
		UPDATE products SET
			name = $2, description = $3, size = $4, price = $5,
			original_price = NULLIF($6, 0::double precision), image = $7, category = $8,
			rating = $9, reviews = $10, badge = NULLIF($11, ''), updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING `+productColumns,
		id, next.Name, next.Description, next.Size, next.Price, next.OriginalPrice,
		next.Image, next.Category, next.Rating, next.Reviews, string(next.Badge))

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: update %s: %w", id, err)
	}
	return p, nil
}

func (s *PGStore) Deactivate(ctx context.Context, id string) error {
	ct, err := s.DB.Exec(ctx,
		`UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("catalog: deactivate %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) SetStock(ctx context.Context, id string, stock int) (*Product, error) {
	if stock < 0 {
		return nil, errors.New("stock must not be negative")
	}
	row := s.DB.QueryRow(ctx, `
		UPDATE products SET stock = $2, in_stock = $2 > 0, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING `+productColumns, id, stock)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: set stock %s: %w", id, err)
	}
	return p, nil
}

func (s *PGStore) AddStock(ctx context.Context, id string, qty int) (*Product, error) {
	row := s.DB.QueryRow(ctx, `
		UPDATE products
		SET stock = stock + $2, in_stock = stock + $2 > 0, updated_at = NOW()
		WHERE id = $1 AND is_active AND stock + $2 >= 0
		RETURNING `+productColumns, id, qty)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Disambiguate: a missing row means not found, an existing one
		// means the adjustment would go negative.
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInsufficientStock
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: add stock %s: %w", id, err)
	}
	return p, nil
}

func (s *PGStore) RemoveStock(ctx context.Context, id string, qty int) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, in_stock = stock - $2 > 0, updated_at = NOW()
		WHERE id = $1 AND is_active AND stock >= $2`, id, qty)
	if err != nil {
		return fmt.Errorf("catalog: remove stock %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return getErr
		}
		return ErrInsufficientStock
	}
	return nil
}

func (s *PGStore) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_active AND stock <= $1 ORDER BY stock ASC`,
		threshold)
	if err != nil {
		return nil, fmt.Errorf("catalog: low stock: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: low stock scan: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PGStore) CountActive(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("catalog: count active: %w", err)
	}
	return n, nil
}

func (s *PGStore) CountLowStock(ctx context.Context, threshold int) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE is_active AND stock <= $1`, threshold).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("catalog: count low stock: %w", err)
	}
	return n, nil
}
