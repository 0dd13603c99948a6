// Package postgres owns the pgx connection pool and the storefront schema.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect builds a tuned pgx pool and verifies connectivity before
// returning it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	cfg.MaxConns = 16
	cfg.MinConns = 2
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

// Migrate applies the schema idempotently on startup. Statements are
// plain CREATE ... IF NOT EXISTS so restarting the service is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id             UUID PRIMARY KEY,
			name           TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			size           TEXT NOT NULL DEFAULT '',
			price          DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			original_price DOUBLE PRECISION,
			image          TEXT NOT NULL DEFAULT '',
			category       TEXT NOT NULL CHECK (category IN ('ghee', 'dairy', 'organic')),
			stock          INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			in_stock       BOOLEAN NOT NULL DEFAULT false,
			rating         DOUBLE PRECISION NOT NULL DEFAULT 5,
			reviews        INTEGER NOT NULL DEFAULT 0,
			badge          TEXT,
			is_active      BOOLEAN NOT NULL DEFAULT true,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_products_stock ON products(stock) WHERE is_active`,

		`CREATE TABLE IF NOT EXISTS customers (
			id             UUID PRIMARY KEY,
			name           TEXT NOT NULL,
			email          TEXT NOT NULL UNIQUE,
			phone          TEXT NOT NULL DEFAULT '',
			addresses      JSONB NOT NULL DEFAULT '[]',
			orders         JSONB NOT NULL DEFAULT '[]',
			total_orders   INTEGER NOT NULL DEFAULT 0,
			total_spent    DOUBLE PRECISION NOT NULL DEFAULT 0,
			loyalty_points INTEGER NOT NULL DEFAULT 0,
			status         TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive', 'blocked')),
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Order numbers come from a sequence, not a row count, so two
		// concurrent checkouts can never mint the same number.
		`CREATE SEQUENCE IF NOT EXISTS order_numbers START 1`,

		`CREATE TABLE IF NOT EXISTS orders (
			id               UUID PRIMARY KEY,
			order_number     TEXT NOT NULL UNIQUE,
			customer_name    TEXT NOT NULL,
			customer_email   TEXT NOT NULL,
			customer_phone   TEXT NOT NULL DEFAULT '',
			customer_address TEXT NOT NULL DEFAULT '',
			subtotal         DOUBLE PRECISION NOT NULL,
			shipping         DOUBLE PRECISION NOT NULL DEFAULT 0,
			tax              DOUBLE PRECISION NOT NULL DEFAULT 0,
			total            DOUBLE PRECISION NOT NULL,
			status           TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'confirmed', 'processing', 'shipped', 'delivered', 'cancelled')),
			payment_status   TEXT NOT NULL DEFAULT 'pending'
				CHECK (payment_status IN ('pending', 'paid', 'failed', 'refunded')),
			payment_method   TEXT NOT NULL DEFAULT 'upi'
				CHECK (payment_method IN ('upi', 'card', 'cash', 'bank_transfer')),
			notes            TEXT NOT NULL DEFAULT '',
			tracking_number  TEXT NOT NULL DEFAULT '',
			delivered_at     TIMESTAMPTZ,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer_email ON orders(customer_email)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,

		`CREATE TABLE IF NOT EXISTS order_items (
			id         UUID PRIMARY KEY,
			order_id   UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id UUID NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			quantity   INTEGER NOT NULL CHECK (quantity >= 1),
			price      DOUBLE PRECISION NOT NULL,
			total      DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id)`,
	}

	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}
