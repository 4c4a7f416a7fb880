// Package store implements the durable Session Store and Order Store of
// spec.md §2/§3 over database/sql, grounded on the teacher's
// pkg/memory/session_service_sql.go multi-dialect pattern: one schema,
// three drivers (postgres/mysql/sqlite) selected from the DSN scheme, with
// dialect-specific placeholder syntax handled inline.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect names the SQL driver flavor in use.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite3"
)

// DB wraps a *sql.DB with the dialect needed to pick placeholder syntax.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open parses databaseURL's scheme to choose a driver, opens the
// connection, runs initSchema, and returns the wrapped handle. Schemes:
// "postgres://...", "mysql://...", "sqlite://path" or a bare file path.
func Open(ctx context.Context, databaseURL string) (*DB, error) {
	driver, dsn, dialect := parseDSN(databaseURL)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	wrapped := &DB{DB: db, Dialect: dialect}
	if err := wrapped.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return wrapped, nil
}

func parseDSN(databaseURL string) (driver, dsn string, dialect Dialect) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return "postgres", databaseURL, DialectPostgres
	case strings.HasPrefix(databaseURL, "mysql://"):
		return "mysql", strings.TrimPrefix(databaseURL, "mysql://"), DialectMySQL
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return "sqlite3", strings.TrimPrefix(databaseURL, "sqlite://"), DialectSQLite
	default:
		return "sqlite3", databaseURL, DialectSQLite
	}
}

// Placeholder returns the dialect-correct bind placeholder for position n
// (1-indexed): "$n" for Postgres, "?" otherwise.
func (d *DB) Placeholder(n int) string {
	if d.Dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Rebind rewrites a query written with "?" placeholders into the dialect's
// native syntax, so call sites across packages can write portable SQL once.
func (d *DB) Rebind(query string) string {
	if d.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d *DB) initSchema(ctx context.Context) error {
	autoIncrement := "INTEGER PRIMARY KEY AUTOINCREMENT"
	jsonType := "TEXT"
	switch d.Dialect {
	case DialectPostgres:
		autoIncrement = "SERIAL PRIMARY KEY"
		jsonType = "JSONB"
	case DialectMySQL:
		autoIncrement = "BIGINT PRIMARY KEY AUTO_INCREMENT"
		jsonType = "JSON"
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS covered_areas (
			id %s,
			name_ar VARCHAR(100) NOT NULL,
			name_en VARCHAR(100),
			aliases TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true
		)`, autoIncrement),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS menu_items (
			id %s,
			name_ar VARCHAR(200) NOT NULL,
			name_en VARCHAR(200),
			description_ar TEXT,
			category_ar VARCHAR(100) NOT NULL,
			price_halalas BIGINT NOT NULL,
			is_combo BOOLEAN NOT NULL DEFAULT false,
			is_available BOOLEAN NOT NULL DEFAULT true
		)`, autoIncrement),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS modifier_groups (
			id %s,
			name_ar VARCHAR(100) NOT NULL,
			selection_type VARCHAR(20) NOT NULL DEFAULT 'single',
			min_selections INTEGER NOT NULL DEFAULT 0,
			max_selections INTEGER NOT NULL DEFAULT 1,
			is_required BOOLEAN NOT NULL DEFAULT false
		)`, autoIncrement),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS modifiers (
			id %s,
			group_id BIGINT NOT NULL,
			name_ar VARCHAR(100) NOT NULL,
			price_delta_halalas BIGINT NOT NULL DEFAULT 0,
			is_available BOOLEAN NOT NULL DEFAULT true
		)`, autoIncrement),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS item_modifier_groups (
			id %s,
			menu_item_id BIGINT NOT NULL,
			modifier_group_id BIGINT NOT NULL
		)`, autoIncrement),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS promo_codes (
			id %s,
			code VARCHAR(50) NOT NULL UNIQUE,
			discount_type VARCHAR(20) NOT NULL,
			value_halalas BIGINT NOT NULL,
			min_order_halalas BIGINT,
			max_discount_halalas BIGINT,
			usage_limit INTEGER,
			usage_count INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			valid_from TIMESTAMP,
			valid_until TIMESTAMP
		)`, autoIncrement),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS orders (
			id %s,
			session_id VARCHAR(255) NOT NULL,
			customer_name VARCHAR(200) NOT NULL,
			customer_phone VARCHAR(20) NOT NULL,
			order_type VARCHAR(20) NOT NULL,
			delivery_area_id BIGINT,
			subtotal_halalas BIGINT NOT NULL,
			delivery_fee_halalas BIGINT NOT NULL DEFAULT 0,
			discount_halalas BIGINT NOT NULL DEFAULT 0,
			total_halalas BIGINT NOT NULL,
			promo_code_id BIGINT,
			status VARCHAR(30) NOT NULL DEFAULT 'confirmed',
			notes TEXT,
			created_at TIMESTAMP NOT NULL
		)`, autoIncrement),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS order_items (
			id %s,
			order_id BIGINT NOT NULL,
			menu_item_id BIGINT NOT NULL,
			name_ar VARCHAR(200) NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			unit_price_halalas BIGINT NOT NULL,
			total_price_halalas BIGINT NOT NULL,
			notes TEXT
		)`, autoIncrement),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS order_item_modifiers (
			id %s,
			order_item_id BIGINT NOT NULL,
			modifier_id BIGINT NOT NULL,
			name_ar VARCHAR(100) NOT NULL,
			price_delta_halalas BIGINT NOT NULL
		)`, autoIncrement),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR(255) PRIMARY KEY,
			fsm_state VARCHAR(30) NOT NULL,
			data %s NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)`, jsonType),
	}

	for _, stmt := range stmts {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}
