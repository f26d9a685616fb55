package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labelcheck/backend/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// ProductStore keeps product records in SQLite. The full record is stored as a
// JSON payload; name and brand are copied to columns for listing.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore opens (creating if needed) the database at dbPath and applies the schema
func NewProductStore(dbPath string) (*ProductStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}

	return &ProductStore{db: db}, nil
}

// dsn puts the pragmas in the connection string so every pooled connection gets them
func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=busy_timeout(" + busyTimeoutMillis + ")&_pragma=journal_mode(WAL)"
}

const busyTimeoutMillis = "5000"

func initializeSchema(db *sql.DB) error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("error reading schema file: %w", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		return fmt.Errorf("error executing schema: %w", err)
	}
	log.Println("[Store] Database schema initialized")
	return nil
}

// Save inserts or replaces a product. A product without an ID gets a new UUID.
func (s *ProductStore) Save(ctx context.Context, product *domain.ProductInfo) (*domain.ProductInfo, error) {
	stored := *product
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.CreatedAt = time.Time{}
	stored.UpdatedAt = time.Time{}

	payload, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding product: %v", domain.ErrStoreFailure, err)
	}

	now := time.Now().UTC().UnixNano()
	query := `
		INSERT INTO products (id, brand_name, product_name, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			brand_name = excluded.brand_name,
			product_name = excluded.product_name,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query,
		stored.ID, stored.BrandName, stored.ProductName, string(payload), now, now,
	); err != nil {
		return nil, fmt.Errorf("%w: saving product %s: %v", domain.ErrStoreFailure, stored.ID, err)
	}

	return s.Get(ctx, stored.ID)
}

// Get loads a product by ID
func (s *ProductStore) Get(ctx context.Context, id string) (*domain.ProductInfo, error) {
	query := `SELECT payload, created_at, updated_at FROM products WHERE id = ?`

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading product %s: %v", domain.ErrStoreFailure, id, err)
	}
	return product, nil
}

// ListRecent returns up to limit products, most recently updated first
func (s *ProductStore) ListRecent(ctx context.Context, limit int) ([]*domain.ProductInfo, error) {
	query := `
		SELECT payload, created_at, updated_at
		FROM products
		ORDER BY updated_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing products: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	results := make([]*domain.ProductInfo, 0, limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: reading product row: %v", domain.ErrStoreFailure, err)
		}
		results = append(results, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing products: %v", domain.ErrStoreFailure, err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.ProductInfo, error) {
	var payload string
	var createdAt, updatedAt int64
	if err := row.Scan(&payload, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var product domain.ProductInfo
	if err := json.Unmarshal([]byte(payload), &product); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	product.CreatedAt = time.Unix(0, createdAt).UTC()
	product.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &product, nil
}

// Close closes the database connection
func (s *ProductStore) Close() error {
	return s.db.Close()
}
