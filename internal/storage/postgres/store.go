package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongminglow/kitchen-guide/internal/models"
	"github.com/hongminglow/kitchen-guide/internal/storage"
)

// Compile-time interface checks.
var (
	_ storage.ProductStore     = (*Store)(nil)
	_ storage.PreparationStore = (*Store)(nil)
	_ storage.UserStore        = (*Store)(nil)
)

// Store provides Postgres-backed persistence for products, preparations, and users.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store with a bounded pool and runs migrations. The pool is
// capped at 5 connections with a 3 second connect timeout.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 5
	cfg.ConnConfig.ConnectTimeout = 3 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			supplier_name TEXT NOT NULL,
			product_name TEXT NOT NULL,
			location TEXT NOT NULL,
			picture_url TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS preparations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			prep_type TEXT NOT NULL,
			shift TEXT NOT NULL,
			location TEXT NOT NULL,
			picture_url TEXT NOT NULL DEFAULT '',
			steps TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS preparation_steps (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			preparation_id UUID NOT NULL REFERENCES preparations(id) ON DELETE CASCADE,
			step_number INTEGER NOT NULL,
			description TEXT NOT NULL,
			picture_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS preparation_steps_prep_idx ON preparation_steps (preparation_id, step_number);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// ---- products ----

const productColumns = `id, supplier_name, product_name, location, picture_url, description, created_at, updated_at`

// ListProducts returns all products, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// GetProduct fetches one product by id.
func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// CreateProduct inserts a new product row.
func (s *Store) CreateProduct(ctx context.Context, form models.ProductForm, pictureURL string) (models.Product, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO products (supplier_name, product_name, location, picture_url, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		form.SupplierName, form.ProductName, form.Location, pictureURL, form.Description)
	return scanProduct(row)
}

// UpdateProduct rewrites an existing product row.
func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, form models.ProductForm, pictureURL string) (models.Product, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE products
		SET supplier_name = $2, product_name = $3, location = $4, picture_url = $5, description = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		id, form.SupplierName, form.ProductName, form.Location, pictureURL, form.Description)
	return scanProduct(row)
}

// SearchProducts does a case-insensitive substring search over the text columns.
func (s *Store) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	pattern := "%" + term + "%"
	rows, err := s.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE product_name ILIKE $1
		   OR supplier_name ILIKE $1
		   OR location ILIKE $1
		   OR description ILIKE $1
		ORDER BY product_name`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.SupplierName, &p.ProductName, &p.Location, &p.PictureURL, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, storage.ErrNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}

func scanProducts(rows pgx.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.SupplierName, &p.ProductName, &p.Location, &p.PictureURL, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ---- preparations ----

const preparationColumns = `id, name, prep_type, shift, location, picture_url, steps, created_at, updated_at`

// ListPreparations returns all preparations grouped by type, then name.
func (s *Store) ListPreparations(ctx context.Context) ([]models.Preparation, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+preparationColumns+` FROM preparations ORDER BY prep_type, name`)
	if err != nil {
		return nil, fmt.Errorf("list preparations: %w", err)
	}
	defer rows.Close()
	return scanPreparations(rows)
}

// GetPreparation fetches one preparation by id.
func (s *Store) GetPreparation(ctx context.Context, id uuid.UUID) (models.Preparation, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+preparationColumns+` FROM preparations WHERE id = $1`, id)
	return scanPreparation(row)
}

// GetSteps returns a preparation's steps in order.
func (s *Store) GetSteps(ctx context.Context, preparationID uuid.UUID) ([]models.PreparationStep, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, preparation_id, step_number, description, picture_url, created_at
		FROM preparation_steps
		WHERE preparation_id = $1
		ORDER BY step_number ASC`, preparationID)
	if err != nil {
		return nil, fmt.Errorf("get steps: %w", err)
	}
	defer rows.Close()

	steps := []models.PreparationStep{}
	for rows.Next() {
		var st models.PreparationStep
		if err := rows.Scan(&st.ID, &st.PreparationID, &st.StepNumber, &st.Description, &st.PictureURL, &st.CreatedAt); err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

// CreatePreparation inserts a preparation and its steps in one transaction.
func (s *Store) CreatePreparation(ctx context.Context, form models.PreparationForm, pictureURL string, steps []storage.NewStep) (models.Preparation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Preparation{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO preparations (name, prep_type, shift, location, picture_url, steps)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+preparationColumns,
		form.Name, form.PrepType, form.Shift, form.Location, pictureURL, form.Steps)
	prep, err := scanPreparation(row)
	if err != nil {
		return models.Preparation{}, err
	}

	if err := insertSteps(ctx, tx, prep.ID, steps); err != nil {
		return models.Preparation{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Preparation{}, fmt.Errorf("commit: %w", err)
	}
	return prep, nil
}

// UpdatePreparation rewrites the preparation row and replaces its full step
// list inside a single transaction, so a failure mid-way never leaves the
// record with zero steps.
func (s *Store) UpdatePreparation(ctx context.Context, id uuid.UUID, form models.PreparationForm, pictureURL string, steps []storage.NewStep) (models.Preparation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Preparation{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE preparations
		SET name = $2, prep_type = $3, shift = $4, location = $5, picture_url = $6, steps = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+preparationColumns,
		id, form.Name, form.PrepType, form.Shift, form.Location, pictureURL, form.Steps)
	prep, err := scanPreparation(row)
	if err != nil {
		return models.Preparation{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM preparation_steps WHERE preparation_id = $1`, id); err != nil {
		return models.Preparation{}, fmt.Errorf("delete steps: %w", err)
	}
	if err := insertSteps(ctx, tx, id, steps); err != nil {
		return models.Preparation{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Preparation{}, fmt.Errorf("commit: %w", err)
	}
	return prep, nil
}

// SearchPreparations does a case-insensitive substring search over the text columns.
func (s *Store) SearchPreparations(ctx context.Context, term string) ([]models.Preparation, error) {
	pattern := "%" + term + "%"
	rows, err := s.pool.Query(ctx, `
		SELECT `+preparationColumns+`
		FROM preparations
		WHERE name ILIKE $1
		   OR prep_type ILIKE $1
		   OR shift ILIKE $1
		   OR location ILIKE $1
		   OR steps ILIKE $1
		ORDER BY name`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search preparations: %w", err)
	}
	defer rows.Close()
	return scanPreparations(rows)
}

func insertSteps(ctx context.Context, tx pgx.Tx, preparationID uuid.UUID, steps []storage.NewStep) error {
	for i, step := range steps {
		_, err := tx.Exec(ctx, `
			INSERT INTO preparation_steps (preparation_id, step_number, description, picture_url)
			VALUES ($1, $2, $3, $4)`,
			preparationID, int32(i+1), step.Description, step.PictureURL)
		if err != nil {
			return fmt.Errorf("insert step %d: %w", i+1, err)
		}
	}
	return nil
}

func scanPreparation(row pgx.Row) (models.Preparation, error) {
	var p models.Preparation
	err := row.Scan(&p.ID, &p.Name, &p.PrepType, &p.Shift, &p.Location, &p.PictureURL, &p.Steps, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Preparation{}, storage.ErrNotFound
		}
		return models.Preparation{}, err
	}
	return p, nil
}

func scanPreparations(rows pgx.Rows) ([]models.Preparation, error) {
	preparations := []models.Preparation{}
	for rows.Next() {
		var p models.Preparation
		if err := rows.Scan(&p.ID, &p.Name, &p.PrepType, &p.Shift, &p.Location, &p.PictureURL, &p.Steps, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		preparations = append(preparations, p)
	}
	return preparations, rows.Err()
}

// ---- users ----

const userColumns = `id, username, email, password_hash, is_active, created_at, updated_at`

// CreateUser inserts a new active user row.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		username, email, passwordHash)
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return user, nil
}

// FindByUsername fetches an active user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 AND is_active = TRUE`, username)
	return scanUser(row)
}

// FindByEmail fetches an active user by email.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND is_active = TRUE`, email)
	return scanUser(row)
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}
