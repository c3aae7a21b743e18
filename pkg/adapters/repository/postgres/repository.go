package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-bio/pkg/ports"
)

// PostgresRepository stores each owner's links as one JSONB document,
// same consistency unit as the sqlite adapter.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	// Conservative pool settings, works for serverless too
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &PostgresRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT UNIQUE,
		image TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS link_collections (
		owner_id TEXT PRIMARY KEY REFERENCES users(id),
		links JSONB NOT NULL DEFAULT '[]',
		version BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	_, err := db.Exec(query)
	return err
}

// --- Users ---

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, name, image, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, nullable(user.Name), user.Image, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT id, email, name, image, created_at, updated_at FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT id, email, name, image, created_at, updated_at FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT id, email, name, image, created_at, updated_at FROM users WHERE name = $1`, name)
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	var name, image sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &name, &image, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.Name = name.String
	user.Image = image.String
	return &user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name = $1, image = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, nullable(user.Name), user.Image, user.UpdatedAt, user.ID)
	// Two clients can claim the same username at once; the loser hits
	// the UNIQUE index on users.name here.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrUsernameTaken
	}
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// --- Link collections ---

func (r *PostgresRepository) LoadCollection(ctx context.Context, ownerID string) (domain.LinkCollection, error) {
	collection := domain.LinkCollection{OwnerID: ownerID}

	var linksJSON []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT links, version FROM link_collections WHERE owner_id = $1`, ownerID,
	).Scan(&linksJSON, &collection.Version)
	if err == sql.ErrNoRows {
		return collection, nil
	}
	if err != nil {
		return collection, err
	}

	if err := json.Unmarshal(linksJSON, &collection.Links); err != nil {
		return collection, err
	}
	return collection, nil
}

func (r *PostgresRepository) ReplaceCollection(ctx context.Context, collection domain.LinkCollection) error {
	links := collection.Links
	if links == nil {
		links = []domain.Link{}
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO link_collections (owner_id, links, version, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (owner_id)
		DO UPDATE SET
			links = EXCLUDED.links,
			version = EXCLUDED.version,
			updated_at = NOW()
		WHERE link_collections.version = $4`

	res, err := r.db.ExecContext(ctx, query,
		collection.OwnerID, linksJSON, collection.Version+1, collection.Version)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrVersionConflict
	}
	return nil
}

func (r *PostgresRepository) Dump(ctx context.Context) ([]domain.LinkCollection, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT owner_id, links, version FROM link_collections`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []domain.LinkCollection
	for rows.Next() {
		var c domain.LinkCollection
		var linksJSON []byte
		if err := rows.Scan(&c.OwnerID, &linksJSON, &c.Version); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(linksJSON, &c.Links); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ensure interface compliance
var _ ports.Repository = (*PostgresRepository)(nil)
