package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-bio/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT UNIQUE,
		image TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	CREATE INDEX IF NOT EXISTS idx_users_name ON users(name);

	CREATE TABLE IF NOT EXISTS link_collections (
		owner_id TEXT PRIMARY KEY,
		links JSON NOT NULL DEFAULT '[]',
		version INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(owner_id) REFERENCES users(id)
	);
	`
	_, err := db.Exec(query)
	return err
}

// --- Users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, name, image, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, nullable(user.Name), user.Image, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT id, email, name, image, created_at, updated_at FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT id, email, name, image, created_at, updated_at FROM users WHERE email = ?`, email)
}

func (r *SQLiteRepository) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT id, email, name, image, created_at, updated_at FROM users WHERE name = ?`, name)
}

func (r *SQLiteRepository) getUser(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
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

func (r *SQLiteRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name = ?, image = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, nullable(user.Name), user.Image, user.UpdatedAt, user.ID)
	// Two clients can claim the same username at once; the loser hits
	// the UNIQUE index on users.name here. Neither driver exports a
	// typed constraint error, so match on the message.
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.name") {
		return domain.ErrUsernameTaken
	}
	return err
}

// nullable keeps unset usernames out of the UNIQUE index. '' would
// collide between users that haven't claimed a name yet.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// --- Link collections (one document per owner) ---

func (r *SQLiteRepository) LoadCollection(ctx context.Context, ownerID string) (domain.LinkCollection, error) {
	collection := domain.LinkCollection{OwnerID: ownerID}

	var linksJSON []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT links, version FROM link_collections WHERE owner_id = ?`, ownerID,
	).Scan(&linksJSON, &collection.Version)
	if err == sql.ErrNoRows {
		// No row yet: the owner simply has an empty list.
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

// ReplaceCollection overwrites the whole document, but only if the
// stored version still matches the version read at load time. A lost
// race surfaces as ports.ErrVersionConflict instead of a silent
// lost update.
func (r *SQLiteRepository) ReplaceCollection(ctx context.Context, collection domain.LinkCollection) error {
	links := collection.Links
	if links == nil {
		links = []domain.Link{} // store '[]', not 'null'
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return err
	}

	query := `INSERT INTO link_collections (owner_id, links, version, updated_at)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(owner_id) DO UPDATE SET
				links = excluded.links,
				version = excluded.version,
				updated_at = excluded.updated_at
			  WHERE link_collections.version = ?`

	res, err := r.db.ExecContext(ctx, query,
		collection.OwnerID, linksJSON, collection.Version+1, time.Now(), collection.Version)
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

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.LinkCollection, error) {
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

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ensure interface compliance
var _ ports.Repository = (*SQLiteRepository)(nil)
