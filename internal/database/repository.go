package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/khrees2412/hirepipe/pkg/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Repository runs the queries of both the client and the backend
type Repository struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewRepository wraps an open database
func NewRepository(db *sql.DB, driver string) *Repository {
	return &Repository{db: db, driver: driver, now: time.Now}
}

func (r *Repository) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return r.db.ExecContext(ctx, rebind(r.driver, query), args...)
}

func (r *Repository) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, rebind(r.driver, query), args...)
}

// Client state

// GetState reads one persisted client value
func (r *Repository) GetState(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.queryRow(ctx, `SELECT value FROM client_state WHERE name=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetState writes one persisted client value
func (r *Repository) SetState(ctx context.Context, key, value string) error {
	_, err := r.exec(ctx, `INSERT INTO client_state (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, r.now().UTC())
	return err
}

// DeleteState removes one persisted client value
func (r *Repository) DeleteState(ctx context.Context, key string) error {
	_, err := r.exec(ctx, `DELETE FROM client_state WHERE name=?`, key)
	return err
}

// User operations

// CreateUser stores a new account with its password hash
func (r *Repository) CreateUser(ctx context.Context, user models.User, passwordHash string) error {
	if _, _, err := r.GetUserByEmail(ctx, user.Email); err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicate, user.Email)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	_, err = r.exec(ctx, `INSERT INTO users (id, email, role, password_hash, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, string(user.Role), passwordHash, string(data), user.CreatedAt.UTC())
	return err
}

// GetUserByEmail returns the account and its password hash
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (models.User, string, error) {
	var user models.User
	var hash, data string
	err := r.queryRow(ctx, `SELECT password_hash, data FROM users WHERE email=?`, email).Scan(&hash, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return user, "", fmt.Errorf("%w: user %s", ErrNotFound, email)
	}
	if err != nil {
		return user, "", err
	}
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return user, "", err
	}
	return user, hash, nil
}

// UpdateUser rewrites the stored profile of an account
func (r *Repository) UpdateUser(ctx context.Context, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	res, err := r.exec(ctx, `UPDATE users SET data=?, role=? WHERE id=?`, string(data), string(user.Role), user.ID)
	if err != nil {
		return err
	}
	return expectRow(res, "user", user.ID)
}

// Job operations

func (r *Repository) SaveJob(ctx context.Context, job models.Job) error {
	return r.saveDoc(ctx, "jobs", job.ID, job.AdminID, job)
}

func (r *Repository) GetJob(ctx context.Context, id string) (models.Job, error) {
	return getDoc[models.Job](ctx, r, "jobs", id)
}

func (r *Repository) ListJobs(ctx context.Context) ([]models.Job, error) {
	return listDocs[models.Job](ctx, r, "jobs", "")
}

// Application operations

func (r *Repository) SaveApplication(ctx context.Context, app models.Application) error {
	return r.saveDoc(ctx, "applications", app.ID, app.StudentID, app)
}

func (r *Repository) GetApplication(ctx context.Context, id string) (models.Application, error) {
	return getDoc[models.Application](ctx, r, "applications", id)
}

// ListApplications returns the applications of one student, or all when studentID is empty
func (r *Repository) ListApplications(ctx context.Context, studentID string) ([]models.Application, error) {
	return listDocs[models.Application](ctx, r, "applications", studentID)
}

// Pipeline operations

func (r *Repository) SavePipeline(ctx context.Context, p models.ApplicationPipeline) error {
	return r.saveDoc(ctx, "pipelines", p.ID, p.StudentID, p)
}

func (r *Repository) GetPipeline(ctx context.Context, id string) (models.ApplicationPipeline, error) {
	return getDoc[models.ApplicationPipeline](ctx, r, "pipelines", id)
}

// ListPipelines returns the pipelines of one student, or all when studentID is empty
func (r *Repository) ListPipelines(ctx context.Context, studentID string) ([]models.ApplicationPipeline, error) {
	return listDocs[models.ApplicationPipeline](ctx, r, "pipelines", studentID)
}

// saveDoc inserts or replaces a JSON document, keeping its original creation time
func (r *Repository) saveDoc(ctx context.Context, table, id, owner string, v interface{}) error {
	if id == "" {
		return fmt.Errorf("cannot save %s without an id", table)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	now := r.now().UTC()
	query := fmt.Sprintf(`INSERT INTO %s (id, owner_id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET owner_id = excluded.owner_id, data = excluded.data, updated_at = excluded.updated_at`, table)
	_, err = r.exec(ctx, query, id, owner, string(data), now, now)
	return err
}

func getDoc[T any](ctx context.Context, r *Repository, table, id string) (T, error) {
	var v T
	var data string
	err := r.queryRow(ctx, fmt.Sprintf(`SELECT data FROM %s WHERE id=?`, table), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return v, fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
	}
	if err != nil {
		return v, err
	}
	err = json.Unmarshal([]byte(data), &v)
	return v, err
}

func listDocs[T any](ctx context.Context, r *Repository, table, owner string) ([]T, error) {
	query := fmt.Sprintf(`SELECT data FROM %s`, table)
	var args []interface{}
	if owner != "" {
		query += ` WHERE owner_id=?`
		args = append(args, owner)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, rebind(r.driver, query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return nil
}
