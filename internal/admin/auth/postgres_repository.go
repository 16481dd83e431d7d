package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrAdminNotFound = errors.New("admin not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `SELECT id, email, name, password FROM admins WHERE email = $1`

	var admin Admin
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID, &admin.Email, &admin.Name, &admin.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query admin by email: %w", err)
	}
	return &admin, nil
}
