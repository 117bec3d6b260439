package readstore

import (
	"context"

	"github.com/google/uuid"

	"obsidian/internal/infra"
	"obsidian/internal/infra/db"
	"obsidian/internal/pkg/pgconv"
	"obsidian/internal/usecase/queries"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(db db.DBTX) *UserReadStore {
	return &UserReadStore{db: db}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	q := `
		SELECT id, email, role, is_active, last_login, created_at
		FROM users
		WHERE id = $1`

	var view queries.AuthorizedUserView
	err := r.db.QueryRow(ctx, q, id).Scan(&view.ID, &view.Email, &view.Role, &view.IsActive, &view.LastLogin, &view.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &view, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	q := `
		SELECT id, email, role, is_active, last_login, created_at, password_hash
		FROM users
		WHERE email = lower($1)`

	var view queries.AuthorizedUserView
	var passwordHash string
	err := r.db.QueryRow(ctx, q, email).Scan(&view.ID, &view.Email, &view.Role, &view.IsActive, &view.LastLogin, &view.CreatedAt, &passwordHash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &view, passwordHash, nil
}
