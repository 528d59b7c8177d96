package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT username, name, email, role
FROM users
WHERE username = $1
`, username)

	var user domain.User
	var role string
	if err := row.Scan(&user.Username, &user.Name, &user.Email, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get user", fmt.Errorf("user %s", username))
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Role = domain.Role(role)
	return &user, nil
}
