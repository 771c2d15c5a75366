package identity

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
	"github.com/gridstone-erp/gridstone-erp/internal/platform/db"
)

// Repository provides PostgreSQL backed principal loading.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Principal loads role names and effective permission slugs for a
// user and builds the normalized principal. Both reads run inside one
// repeatable-read transaction so the roles and grants form a single
// snapshot. A user with no grants yields an empty principal, not an
// error; the engines treat that as the zero-permission case.
func (r *Repository) Principal(ctx context.Context, userID int64) (authz.Principal, error) {
	var roles, granted []string
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		if roles, err = roleNames(ctx, tx, userID); err != nil {
			return err
		}
		granted, err = effectivePermissions(ctx, tx, userID)
		return err
	})
	if err != nil {
		return authz.Principal{}, err
	}
	return authz.NewPrincipal(userID, roles, granted), nil
}

func roleNames(ctx context.Context, tx pgx.Tx, userID int64) ([]string, error) {
	rows, err := tx.Query(ctx, `
		SELECT r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

func effectivePermissions(ctx context.Context, tx pgx.Tx, userID int64) ([]string, error) {
	rows, err := tx.Query(ctx, `
		SELECT DISTINCT p.slug
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1
		ORDER BY p.slug`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slugs, nil
}
