package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msomdec/usercrud/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new Postgres-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

func scanUser(row pgx.CollectableRow) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Age, &u.Salary)
	return u, err
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, age, salary FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("collect users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, age, salary FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query user by name: %w", err)
	}
	return exists, nil
}

// Save inserts the user when it has no id yet and updates it otherwise.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		err := r.pool.QueryRow(ctx,
			`INSERT INTO users (name, age, salary) VALUES ($1, $2, $3) RETURNING id`,
			user.Name, user.Age, user.Salary,
		).Scan(&user.ID)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $1, age = $2, salary = $3 WHERE id = $4`,
		user.Name, user.Age, user.Salary, user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("delete all users: %w", err)
	}
	return nil
}
