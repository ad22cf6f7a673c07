package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre la tabla app_users.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Devuelve domain.ErrDuplicate si el email ya existe.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO app_users (id, email, password_hash, name, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		user.ID, strings.ToLower(user.Email), user.PasswordHash, user.Name, user.Role, user.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("usuario %s: %w", user.Email, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID obtiene un usuario por ID.
func (r *UserRepo) FindByID(id string) (*entity.User, error) {
	return r.findOne(context.Background(), `WHERE id = $1`, id)
}

// FindByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.findOne(context.Background(), `WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg string) (*entity.User, error) {
	query := `SELECT id, email, password_hash, name, role, status FROM app_users ` + where + ` LIMIT 1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
