package memory

import (
	"strings"

	"github.com/jhoicas/inventario-osv/internal/domain/entity"
)

// UserRepository usuarios fijos (el administrador configurado por entorno).
type UserRepository struct {
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
}

// NewUserRepository indexa users por id y email (sin distinguir mayúsculas).
func NewUserRepository(users ...*entity.User) *UserRepository {
	r := &UserRepository{
		byID:    make(map[string]*entity.User, len(users)),
		byEmail: make(map[string]*entity.User, len(users)),
	}
	for _, u := range users {
		r.byID[u.ID] = u
		r.byEmail[strings.ToLower(u.Email)] = u
	}
	return r
}

func (r *UserRepository) FindByID(id string) (*entity.User, error) {
	return r.byID[id], nil
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	return r.byEmail[strings.ToLower(strings.TrimSpace(email))], nil
}
