package repository

import "github.com/jhoicas/inventario-osv/internal/domain/entity"

// UserRepository define el puerto de lectura de usuarios para auth.
// Devuelve (nil, nil) si el usuario no existe.
type UserRepository interface {
	FindByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
