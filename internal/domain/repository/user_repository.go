package repository

import "github.com/jhoicas/pos-ledger-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios del POS.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	// Count permite al bootstrap decidir si debe sembrar el usuario manager inicial.
	Count() (int, error)
}
