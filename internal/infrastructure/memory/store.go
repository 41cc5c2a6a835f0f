// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory (desarrollo local sin PostgreSQL) y en los tests.
package memory

import (
	"context"
	"sync"

	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Store guarda todas las entidades. mu protege los mapas; txMu serializa las transacciones.
// Dentro de una transacción cada escritura registra su inversa para poder deshacerla.
type Store struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	businesses map[string]entity.Business
	users      map[string]entity.User
	products   map[string]entity.Product
	events     []entity.ProductEvent
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		businesses: make(map[string]entity.Business),
		users:      make(map[string]entity.User),
		products:   make(map[string]entity.Product),
	}
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Events repositorio de eventos fuera de transacción.
func (s *Store) Events() *EventRepo { return &EventRepo{s: s} }

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Businesses repositorio de empresas fuera de transacción.
func (s *Store) Businesses() *BusinessRepo { return &BusinessRepo{s: s} }

// undoLog acumula las operaciones inversas de una transacción.
type undoLog struct {
	ops []func()
}

func (u *undoLog) record(op func()) {
	if u != nil {
		u.ops = append(u.ops, op)
	}
}

// rollback aplica las inversas en orden contrario. Debe llamarse con s.mu tomado.
func (u *undoLog) rollback() {
	for i := len(u.ops) - 1; i >= 0; i-- {
		u.ops[i]()
	}
}

// RunProduct ejecuta fn con repositorios de producto y eventos atados a la transacción.
func (s *Store) RunProduct(ctx context.Context, fn func(products repository.ProductRepository, events repository.ProductEventRepository) error) error {
	return s.run(ctx, func(log *undoLog) error {
		return fn(&ProductRepo{s: s, undo: log}, &EventRepo{s: s, undo: log})
	})
}

// RunAccount ejecuta fn con repositorios de empresa y usuarios atados a la transacción.
func (s *Store) RunAccount(ctx context.Context, fn func(businesses repository.BusinessRepository, users repository.UserRepository) error) error {
	return s.run(ctx, func(log *undoLog) error {
		return fn(&BusinessRepo{s: s, undo: log}, &UserRepo{s: s, undo: log})
	})
}

func (s *Store) run(ctx context.Context, fn func(log *undoLog) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &undoLog{}
	if err := fn(log); err != nil {
		s.mu.Lock()
		log.rollback()
		s.mu.Unlock()
		return err
	}
	return nil
}
