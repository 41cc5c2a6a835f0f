package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.BusinessRepository = (*BusinessRepo)(nil)
)

// UserRepo implementación en memoria de UserRepository. El email es único sin distinguir mayúsculas.
type UserRepo struct {
	s    *Store
	undo *undoLog
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(user.Email, "") {
		return domain.ErrEmailAlreadyExists
	}
	r.s.users[user.ID] = *user
	id := user.ID
	r.undo.record(func() { delete(r.s.users, id) })
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

// Update actualiza un usuario existente.
func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return domain.ErrEmailAlreadyExists
	}
	r.s.users[user.ID] = *user
	r.undo.record(func() { r.s.users[prev.ID] = prev })
	return nil
}

// ListByBusiness lista usuarios de una empresa, más recientes primero.
func (r *UserRepo) ListByBusiness(_ context.Context, businessID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	list := make([]*entity.User, 0)
	for _, u := range r.s.users {
		if u.BusinessID == businessID {
			cp := u
			list = append(list, &cp)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Email < list[j].Email
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return paginate(list, limit, offset), nil
}

// CountByBusiness cuenta los usuarios de una empresa.
func (r *UserRepo) CountByBusiness(_ context.Context, businessID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, u := range r.s.users {
		if u.BusinessID == businessID {
			n++
		}
	}
	return n, nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	// Igual que la FK products.owner_id ON DELETE RESTRICT.
	for _, p := range r.s.products {
		if p.OwnerID == id {
			return fmt.Errorf("%w: el usuario todavía es dueño de productos", domain.ErrConflict)
		}
	}
	delete(r.s.users, id)
	r.undo.record(func() { r.s.users[prev.ID] = prev })
	return nil
}

// emailTaken requiere s.mu tomado.
func (r *UserRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.s.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// BusinessRepo implementación en memoria de BusinessRepository.
type BusinessRepo struct {
	s    *Store
	undo *undoLog
}

// Create persiste una nueva empresa.
func (r *BusinessRepo) Create(_ context.Context, business *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[business.ID]; ok {
		return domain.ErrConflict
	}
	r.s.businesses[business.ID] = *business
	id := business.ID
	r.undo.record(func() { delete(r.s.businesses, id) })
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *BusinessRepo) GetByID(_ context.Context, id string) (*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// GetByName obtiene una empresa por nombre exacto.
func (r *BusinessRepo) GetByName(_ context.Context, name string) (*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.businesses {
		if b.Name == name {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}
