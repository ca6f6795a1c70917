// Package memory implementa los repositorios sobre mapas en memoria. Las transacciones se
// serializan con un mutex y trabajan sobre una copia del estado que solo se publica en el commit,
// así un error dentro de fn deja el store intacto.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/application/usecase"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

var (
	_ inventory.TxRunner      = (*Store)(nil)
	_ usecase.AccountTxRunner = (*Store)(nil)
)

type state struct {
	users      map[string]entity.User
	stocks     map[string]entity.Stock
	products   map[string]entity.Product
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
}

func newState() *state {
	return &state{
		users:      make(map[string]entity.User),
		stocks:     make(map[string]entity.Stock),
		products:   make(map[string]entity.Product),
		categories: make(map[string]entity.Category),
		suppliers:  make(map[string]entity.Supplier),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	return c
}

// scope da acceso al estado: con lock propio (fuera de tx) o el de la tx en curso.
type scope interface {
	read(fn func(*state) error) error
	write(fn func(*state) error) error
}

// Store almacén en memoria. Seguro para uso concurrente.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) write(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.st = work
	return nil
}

type txScope struct {
	st *state
}

func (t txScope) read(fn func(*state) error) error  { return fn(t.st) }
func (t txScope) write(fn func(*state) error) error { return fn(t.st) }

// runTx serializa la transacción completa y publica el estado solo si fn no falla.
func (s *Store) runTx(ctx context.Context, fn func(txScope) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(txScope{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(stockRepo repository.StockRepository, productRepo repository.ProductRepository) error) error {
	return s.runTx(ctx, func(tx txScope) error {
		return fn(&StockRepository{sc: tx}, &ProductRepository{sc: tx})
	})
}

// RunAccounts implementa usecase.AccountTxRunner.
func (s *Store) RunAccounts(ctx context.Context, fn func(users repository.UserRepository) error) error {
	return s.runTx(ctx, func(tx txScope) error {
		return fn(&UserRepository{sc: tx})
	})
}

// Users repositorio de cuentas fuera de transacción.
func (s *Store) Users() *UserRepository { return &UserRepository{sc: s} }

// Stocks repositorio de stock fuera de transacción.
func (s *Store) Stocks() *StockRepository { return &StockRepository{sc: s} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepository { return &ProductRepository{sc: s} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{sc: s} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepository { return &SupplierRepository{sc: s} }
