package repository

import "context"

// TxRunner ejecuta callbacks dentro de una transacción, pasando repositorios atados a ella.
// Si fn devuelve error, nada de lo escrito en el callback queda persistido.
type TxRunner interface {
	RunProduct(ctx context.Context, fn func(products ProductRepository, events ProductEventRepository) error) error
	RunAccount(ctx context.Context, fn func(businesses BusinessRepository, users UserRepository) error) error
}
