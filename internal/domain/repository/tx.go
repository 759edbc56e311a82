package repository

import "context"

// TxManager runs a function inside a single database transaction. The
// transaction travels in the context; repository calls made with that
// context join it. Every multi-step mutation in the billing core (item add
// plus cost recompute, receipt creation plus treatment update, payment
// application plus treatment mirror) runs through this.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
