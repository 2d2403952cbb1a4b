package rebalance

import "context"

// Requester identidad de quien pide el rateo; vacía cuando la API corre sin autenticación.
type Requester struct {
	UserID string
	Role   string
	Buyer  string
}

type requesterKey struct{}

// WithRequester guarda la identidad en el contexto de la petición.
func WithRequester(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, r)
}

// RequesterFrom devuelve la identidad del contexto (cero si no hay).
func RequesterFrom(ctx context.Context) Requester {
	r, _ := ctx.Value(requesterKey{}).(Requester)
	return r
}
