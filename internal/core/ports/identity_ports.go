package ports

import "context"

// AnonymousIDKey names the slot holding the anonymous voter id.
const AnonymousIDKey = "anonymous_id"

// KeyValueStore is the persistent slot an anonymous voter keeps between
// visits, such as a browser cookie.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type IdentityService interface {
	ResolveAnonymousID(ctx context.Context, store KeyValueStore) (string, error)
}
