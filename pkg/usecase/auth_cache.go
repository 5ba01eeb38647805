package usecase

import (
	"sync"
	"time"

	"github.com/standup-lab/jirabot/pkg/domain/types"
)

const authCacheTTL = 5 * time.Minute

type cachedAccess struct {
	userID    types.UserID
	expiresAt time.Time
}

// authCache remembers recently verified access tokens so the middleware
// does not pay signature verification on every request.
type authCache struct {
	cache sync.Map
}

func newAuthCache() *authCache {
	return &authCache{}
}

func (c *authCache) get(raw string) (types.UserID, bool) {
	val, ok := c.cache.Load(raw)
	if !ok {
		return "", false
	}

	cached := val.(*cachedAccess)
	if time.Now().After(cached.expiresAt) {
		c.cache.Delete(raw)
		return "", false
	}

	return cached.userID, true
}

// set caches the verification result until the cache TTL or the token's own
// expiry, whichever comes first.
func (c *authCache) set(raw string, userID types.UserID, tokenExpiry time.Time) {
	expiresAt := time.Now().Add(authCacheTTL)
	if tokenExpiry.Before(expiresAt) {
		expiresAt = tokenExpiry
	}
	c.cache.Store(raw, &cachedAccess{userID: userID, expiresAt: expiresAt})
}
