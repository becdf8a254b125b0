package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"gorm.io/gorm"
)

// maxTokenLength caps how much attacker-controlled input reaches the store
// lookup.
const maxTokenLength = 128

type Authenticator struct {
	keys *stores.APIKeyStore
	log  *utils.Logger
}

func CreateAuthenticator(keys *stores.APIKeyStore) *Authenticator {
	return &Authenticator{
		keys: keys,
		log:  utils.NewLogger("authenticator"),
	}
}

// Authenticate resolves a raw token against the key store and checks that
// the key is active and belongs to the gateway family being called. On
// success the last-used timestamp is touched asynchronously; a failed touch
// never fails the request.
func (a *Authenticator) Authenticate(ctx context.Context, token string, family models.KeyVersion) (*models.APIKey, error) {
	if token == "" {
		return nil, utils.ErrMissingCredential
	}
	if len(token) > maxTokenLength {
		return nil, utils.ErrInvalidCredential
	}

	key, err := a.keys.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrInvalidCredential
		}
		a.log.Error(ctx, "api key lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, utils.ErrInternal
	}

	if subtle.ConstantTimeCompare([]byte(key.Token), []byte(token)) != 1 {
		return nil, utils.ErrInvalidCredential
	}

	if !key.IsActive() {
		return nil, utils.ErrInactiveCredential
	}
	if key.Version != family {
		return nil, utils.ErrInactiveCredential
	}

	go a.touchLastUsed(key.ID)

	return key, nil
}

func (a *Authenticator) touchLastUsed(keyID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.keys.TouchLastUsed(ctx, keyID); err != nil {
		a.log.Warn(ctx, "failed to touch last_used_at", map[string]interface{}{
			"api_key_id": keyID,
			"error":      err.Error(),
		})
	}
}
