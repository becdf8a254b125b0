package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type KeyStatus string
type KeyVersion string

const (
	KeyStatusActive   KeyStatus = "active"
	KeyStatusInactive KeyStatus = "inactive"
	KeyStatusRevoked  KeyStatus = "revoked"

	// KeyVersionV1 authenticates the customer gateway, KeyVersionV2 the
	// admin gateway. A key is bound to exactly one family.
	KeyVersionV1 KeyVersion = "v1"
	KeyVersionV2 KeyVersion = "v2"
)

// PermissionSet maps domain -> action -> granted. Every permission is an
// independent leaf flag; there are no wildcards and no inheritance.
type PermissionSet map[string]map[string]bool

// permissionCatalog is the authoritative list of grantable (domain, action)
// pairs. Grants outside the catalog are rejected at key creation.
var permissionCatalog = map[string][]string{
	"balance":    {"get"},
	"products":   {"get_list", "get"},
	"categories": {"get_list"},
	"orders":     {"get_list", "get", "create", "cancel", "complete"},
	"payments":   {"get_list", "approve", "reject"},
	"users":      {"get_list", "get"},
	"tickets":    {"get_list", "get", "close"},
	"webhooks":   {"get_list", "create"},
}

// Allows reports whether the set explicitly grants (domain, action).
// Missing domain, missing action or a false value is a denial.
func (p PermissionSet) Allows(domain, action string) bool {
	actions, ok := p[domain]
	if !ok {
		return false
	}
	return actions[action]
}

// Validate rejects grants that reference unknown domains or actions so a
// malformed permission object fails at creation time instead of silently
// denying every request.
func (p PermissionSet) Validate() error {
	for domain, actions := range p {
		known, ok := permissionCatalog[domain]
		if !ok {
			return fmt.Errorf("unknown permission domain: %s", domain)
		}
		for action := range actions {
			if !containsAction(known, action) {
				return fmt.Errorf("unknown action %q for domain %q", action, domain)
			}
		}
	}
	return nil
}

// KnownPermission reports whether (domain, action) exists in the catalog.
// The admin command table is checked against it at construction so every
// registered action has a grantable permission flag.
func KnownPermission(domain, action string) bool {
	actions, ok := permissionCatalog[domain]
	if !ok {
		return false
	}
	return containsAction(actions, action)
}

func containsAction(actions []string, action string) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

func (p PermissionSet) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PermissionSet) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for PermissionSet scan")
	}

	return json.Unmarshal(data, p)
}

type APIKey struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	Token       string        `json:"-" gorm:"uniqueIndex;not null"`
	OwnerID     string        `json:"owner_id" gorm:"not null;index"`
	Name        string        `json:"name"`
	Status      KeyStatus     `json:"status" gorm:"not null;default:'active'"`
	Version     KeyVersion    `json:"version" gorm:"not null;default:'v1'"`
	Permissions PermissionSet `json:"permissions" gorm:"type:jsonb"`

	// Zero values fall back to the gateway-wide rate-limit defaults.
	RateLimitPerMinute int `json:"rate_limit_per_minute" gorm:"default:0"`
	RateLimitPerHour   int `json:"rate_limit_per_hour" gorm:"default:0"`
	RateLimitPerDay    int `json:"rate_limit_per_day" gorm:"default:0"`

	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

func (k *APIKey) IsActive() bool {
	return k.Status == KeyStatusActive
}
