package model

import "time"

// Credential provider kinds.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// Credential is an identity held by the identity provider, separate from the
// users collection. A credential existing without a matching User record is the
// known inconsistency window of the two-step sign-up.
type Credential struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"` // empty for federated credentials
	DisplayName  string    `gorm:"type:varchar(255)" json:"displayName,omitempty"`
	Provider     string    `gorm:"type:varchar(32);not null;default:password" json:"provider"`
	CreatedAt    time.Time `json:"createdAt"`
}
