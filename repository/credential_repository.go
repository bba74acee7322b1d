package repository

import (
	"context"
	"errors"
	"fmt"

	"spoty/model"

	"gorm.io/gorm"
)

// ErrDuplicateCredential is returned when an email is already registered.
var ErrDuplicateCredential = errors.New("credential already exists for email")

// CredentialRepository defines the interface for the identity provider's own
// credential records. These live apart from the users collection: a credential
// can exist without a user record (the sign-up inconsistency window).
type CredentialRepository interface {
	GetByID(ctx context.Context, id string) (*model.Credential, error)
	GetByEmail(ctx context.Context, email string) (*model.Credential, error)
	Create(ctx context.Context, cred *model.Credential) error
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// gormCredentialRepository implements CredentialRepository with GORM.
type gormCredentialRepository struct {
	db *gorm.DB
}

// NewGormCredentialRepository creates a new gormCredentialRepository.
func NewGormCredentialRepository(db *gorm.DB) CredentialRepository {
	return &gormCredentialRepository{db: db}
}

// GetByID retrieves a credential by id. A missing record is (nil, nil).
func (r *gormCredentialRepository) GetByID(ctx context.Context, id string) (*model.Credential, error) {
	cred := &model.Credential{}
	err := r.db.WithContext(ctx).First(cred, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch credential %s: %w", id, err)
	}
	return cred, nil
}

// GetByEmail retrieves a credential by email. A missing record is (nil, nil).
func (r *gormCredentialRepository) GetByEmail(ctx context.Context, email string) (*model.Credential, error) {
	cred := &model.Credential{}
	err := r.db.WithContext(ctx).First(cred, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch credential for email %s: %w", email, err)
	}
	return cred, nil
}

// Create inserts a new credential.
func (r *gormCredentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	if err := r.db.WithContext(ctx).Create(cred).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCredential
		}
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

// UpdateDisplayName sets the display name on the provider's record.
func (r *gormCredentialRepository) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	err := r.db.WithContext(ctx).Model(&model.Credential{}).Where("id = ?", id).
		Update("display_name", displayName).Error
	if err != nil {
		return fmt.Errorf("failed to update credential display name: %w", err)
	}
	return nil
}
