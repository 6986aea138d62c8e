package configrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConfigStore implements ports.ConfigStore using GORM.
type GormConfigStore struct {
	db *gorm.DB
}

// NewGormConfigStore creates a new GORM-backed configuration store.
func NewGormConfigStore(db *gorm.DB) *GormConfigStore {
	return &GormConfigStore{db: db}
}

// StoreCredentials returns the storefront connection record.
// Returns an ObjectNotFoundError when the storefront was never configured.
func (s *GormConfigStore) StoreCredentials(ctx context.Context) (ports.StoreCredentials, error) {
	var dto StoreCredentialsDTO
	if err := s.db.WithContext(ctx).First(&dto, "id = ?", storeCredentialsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StoreCredentials{}, errs.NewObjectNotFoundError("store credentials", "singleton")
		}
		return ports.StoreCredentials{}, err
	}

	return storeToDomain(dto), nil
}

// SaveStoreCredentials upserts the singleton storefront record.
func (s *GormConfigStore) SaveStoreCredentials(ctx context.Context, creds ports.StoreCredentials) error {
	if creds.URL == "" {
		return errs.NewValueIsRequiredError("store url")
	}

	dto := StoreCredentialsDTO{
		ID:             storeCredentialsID,
		URL:            creds.URL,
		ConsumerKey:    creds.ConsumerKey,
		ConsumerSecret: creds.ConsumerSecret,
		IsConnected:    creds.IsConnected,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dto).Error
}

// CourierCredentials returns the connection record for one provider.
// Returns an ObjectNotFoundError when the provider was never configured.
func (s *GormConfigStore) CourierCredentials(
	ctx context.Context, provider courier.Provider,
) (ports.CourierCredentials, error) {
	if err := provider.Validate(); err != nil {
		return ports.CourierCredentials{}, err
	}

	var dto CourierCredentialsDTO
	if err := s.db.WithContext(ctx).First(&dto, "provider = ?", int(provider)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CourierCredentials{}, errs.NewObjectNotFoundError(
				"courier credentials", provider.String())
		}
		return ports.CourierCredentials{}, err
	}

	return courierToDomain(dto), nil
}

// SaveCourierCredentials upserts the connection record for one provider.
func (s *GormConfigStore) SaveCourierCredentials(ctx context.Context, creds ports.CourierCredentials) error {
	if err := creds.Provider.Validate(); err != nil {
		return err
	}
	if creds.Provider == courier.None {
		return errs.NewValueIsRequiredError("provider")
	}

	dto := CourierCredentialsDTO{
		Provider:  int(creds.Provider),
		Connected: creds.Connected,
		Fields:    creds.Fields,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dto).Error
}
