// Package configrepo persists connection settings for the storefront and the
// courier networks. Credentials are written by the settings surface and read
// by the adapter layer on each call, so rotating a key needs no restart.
package configrepo

import (
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/ports"
)

// storeCredentialsID is the primary key of the single storefront record.
const storeCredentialsID = 1

// StoreCredentialsDTO is the singleton storefront connection row.
type StoreCredentialsDTO struct {
	ID             int `gorm:"primaryKey"`
	URL            string
	ConsumerKey    string
	ConsumerSecret string
	IsConnected    bool
}

// TableName overrides GORM's default naming to "store_credentials".
func (StoreCredentialsDTO) TableName() string {
	return "store_credentials"
}

// CourierCredentialsDTO is one courier network's connection row, keyed by
// the provider enum value. Provider-specific fields (client id, secret,
// api key) live in a JSON column since every network wants a different set.
type CourierCredentialsDTO struct {
	Provider  int               `gorm:"primaryKey"`
	Connected bool
	Fields    map[string]string `gorm:"serializer:json"`
}

// TableName overrides GORM's default naming to "courier_credentials".
func (CourierCredentialsDTO) TableName() string {
	return "courier_credentials"
}

func storeToDomain(dto StoreCredentialsDTO) ports.StoreCredentials {
	return ports.StoreCredentials{
		URL:            dto.URL,
		ConsumerKey:    dto.ConsumerKey,
		ConsumerSecret: dto.ConsumerSecret,
		IsConnected:    dto.IsConnected,
	}
}

func courierToDomain(dto CourierCredentialsDTO) ports.CourierCredentials {
	return ports.CourierCredentials{
		Provider:  courier.Provider(dto.Provider),
		Connected: dto.Connected,
		Fields:    dto.Fields,
	}
}
