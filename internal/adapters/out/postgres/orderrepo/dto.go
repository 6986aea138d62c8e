// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The order row carries both halves of the aggregate: the storefront fields
// overwritten by reconciliation and the courier assignment columns owned by
// the courier lifecycle. The phone column is indexed because risk scoring
// aggregates parcel history per customer phone.
type OrderDTO struct {
	ID          string        `gorm:"primaryKey"`
	Date        time.Time     `gorm:"index"`
	Customer    CustomerDTO   `gorm:"embedded"`
	TotalAmount float64
	LineItems   []string      `gorm:"serializer:json"`
	Status      int           `gorm:"index"`
	Courier     AssignmentDTO `gorm:"embedded;embeddedPrefix:courier_"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// CustomerDTO represents the embedded recipient columns within the order table.
type CustomerDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;column:customer_id"`
	Name    string    `gorm:"column:customer_name"`
	Phone   string    `gorm:"column:customer_phone;index"`
	Address string    `gorm:"column:customer_address"`
	City    string    `gorm:"column:customer_city"`
}

// AssignmentDTO represents the embedded courier assignment columns within
// the order table. Provider and Status store the integer enum values.
type AssignmentDTO struct {
	Provider   int
	Status     int
	TrackingID string
	RiderName  string
	RiderPhone string
	RiderNote  string
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	cust := aggregate.Customer()
	assignment := aggregate.Courier()

	return OrderDTO{
		ID:   aggregate.ID(),
		Date: aggregate.Date(),
		Customer: CustomerDTO{
			ID:      cust.ID(),
			Name:    cust.Name(),
			Phone:   cust.Phone().String(),
			Address: cust.Address(),
			City:    cust.City(),
		},
		TotalAmount: aggregate.TotalAmount(),
		LineItems:   aggregate.LineItems(),
		Status:      int(aggregate.Status()),
		Courier: AssignmentDTO{
			Provider:   int(assignment.Provider()),
			Status:     int(assignment.Status()),
			TrackingID: assignment.TrackingID(),
			RiderName:  assignment.RiderName(),
			RiderPhone: assignment.RiderPhone(),
			RiderNote:  assignment.RiderNote(),
		},
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including the courier assignment using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	phone, err := kernel.NewPhone(dto.Customer.Phone)
	if err != nil {
		return nil, err
	}

	cust, err := customer.RestoreCustomer(
		dto.Customer.ID, dto.Customer.Name, phone, dto.Customer.Address, dto.Customer.City)
	if err != nil {
		return nil, err
	}

	assignment, err := courier.RestoreAssignment(
		courier.Provider(dto.Courier.Provider),
		dto.Courier.TrackingID,
		courier.Status(dto.Courier.Status),
		dto.Courier.RiderName,
		dto.Courier.RiderPhone,
		dto.Courier.RiderNote,
	)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		dto.ID, dto.Date, cust, dto.TotalAmount, dto.LineItems,
		order.Status(dto.Status), assignment,
	)
}
