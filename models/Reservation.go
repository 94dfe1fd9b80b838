package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation statuses. "señado" means the deposit was received.
const (
	ReservationSenado    = "señado"
	ReservationPagado    = "pagado"
	ReservationCancelado = "cancelado"
)

// DefaultDeposit is the standard security deposit in ARS.
const DefaultDeposit = 60000

// Reservation is a stay booked by the admin for the house. CheckOut is an
// exclusive upper bound: the guest's last night is CheckOut minus one day.
// Client contact fields are snapshotted on the row; ClientID links the
// deduplicated Client record.
type Reservation struct {
	gorm.Model
	CheckIn       time.Time `json:"checkIn" gorm:"not null;index"`
	CheckOut      time.Time `json:"checkOut" gorm:"not null;index"`
	ClientID      *uint     `json:"clientID" gorm:"index"`
	ClientName    string    `json:"clientName" gorm:"not null"`
	ClientEmail   string    `json:"clientEmail" gorm:"not null;index"`
	ClientPhone   string    `json:"clientPhone" gorm:"not null"`
	ClientAddress string    `json:"clientAddress"`
	ClientCuit    string    `json:"clientCuit"`
	TotalAmount   int       `json:"totalAmount" gorm:"not null"`
	PaidAmount    int       `json:"paidAmount" gorm:"not null;default:0"`
	Deposit       int       `json:"deposit" gorm:"not null;default:60000"`
	Status        string    `json:"status" gorm:"not null;default:'señado';index"`
	Notes         string    `json:"notes"`

	Client   *Client   `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Payments []Payment `json:"payments,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func ValidReservationStatus(status string) bool {
	switch status {
	case ReservationSenado, ReservationPagado, ReservationCancelado:
		return true
	}
	return false
}
