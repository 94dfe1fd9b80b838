package models

import "gorm.io/gorm"

// Client is deduplicated by email. Contact details are overwritten with the
// values of the latest reservation that mentions the email (last write wins,
// no history).
type Client struct {
	gorm.Model
	Email   string `json:"email" gorm:"uniqueIndex;not null"`
	Name    string `json:"name" gorm:"not null"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Cuit    string `json:"cuit"`

	Reservations []Reservation `json:"reservations,omitempty" gorm:"foreignKey:ClientID"`
}
