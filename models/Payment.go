package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment concepts.
const (
	ConceptDeposito    = "Depósito"
	ConceptAdelanto    = "Adelanto"
	ConceptPagoFinal   = "Pago Final"
	ConceptPagoParcial = "Pago Parcial"
)

// Payment methods.
const (
	MethodEfectivo      = "EFECTIVO"
	MethodTransferencia = "TRANSFERENCIA"
)

// Payment recipients: the two owners of the house.
const (
	RecipientMartin  = "Martin"
	RecipientJulieta = "Julieta"
)

// Payment is money received against a reservation. The sum of a
// reservation's payment amounts is mirrored onto Reservation.PaidAmount on
// every payment write.
type Payment struct {
	gorm.Model
	ReservationID uint      `json:"reservationID" gorm:"not null;index"`
	Amount        int       `json:"amount" gorm:"not null"`
	Concept       string    `json:"concept" gorm:"not null"`
	Method        string    `json:"method" gorm:"not null"`
	Recipient     string    `json:"recipient" gorm:"not null"`
	ProofFileName string    `json:"proofFileName"`
	PaymentDate   time.Time `json:"paymentDate" gorm:"not null"`
	Notes         string    `json:"notes"`

	Reservation *Reservation `json:"reservation,omitempty" gorm:"foreignKey:ReservationID"`
}

func ValidPaymentConcept(concept string) bool {
	switch concept {
	case ConceptDeposito, ConceptAdelanto, ConceptPagoFinal, ConceptPagoParcial:
		return true
	}
	return false
}

func ValidPaymentMethod(method string) bool {
	return method == MethodEfectivo || method == MethodTransferencia
}

func ValidPaymentRecipient(recipient string) bool {
	return recipient == RecipientMartin || recipient == RecipientJulieta
}
