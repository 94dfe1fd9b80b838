package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Aguirre-Martin/paradise-point/models"
)

// PaymentService writes payments and mirrors their sum onto the owning
// reservation. The recompute runs inside the same transaction as the
// triggering write, so PaidAmount is never observably stale.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// PaymentInput carries the admin payment form.
type PaymentInput struct {
	Amount        int
	Concept       string
	Method        string
	Recipient     string
	ProofFileName string
	PaymentDate   time.Time
	Notes         string
}

func (in *PaymentInput) validate() error {
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !models.ValidPaymentConcept(in.Concept) {
		return fmt.Errorf("%w: payment concept %q", ErrInvalidEnum, in.Concept)
	}
	if !models.ValidPaymentMethod(in.Method) {
		return fmt.Errorf("%w: payment method %q", ErrInvalidEnum, in.Method)
	}
	if !models.ValidPaymentRecipient(in.Recipient) {
		return fmt.Errorf("%w: payment recipient %q", ErrInvalidEnum, in.Recipient)
	}
	if in.PaymentDate.IsZero() {
		in.PaymentDate = time.Now()
	}
	return nil
}

// CreatePayment records a payment against a reservation and updates the
// reservation's paid total. A payment that would push the total past
// TotalAmount is rejected and nothing is written.
func (s *PaymentService) CreatePayment(reservationID uint, in PaymentInput) (*models.Payment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ReservationID: reservationID,
		Amount:        in.Amount,
		Concept:       in.Concept,
		Method:        in.Method,
		Recipient:     in.Recipient,
		ProofFileName: in.ProofFileName,
		PaymentDate:   in.PaymentDate,
		Notes:         in.Notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := tx.First(&res, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return syncPaidAmount(tx, &res)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePayment rewrites a payment and resyncs the reservation total.
func (s *PaymentService) UpdatePayment(id uint, in PaymentInput) (*models.Payment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		payment.Amount = in.Amount
		payment.Concept = in.Concept
		payment.Method = in.Method
		payment.Recipient = in.Recipient
		payment.ProofFileName = in.ProofFileName
		payment.PaymentDate = in.PaymentDate
		payment.Notes = in.Notes
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}
		var res models.Reservation
		if err := tx.First(&res, payment.ReservationID).Error; err != nil {
			return err
		}
		return syncPaidAmount(tx, &res)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// DeletePayment removes a payment and resyncs the reservation total. The
// deleted row is returned so the caller can remove its proof file.
func (s *PaymentService) DeletePayment(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}
		var res models.Reservation
		if err := tx.First(&res, payment.ReservationID).Error; err != nil {
			return err
		}
		return syncPaidAmount(tx, &res)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// syncPaidAmount persists SUM(payments.amount) onto the reservation,
// enforcing paidAmount <= totalAmount.
func syncPaidAmount(tx *gorm.DB, res *models.Reservation) error {
	var total int
	err := tx.Model(&models.Payment{}).
		Where("reservation_id = ?", res.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}
	if total > res.TotalAmount {
		return ErrOverpaidAmount
	}
	return tx.Model(res).Update("paid_amount", total).Error
}
