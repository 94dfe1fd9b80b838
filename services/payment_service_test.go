package services

import (
	"errors"
	"testing"
	"time"

	"github.com/Aguirre-Martin/paradise-point/models"
)

func paymentInput(amount int) PaymentInput {
	return PaymentInput{
		Amount:      amount,
		Concept:     models.ConceptAdelanto,
		Method:      models.MethodTransferencia,
		Recipient:   models.RecipientMartin,
		PaymentDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func reservationPaid(t *testing.T, svc *PaymentService, id uint) int {
	t.Helper()
	var res models.Reservation
	if err := svc.db.First(&res, id).Error; err != nil {
		t.Fatalf("loading reservation: %v", err)
	}
	return res.PaidAmount
}

func TestCreatePayment_SyncsPaidAmount(t *testing.T) {
	db := newTestDB(t)
	res, err := NewCalendarService(db).CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	svc := NewPaymentService(db)

	first, err := svc.CreatePayment(res.ID, paymentInput(200000))
	if err != nil {
		t.Fatalf("first CreatePayment: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("payment not persisted")
	}
	if got := reservationPaid(t, svc, res.ID); got != 200000 {
		t.Fatalf("paidAmount = %d, want 200000", got)
	}

	deposit := paymentInput(150000)
	deposit.Concept = models.ConceptDeposito
	deposit.Method = models.MethodEfectivo
	deposit.Recipient = models.RecipientJulieta
	if _, err := svc.CreatePayment(res.ID, deposit); err != nil {
		t.Fatalf("second CreatePayment: %v", err)
	}
	if got := reservationPaid(t, svc, res.ID); got != 350000 {
		t.Fatalf("paidAmount = %d, want 350000", got)
	}
}

func TestCreatePayment_RejectsOverpaid(t *testing.T) {
	db := newTestDB(t)
	res, err := NewCalendarService(db).CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	svc := NewPaymentService(db)

	if _, err := svc.CreatePayment(res.ID, paymentInput(400000)); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	// 400000 + 300000 > 650000: rejected, and the rejected write leaves no trace.
	if _, err := svc.CreatePayment(res.ID, paymentInput(300000)); !errors.Is(err, ErrOverpaidAmount) {
		t.Fatalf("expected ErrOverpaidAmount, got %v", err)
	}
	var count int64
	if err := db.Model(&models.Payment{}).Where("reservation_id = ?", res.ID).Count(&count).Error; err != nil {
		t.Fatalf("counting payments: %v", err)
	}
	if count != 1 {
		t.Fatalf("rolled-back payment persisted, count = %d", count)
	}
	if got := reservationPaid(t, svc, res.ID); got != 400000 {
		t.Fatalf("paidAmount = %d, want 400000", got)
	}
}

func TestCreatePayment_Validation(t *testing.T) {
	db := newTestDB(t)
	res, err := NewCalendarService(db).CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	svc := NewPaymentService(db)

	zero := paymentInput(0)
	if _, err := svc.CreatePayment(res.ID, zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	badMethod := paymentInput(1000)
	badMethod.Method = "CHEQUE"
	if _, err := svc.CreatePayment(res.ID, badMethod); !errors.Is(err, ErrInvalidEnum) {
		t.Fatalf("expected ErrInvalidEnum, got %v", err)
	}

	badRecipient := paymentInput(1000)
	badRecipient.Recipient = "Pedro"
	if _, err := svc.CreatePayment(res.ID, badRecipient); !errors.Is(err, ErrInvalidEnum) {
		t.Fatalf("expected ErrInvalidEnum, got %v", err)
	}
}

func TestCreatePayment_UnknownReservation(t *testing.T) {
	svc := NewPaymentService(newTestDB(t))
	if _, err := svc.CreatePayment(999, paymentInput(1000)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePayment_Resyncs(t *testing.T) {
	db := newTestDB(t)
	res, err := NewCalendarService(db).CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	svc := NewPaymentService(db)

	payment, err := svc.CreatePayment(res.ID, paymentInput(200000))
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	lowered := paymentInput(120000)
	if _, err := svc.UpdatePayment(payment.ID, lowered); err != nil {
		t.Fatalf("UpdatePayment: %v", err)
	}
	if got := reservationPaid(t, svc, res.ID); got != 120000 {
		t.Fatalf("paidAmount = %d, want 120000", got)
	}

	// Raising the amount past the total is rejected and rolled back.
	raised := paymentInput(700000)
	if _, err := svc.UpdatePayment(payment.ID, raised); !errors.Is(err, ErrOverpaidAmount) {
		t.Fatalf("expected ErrOverpaidAmount, got %v", err)
	}
	if got := reservationPaid(t, svc, res.ID); got != 120000 {
		t.Fatalf("paidAmount changed by rejected update: %d", got)
	}
	var reloaded models.Payment
	if err := db.First(&reloaded, payment.ID).Error; err != nil {
		t.Fatalf("reloading payment: %v", err)
	}
	if reloaded.Amount != 120000 {
		t.Fatalf("payment amount = %d after rollback, want 120000", reloaded.Amount)
	}
}

func TestUpdatePayment_NotFound(t *testing.T) {
	svc := NewPaymentService(newTestDB(t))
	if _, err := svc.UpdatePayment(999, paymentInput(1000)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePayment_Resyncs(t *testing.T) {
	db := newTestDB(t)
	res, err := NewCalendarService(db).CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	svc := NewPaymentService(db)

	keepMe, err := svc.CreatePayment(res.ID, paymentInput(100000))
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	deleteMe, err := svc.CreatePayment(res.ID, paymentInput(250000))
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	deleted, err := svc.DeletePayment(deleteMe.ID)
	if err != nil {
		t.Fatalf("DeletePayment: %v", err)
	}
	if deleted.ID != deleteMe.ID {
		t.Fatalf("returned payment %d, want %d", deleted.ID, deleteMe.ID)
	}
	if got := reservationPaid(t, svc, res.ID); got != 100000 {
		t.Fatalf("paidAmount = %d after delete, want 100000", got)
	}

	var remaining []models.Payment
	if err := db.Where("reservation_id = ?", res.ID).Find(&remaining).Error; err != nil {
		t.Fatalf("listing payments: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != keepMe.ID {
		t.Fatalf("unexpected surviving payments: %+v", remaining)
	}
}

func TestDeletePayment_NotFound(t *testing.T) {
	svc := NewPaymentService(newTestDB(t))
	if _, err := svc.DeletePayment(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
