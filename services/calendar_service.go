package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aguirre-Martin/paradise-point/models"
	"github.com/Aguirre-Martin/paradise-point/pricing"
)

// releaseRetries bounds the best-effort release-phase retries. A day left
// reserved after all retries is healed by the next recompute sweep.
const releaseRetries = 3

// CalendarService reconciles the Day ledger with the reservation table.
// The ledger is a cached projection: RecomputeDay can always rebuild a cell
// from the reservations, so release-phase failures are logged and retried
// rather than failing the parent mutation.
type CalendarService struct {
	db *gorm.DB
}

func NewCalendarService(db *gorm.DB) *CalendarService {
	return &CalendarService{db: db}
}

// ReservationInput carries the admin booking form.
type ReservationInput struct {
	CheckIn       time.Time
	CheckOut      time.Time
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	ClientAddress string
	ClientCuit    string
	TotalAmount   int
	PaidAmount    int
	Deposit       int
	Status        string
	Notes         string
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayTime(date string) (time.Time, error) {
	return pricing.ParseDate(date)
}

// DatesInRange lists every ISO date in [checkIn, checkOut). CheckOut is the
// departure day and is never reserved.
func DatesInRange(checkIn, checkOut time.Time) []string {
	var dates []string
	for d := dateOnly(checkIn); d.Before(dateOnly(checkOut)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(pricing.ISODate))
	}
	return dates
}

func (in *ReservationInput) normalize() error {
	in.CheckIn = dateOnly(in.CheckIn)
	in.CheckOut = dateOnly(in.CheckOut)
	if !in.CheckOut.After(in.CheckIn) {
		return ErrInvalidDateRange
	}
	if in.Status == "" {
		in.Status = models.ReservationSenado
	}
	if !models.ValidReservationStatus(in.Status) {
		return fmt.Errorf("%w: reservation status %q", ErrInvalidEnum, in.Status)
	}
	if in.PaidAmount > in.TotalAmount {
		return ErrOverpaidAmount
	}
	if in.Deposit == 0 {
		in.Deposit = models.DefaultDeposit
	}
	in.ClientEmail = strings.ToLower(in.ClientEmail)
	return nil
}

// CreateReservation validates the input and, in one transaction, upserts the
// client, creates the reservation and marks every stay date reserved. A
// partial failure leaves nothing behind.
func (s *CalendarService) CreateReservation(in ReservationInput) (*models.Reservation, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	res := &models.Reservation{
		CheckIn:       in.CheckIn,
		CheckOut:      in.CheckOut,
		ClientName:    in.ClientName,
		ClientEmail:   in.ClientEmail,
		ClientPhone:   in.ClientPhone,
		ClientAddress: in.ClientAddress,
		ClientCuit:    in.ClientCuit,
		TotalAmount:   in.TotalAmount,
		PaidAmount:    in.PaidAmount,
		Deposit:       in.Deposit,
		Status:        in.Status,
		Notes:         in.Notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		client, err := upsertClient(tx, in)
		if err != nil {
			return err
		}
		res.ClientID = &client.ID
		if err := tx.Create(res).Error; err != nil {
			return err
		}
		if res.Status != models.ReservationCancelado {
			return reserveDays(tx, DatesInRange(res.CheckIn, res.CheckOut))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateReservation moves a reservation to the new input. Days in the old
// range but not the new one are released first (best effort, outside the
// transaction: they belong to this reservation's past, other reservations
// keep them alive); then client, reservation row and new-range days are
// written atomically. A cancelled status skips the apply phase entirely.
func (s *CalendarService) UpdateReservation(id uint, in ReservationInput) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.db.First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	oldDates := DatesInRange(res.CheckIn, res.CheckOut)
	newDates := DatesInRange(in.CheckIn, in.CheckOut)

	keep := make(map[string]bool, len(newDates))
	if in.Status != models.ReservationCancelado {
		for _, d := range newDates {
			keep[d] = true
		}
	}
	s.releaseDays(res.ID, oldDates, keep)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		client, err := upsertClient(tx, in)
		if err != nil {
			return err
		}
		res.CheckIn = in.CheckIn
		res.CheckOut = in.CheckOut
		res.ClientID = &client.ID
		res.ClientName = in.ClientName
		res.ClientEmail = in.ClientEmail
		res.ClientPhone = in.ClientPhone
		res.ClientAddress = in.ClientAddress
		res.ClientCuit = in.ClientCuit
		res.TotalAmount = in.TotalAmount
		res.PaidAmount = in.PaidAmount
		res.Deposit = in.Deposit
		res.Status = in.Status
		res.Notes = in.Notes
		if err := tx.Save(&res).Error; err != nil {
			return err
		}
		if res.Status != models.ReservationCancelado {
			return reserveDays(tx, newDates)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CancelReservation flips the status to cancelado and releases every day of
// the stay that no other live reservation covers.
func (s *CalendarService) CancelReservation(id uint, reason string) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.db.First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	res.Status = models.ReservationCancelado
	if reason != "" {
		if res.Notes != "" {
			res.Notes += "\n"
		}
		res.Notes += reason
	}
	if err := s.db.Save(&res).Error; err != nil {
		return nil, err
	}

	s.releaseDays(res.ID, DatesInRange(res.CheckIn, res.CheckOut), nil)
	return &res, nil
}

// DeleteReservation removes the reservation and its payments, then releases
// its days. The returned row still carries the payments so the caller can
// clean up proof files.
func (s *CalendarService) DeleteReservation(id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.db.Preload("Payments").First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reservation_id = ?", res.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&res).Error
	})
	if err != nil {
		return nil, err
	}

	s.releaseDays(res.ID, DatesInRange(res.CheckIn, res.CheckOut), nil)
	return &res, nil
}

// SetDay is the manual admin toggle for one calendar cell.
func (s *CalendarService) SetDay(date, status, note string) (*models.Day, error) {
	if _, err := pricing.ParseDate(date); err != nil {
		return nil, err
	}
	if !models.ValidDayStatus(status) {
		return nil, fmt.Errorf("%w: day status %q", ErrInvalidEnum, status)
	}
	day := models.Day{Date: date, Status: status, Note: note}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"status": status, "note": note}),
	}).Create(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// RecomputeDay rebuilds one ledger cell from the reservation table, the
// ground truth: reserved if any non-cancelled reservation covers the date,
// otherwise a reserved cell reverts to available. Manual consulta marks and
// notes survive. Idempotent; safe to re-run after any crash.
func (s *CalendarService) RecomputeDay(date string) error {
	t, err := dayTime(date)
	if err != nil {
		return err
	}
	var count int64
	err = s.db.Model(&models.Reservation{}).
		Where("check_in <= ? AND check_out > ? AND status <> ?", t, t, models.ReservationCancelado).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		day := models.Day{Date: date, Status: models.DayReserved}
		return s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": models.DayReserved}),
		}).Create(&day).Error
	}
	return s.db.Model(&models.Day{}).
		Where("date = ? AND status = ?", date, models.DayReserved).
		Update("status", models.DayAvailable).Error
}

// RecomputeRange sweeps every date in [from, to] through RecomputeDay.
// Individual failures are logged and skipped; the sweep converges on rerun.
func (s *CalendarService) RecomputeRange(from, to string) (int, error) {
	start, err := dayTime(from)
	if err != nil {
		return 0, err
	}
	end, err := dayTime(to)
	if err != nil {
		return 0, err
	}
	swept := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(pricing.ISODate)
		if err := s.RecomputeDay(date); err != nil {
			log.Printf("recompute day %s: %v", date, err)
			continue
		}
		swept++
	}
	return swept, nil
}

// releaseDays reverts old stay dates to available unless kept by the new
// range or covered by another live reservation. Failures never propagate:
// the ledger self-heals via RecomputeRange.
func (s *CalendarService) releaseDays(excludeID uint, dates []string, keep map[string]bool) {
	for _, date := range dates {
		if keep[date] {
			continue
		}
		if err := s.releaseDay(excludeID, date); err != nil {
			log.Printf("release day %s for reservation %d: %v (left for recompute sweep)", date, excludeID, err)
		}
	}
}

func (s *CalendarService) releaseDay(excludeID uint, date string) error {
	var lastErr error
	for attempt := 0; attempt < releaseRetries; attempt++ {
		if lastErr = s.tryReleaseDay(excludeID, date); lastErr == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt+1) * 25 * time.Millisecond)
	}
	return lastErr
}

func (s *CalendarService) tryReleaseDay(excludeID uint, date string) error {
	t, err := dayTime(date)
	if err != nil {
		return err
	}
	var count int64
	err = s.db.Model(&models.Reservation{}).
		Where("id <> ? AND check_in <= ? AND check_out > ? AND status <> ?",
			excludeID, t, t, models.ReservationCancelado).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.Model(&models.Day{}).
		Where("date = ? AND status = ?", date, models.DayReserved).
		Update("status", models.DayAvailable).Error
}

func reserveDays(tx *gorm.DB, dates []string) error {
	for _, date := range dates {
		day := models.Day{Date: date, Status: models.DayReserved}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": models.DayReserved}),
		}).Create(&day).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func upsertClient(tx *gorm.DB, in ReservationInput) (*models.Client, error) {
	var client models.Client
	err := tx.Where("email = ?", in.ClientEmail).First(&client).Error
	switch {
	case err == nil:
		client.Name = in.ClientName
		client.Phone = in.ClientPhone
		client.Address = in.ClientAddress
		client.Cuit = in.ClientCuit
		if err := tx.Save(&client).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		client = models.Client{
			Email:   in.ClientEmail,
			Name:    in.ClientName,
			Phone:   in.ClientPhone,
			Address: in.ClientAddress,
			Cuit:    in.ClientCuit,
		}
		if err := tx.Create(&client).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return &client, nil
}
