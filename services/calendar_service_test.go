package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Aguirre-Martin/paradise-point/models"
	"github.com/Aguirre-Martin/paradise-point/pricing"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Reservation{},
		&models.Payment{},
		&models.Day{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func mustDate(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := pricing.ParseDate(date)
	if err != nil {
		t.Fatalf("parsing %s: %v", date, err)
	}
	return parsed
}

func dayStatus(t *testing.T, db *gorm.DB, date string) string {
	t.Helper()
	var day models.Day
	result := db.Where("date = ?", date).Limit(1).Find(&day)
	if result.Error != nil {
		t.Fatalf("loading day %s: %v", date, result.Error)
	}
	if result.RowsAffected == 0 {
		return ""
	}
	return day.Status
}

func stayInput(t *testing.T, checkIn, checkOut string) ReservationInput {
	t.Helper()
	return ReservationInput{
		CheckIn:     mustDate(t, checkIn),
		CheckOut:    mustDate(t, checkOut),
		ClientName:  "Carlos Gómez",
		ClientEmail: "carlos@example.com",
		ClientPhone: "+54 9 11 5555-1234",
		TotalAmount: 650000,
	}
}

func TestDatesInRange(t *testing.T) {
	got := DatesInRange(mustDate(t, "2026-01-13"), mustDate(t, "2026-01-16"))
	want := []string{"2026-01-13", "2026-01-14", "2026-01-15"}
	if len(got) != len(want) {
		t.Fatalf("DatesInRange = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DatesInRange = %v, want %v", got, want)
		}
	}
	if dates := DatesInRange(mustDate(t, "2026-01-13"), mustDate(t, "2026-01-13")); len(dates) != 0 {
		t.Fatalf("empty range produced dates: %v", dates)
	}
}

func TestCreateReservation_MarksDaysReserved(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	res, err := svc.CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if res.ID == 0 {
		t.Fatal("reservation not persisted")
	}
	if res.Status != models.ReservationSenado {
		t.Fatalf("default status = %q, want señado", res.Status)
	}
	if res.Deposit != models.DefaultDeposit {
		t.Fatalf("default deposit = %d, want %d", res.Deposit, models.DefaultDeposit)
	}

	for _, date := range []string{"2026-01-13", "2026-01-14", "2026-01-15", "2026-01-16"} {
		if got := dayStatus(t, db, date); got != models.DayReserved {
			t.Fatalf("day %s = %q, want reservado", date, got)
		}
	}
	// Departure day is exclusive.
	if got := dayStatus(t, db, "2026-01-17"); got == models.DayReserved {
		t.Fatal("check-out day was reserved")
	}
}

func TestCreateReservation_InvalidRange(t *testing.T) {
	svc := NewCalendarService(newTestDB(t))

	same := stayInput(t, "2026-01-13", "2026-01-13")
	if _, err := svc.CreateReservation(same); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	backwards := stayInput(t, "2026-01-17", "2026-01-13")
	if _, err := svc.CreateReservation(backwards); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestCreateReservation_RejectsOverpaid(t *testing.T) {
	svc := NewCalendarService(newTestDB(t))

	in := stayInput(t, "2026-01-13", "2026-01-17")
	in.PaidAmount = in.TotalAmount + 1
	if _, err := svc.CreateReservation(in); !errors.Is(err, ErrOverpaidAmount) {
		t.Fatalf("expected ErrOverpaidAmount, got %v", err)
	}
}

func TestCreateReservation_RejectsUnknownStatus(t *testing.T) {
	svc := NewCalendarService(newTestDB(t))

	in := stayInput(t, "2026-01-13", "2026-01-17")
	in.Status = "pendiente"
	if _, err := svc.CreateReservation(in); !errors.Is(err, ErrInvalidEnum) {
		t.Fatalf("expected ErrInvalidEnum, got %v", err)
	}
}

func TestCreateReservation_CancelledSkipsLedger(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	in := stayInput(t, "2026-01-13", "2026-01-17")
	in.Status = models.ReservationCancelado
	if _, err := svc.CreateReservation(in); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if got := dayStatus(t, db, "2026-01-14"); got == models.DayReserved {
		t.Fatal("cancelled reservation reserved a day")
	}
}

func TestCreateReservation_UpsertsClient(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	first := stayInput(t, "2026-01-13", "2026-01-17")
	first.ClientEmail = "Carlos@Example.com"
	if _, err := svc.CreateReservation(first); err != nil {
		t.Fatalf("first CreateReservation: %v", err)
	}

	second := stayInput(t, "2026-02-14", "2026-02-16")
	second.ClientPhone = "+54 9 11 5555-9999"
	res, err := svc.CreateReservation(second)
	if err != nil {
		t.Fatalf("second CreateReservation: %v", err)
	}
	if res.ClientEmail != "carlos@example.com" {
		t.Fatalf("email not lowercased: %q", res.ClientEmail)
	}

	var clients []models.Client
	if err := db.Find(&clients).Error; err != nil {
		t.Fatalf("listing clients: %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("expected a single deduplicated client, got %d", len(clients))
	}
	if clients[0].Phone != "+54 9 11 5555-9999" {
		t.Fatalf("client phone not refreshed: %q", clients[0].Phone)
	}
}

func TestDeleteReservation_RestoresDays(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	res, err := svc.CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if _, err := svc.DeleteReservation(res.ID); err != nil {
		t.Fatalf("DeleteReservation: %v", err)
	}

	for _, date := range []string{"2026-01-13", "2026-01-14", "2026-01-15", "2026-01-16"} {
		if got := dayStatus(t, db, date); got != models.DayAvailable {
			t.Fatalf("day %s = %q after delete, want disponible", date, got)
		}
	}
}

func TestDeleteReservation_KeepsOverlappedDays(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	first, err := svc.CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("first CreateReservation: %v", err)
	}
	overlapping := stayInput(t, "2026-01-16", "2026-01-19")
	overlapping.ClientEmail = "otra@example.com"
	if _, err := svc.CreateReservation(overlapping); err != nil {
		t.Fatalf("second CreateReservation: %v", err)
	}

	if _, err := svc.DeleteReservation(first.ID); err != nil {
		t.Fatalf("DeleteReservation: %v", err)
	}
	// 13-15 belonged only to the deleted stay, 16 is still covered.
	for _, date := range []string{"2026-01-13", "2026-01-14", "2026-01-15"} {
		if got := dayStatus(t, db, date); got != models.DayAvailable {
			t.Fatalf("day %s = %q, want disponible", date, got)
		}
	}
	if got := dayStatus(t, db, "2026-01-16"); got != models.DayReserved {
		t.Fatalf("shared day released: %q", got)
	}
}

func TestDeleteReservation_NotFound(t *testing.T) {
	svc := NewCalendarService(newTestDB(t))
	if _, err := svc.DeleteReservation(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateReservation_MovesRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	res, err := svc.CreateReservation(stayInput(t, "2026-01-12", "2026-01-16"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	moved := stayInput(t, "2026-01-14", "2026-01-18")
	if _, err := svc.UpdateReservation(res.ID, moved); err != nil {
		t.Fatalf("UpdateReservation: %v", err)
	}

	for _, date := range []string{"2026-01-12", "2026-01-13"} {
		if got := dayStatus(t, db, date); got != models.DayAvailable {
			t.Fatalf("vacated day %s = %q, want disponible", date, got)
		}
	}
	for _, date := range []string{"2026-01-14", "2026-01-15", "2026-01-16", "2026-01-17"} {
		if got := dayStatus(t, db, date); got != models.DayReserved {
			t.Fatalf("day %s = %q, want reservado", date, got)
		}
	}
}

func TestUpdateReservation_ToCancelledReleasesEverything(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	res, err := svc.CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	cancelled := stayInput(t, "2026-01-13", "2026-01-17")
	cancelled.Status = models.ReservationCancelado
	updated, err := svc.UpdateReservation(res.ID, cancelled)
	if err != nil {
		t.Fatalf("UpdateReservation: %v", err)
	}
	if updated.Status != models.ReservationCancelado {
		t.Fatalf("status = %q, want cancelado", updated.Status)
	}
	for _, date := range []string{"2026-01-13", "2026-01-14", "2026-01-15", "2026-01-16"} {
		if got := dayStatus(t, db, date); got != models.DayAvailable {
			t.Fatalf("day %s = %q after cancel, want disponible", date, got)
		}
	}
}

func TestUpdateReservation_NotFound(t *testing.T) {
	svc := NewCalendarService(newTestDB(t))
	if _, err := svc.UpdateReservation(999, stayInput(t, "2026-01-13", "2026-01-17")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelReservation_ReleasesDaysAndKeepsReason(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	res, err := svc.CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	cancelled, err := svc.CancelReservation(res.ID, "el cliente canceló por lluvia")
	if err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}
	if cancelled.Status != models.ReservationCancelado {
		t.Fatalf("status = %q, want cancelado", cancelled.Status)
	}
	if cancelled.Notes != "el cliente canceló por lluvia" {
		t.Fatalf("reason not recorded: %q", cancelled.Notes)
	}
	if got := dayStatus(t, db, "2026-01-14"); got != models.DayAvailable {
		t.Fatalf("day not released: %q", got)
	}
}

func TestSetDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	day, err := svc.SetDay("2026-01-20", models.DayInquiry, "consultó por WhatsApp")
	if err != nil {
		t.Fatalf("SetDay: %v", err)
	}
	if day.Status != models.DayInquiry {
		t.Fatalf("status = %q, want consulta", day.Status)
	}

	// Upsert on the same cell overwrites.
	if _, err := svc.SetDay("2026-01-20", models.DayAvailable, ""); err != nil {
		t.Fatalf("SetDay upsert: %v", err)
	}
	if got := dayStatus(t, db, "2026-01-20"); got != models.DayAvailable {
		t.Fatalf("day = %q, want disponible", got)
	}
}

func TestSetDay_Invalid(t *testing.T) {
	svc := NewCalendarService(newTestDB(t))
	if _, err := svc.SetDay("2026-01-20", "ocupado", ""); !errors.Is(err, ErrInvalidEnum) {
		t.Fatalf("expected ErrInvalidEnum, got %v", err)
	}
	if _, err := svc.SetDay("20/01/2026", models.DayAvailable, ""); !errors.Is(err, pricing.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestReleaseNeverTouchesInquiryDays(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	res, err := svc.CreateReservation(stayInput(t, "2026-01-13", "2026-01-17"))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	// Admin flips a mid-stay day to consulta by hand.
	if _, err := svc.SetDay("2026-01-15", models.DayInquiry, ""); err != nil {
		t.Fatalf("SetDay: %v", err)
	}

	if _, err := svc.DeleteReservation(res.ID); err != nil {
		t.Fatalf("DeleteReservation: %v", err)
	}
	if got := dayStatus(t, db, "2026-01-15"); got != models.DayInquiry {
		t.Fatalf("manual consulta mark lost: %q", got)
	}
}

func TestRecomputeDay_Converges(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	if _, err := svc.CreateReservation(stayInput(t, "2026-01-13", "2026-01-17")); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	// Simulate a crashed release: covered day forced to disponible.
	err := db.Model(&models.Day{}).Where("date = ?", "2026-01-14").
		Update("status", models.DayAvailable).Error
	if err != nil {
		t.Fatalf("corrupting ledger: %v", err)
	}
	if err := svc.RecomputeDay("2026-01-14"); err != nil {
		t.Fatalf("RecomputeDay: %v", err)
	}
	if got := dayStatus(t, db, "2026-01-14"); got != models.DayReserved {
		t.Fatalf("covered day = %q after recompute, want reservado", got)
	}

	// Stale reservado with no covering reservation reverts.
	if err := db.Create(&models.Day{Date: "2026-03-03", Status: models.DayReserved}).Error; err != nil {
		t.Fatalf("seeding stale day: %v", err)
	}
	if err := svc.RecomputeDay("2026-03-03"); err != nil {
		t.Fatalf("RecomputeDay: %v", err)
	}
	if got := dayStatus(t, db, "2026-03-03"); got != models.DayAvailable {
		t.Fatalf("stale day = %q after recompute, want disponible", got)
	}

	// Recompute is idempotent.
	if err := svc.RecomputeDay("2026-01-14"); err != nil {
		t.Fatalf("second RecomputeDay: %v", err)
	}
	if got := dayStatus(t, db, "2026-01-14"); got != models.DayReserved {
		t.Fatalf("idempotence broken: %q", got)
	}
}

func TestRecomputeRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db)

	if _, err := svc.CreateReservation(stayInput(t, "2026-01-13", "2026-01-17")); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	err := db.Model(&models.Day{}).Where("date IN ?", []string{"2026-01-13", "2026-01-15"}).
		Update("status", models.DayAvailable).Error
	if err != nil {
		t.Fatalf("corrupting ledger: %v", err)
	}

	swept, err := svc.RecomputeRange("2026-01-12", "2026-01-18")
	if err != nil {
		t.Fatalf("RecomputeRange: %v", err)
	}
	if swept != 7 {
		t.Fatalf("swept %d days, want 7", swept)
	}
	for _, date := range []string{"2026-01-13", "2026-01-14", "2026-01-15", "2026-01-16"} {
		if got := dayStatus(t, db, date); got != models.DayReserved {
			t.Fatalf("day %s = %q after sweep, want reservado", date, got)
		}
	}

	if _, err := svc.RecomputeRange("bad", "2026-01-18"); !errors.Is(err, pricing.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
