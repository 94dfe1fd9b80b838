package routes

import (
	"net/http"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/Aguirre-Martin/paradise-point/models"
	"github.com/Aguirre-Martin/paradise-point/pricing"
	"github.com/Aguirre-Martin/paradise-point/storage"
	"github.com/Aguirre-Martin/paradise-point/utils"
)

// GET /api/admin/metrics — the dashboard numbers: current-month occupation
// and income, available days, reservation count, and the next five stays.
func AdminMetrics(ctx iris.Context) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, -1)

	var daysInMonth []models.Day
	err := storage.DB.
		Where("date >= ? AND date <= ?", startOfMonth.Format(pricing.ISODate), endOfMonth.Format(pricing.ISODate)).
		Find(&daysInMonth).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	totalDays := len(daysInMonth)
	reservedDays := 0
	availableDays := 0
	for _, day := range daysInMonth {
		switch day.Status {
		case models.DayReserved:
			reservedDays++
		case models.DayAvailable:
			availableDays++
		}
	}
	occupation := 0
	if totalDays > 0 {
		occupation = int(float64(reservedDays)/float64(totalDays)*100 + 0.5)
	}

	var monthReservations []models.Reservation
	err = storage.DB.
		Where("check_in >= ? AND check_in <= ? AND status <> ?", startOfMonth, endOfMonth, models.ReservationCancelado).
		Find(&monthReservations).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	monthIncome := 0
	for _, res := range monthReservations {
		monthIncome += res.PaidAmount
	}

	var upcoming []models.Reservation
	err = storage.DB.
		Where("check_in >= ? AND check_in <= ? AND status <> ?", now, now.AddDate(0, 0, 30), models.ReservationCancelado).
		Order("check_in ASC").Limit(5).
		Find(&upcoming).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(iris.Map{
		"ocupacionMes":     occupation,
		"ingresosMes":      monthIncome,
		"diasDisponibles":  availableDays,
		"totalReservasMes": len(monthReservations),
		"proximasReservas": upcoming,
	})
}
