package routes

import (
	"encoding/json"
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/Aguirre-Martin/paradise-point/models"
	"github.com/Aguirre-Martin/paradise-point/services"
	"github.com/Aguirre-Martin/paradise-point/storage"
	"github.com/Aguirre-Martin/paradise-point/utils"
)

type DayStatusEntry struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type SetDayInput struct {
	Date   string `json:"date" validate:"required,len=10"`
	Status string `json:"status" validate:"required,oneof=disponible consulta reservado"`
	Note   string `json:"note"`
}

type RecomputeInput struct {
	From string `json:"from" validate:"required,len=10"`
	To   string `json:"to" validate:"required,len=10"`
}

// GetCalendar returns the whole day ledger as a date-keyed map, the shape
// the public booking calendar consumes. The projection is cached in redis
// and invalidated by every day or reservation mutation.
func GetCalendar(ctx iris.Context) {
	if cached := storage.GetCachedCalendar(); cached != "" {
		ctx.ContentType("application/json")
		ctx.WriteString(cached)
		return
	}

	var days []models.Day
	if err := storage.DB.Order("date ASC").Find(&days).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch calendar")
		return
	}

	calendarData := make(map[string]DayStatusEntry, len(days))
	for _, day := range days {
		calendarData[day.Date] = DayStatusEntry{Status: day.Status, Note: day.Note}
	}

	if payload, err := json.Marshal(calendarData); err == nil {
		storage.SetCachedCalendar(string(payload))
	}
	ctx.JSON(calendarData)
}

// AdminSetDay is the manual toggle: the admin cycles one cell through
// disponible, consulta and reservado, optionally attaching a note.
func AdminSetDay(ctx iris.Context) {
	var input SetDayInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	calendarService := services.NewCalendarService(storage.DB)
	var before models.Day
	storage.DB.Where("date = ?", input.Date).Limit(1).Find(&before)

	day, err := calendarService.SetDay(input.Date, input.Status, input.Note)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "calendar.set_day", "day", day.Date, before, day)
	storage.InvalidateCalendarCache()
	ctx.JSON(iris.Map{"ok": true, "day": day})
}

// AdminRecomputeCalendar sweeps a date range through the projection
// rebuild. The ledger is a cache of the reservation table; this endpoint
// heals any cell a crashed release phase may have left behind.
func AdminRecomputeCalendar(ctx iris.Context) {
	var input RecomputeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	calendarService := services.NewCalendarService(storage.DB)
	swept, err := calendarService.RecomputeRange(input.From, input.To)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	storage.InvalidateCalendarCache()
	ctx.JSON(iris.Map{"ok": true, "swept": swept})
}
