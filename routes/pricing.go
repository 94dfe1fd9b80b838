package routes

import (
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"

	"github.com/Aguirre-Martin/paradise-point/pricing"
	"github.com/Aguirre-Martin/paradise-point/utils"
)

// GetRates exposes the active rate card so the public pages render prices
// without a deploy on every season change.
func GetRates(ctx iris.Context) {
	ctx.JSON(pricing.Active())
}

// GetQuote prices a comma-separated date selection:
// GET /api/pricing/quote?dates=2026-01-13,2026-01-14,...
// The response carries the detected blocks, the total, and any unclaimed
// dates; the booking UI must refuse checkout while unclaimed is non-empty.
func GetQuote(ctx iris.Context) {
	raw := ctx.URLParamDefault("dates", "")
	if raw == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "missing_dates", "dates query parameter is required")
		return
	}

	dates := strings.Split(raw, ",")
	quote, err := pricing.Active().QuoteDates(dates)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(quote)
}

// GetBlockForDate returns the dates a click on one calendar day expands to,
// plus the informational per-day price label.
func GetBlockForDate(ctx iris.Context) {
	date := ctx.Params().Get("date")

	blockDates, err := pricing.BlockDatesFor(date)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	dayPrice, err := pricing.Active().PriceForDate(date)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"date":     date,
		"block":    blockDates,
		"dayPrice": dayPrice,
	})
}
