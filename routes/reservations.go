package routes

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/Aguirre-Martin/paradise-point/models"
	"github.com/Aguirre-Martin/paradise-point/pricing"
	"github.com/Aguirre-Martin/paradise-point/services"
	"github.com/Aguirre-Martin/paradise-point/storage"
	"github.com/Aguirre-Martin/paradise-point/utils"
)

type ReservationFormInput struct {
	CheckIn       string `json:"checkIn" validate:"required,len=10"`
	CheckOut      string `json:"checkOut" validate:"required,len=10"`
	ClientName    string `json:"clientName" validate:"required,max=256"`
	ClientEmail   string `json:"clientEmail" validate:"required,email"`
	ClientPhone   string `json:"clientPhone" validate:"required,max=64"`
	ClientAddress string `json:"clientAddress" validate:"max=256"`
	ClientCuit    string `json:"clientCuit" validate:"max=32"`
	TotalAmount   int    `json:"totalAmount" validate:"required,min=1"`
	PaidAmount    int    `json:"paidAmount" validate:"min=0"`
	Deposit       int    `json:"deposit" validate:"min=0"`
	Status        string `json:"status" validate:"omitempty,oneof=señado pagado cancelado"`
	Notes         string `json:"notes"`
}

func (in ReservationFormInput) toServiceInput() (services.ReservationInput, error) {
	checkIn, err := pricing.ParseDate(in.CheckIn)
	if err != nil {
		return services.ReservationInput{}, err
	}
	checkOut, err := pricing.ParseDate(in.CheckOut)
	if err != nil {
		return services.ReservationInput{}, err
	}
	return services.ReservationInput{
		CheckIn:       checkIn,
		CheckOut:      checkOut,
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
	}, nil
}

// handleServiceError maps service and pricing errors onto HTTP responses.
func handleServiceError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(ctx, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrInvalidDateRange):
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_date_range", err.Error())
	case errors.Is(err, services.ErrOverpaidAmount):
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "overpaid_amount", err.Error())
	case errors.Is(err, services.ErrInvalidAmount):
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_amount", err.Error())
	case errors.Is(err, services.ErrInvalidEnum):
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_enum", err.Error())
	case errors.Is(err, pricing.ErrInvalidDate):
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_date", err.Error())
	default:
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
	}
}

// GET /api/admin/reservations?type=proximas|pasadas
func AdminListReservations(ctx iris.Context) {
	listType := ctx.URLParamDefault("type", "proximas")
	now := time.Now()

	q := storage.DB.Model(&models.Reservation{}).Preload("Client")
	if listType == "pasadas" {
		q = q.Where("check_out < ?", now).Order("check_in DESC")
	} else {
		q = q.Where("check_in >= ?", now).Order("check_in ASC")
	}
	if status := ctx.URLParamDefault("status", ""); status != "" {
		q = q.Where("status = ?", status)
	}

	var reservations []models.Reservation
	if err := q.Find(&reservations).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.JSON(iris.Map{"reservations": reservations})
}

// GET /api/admin/reservations/:id
func AdminGetReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var res models.Reservation
	if err := storage.DB.Preload("Client").Preload("Payments").First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}
	ctx.JSON(iris.Map{"reservation": res})
}

// POST /api/admin/reservations
func AdminCreateReservation(ctx iris.Context) {
	var input ReservationFormInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	serviceInput, err := input.toServiceInput()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	calendarService := services.NewCalendarService(storage.DB)
	res, err := calendarService.CreateReservation(serviceInput)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "reservation.create", "reservation", fmt.Sprint(res.ID), nil, res)
	storage.InvalidateCalendarCache()
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"reservation": res})
}

// PUT /api/admin/reservations/:id
func AdminUpdateReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var input ReservationFormInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	serviceInput, err := input.toServiceInput()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	var before models.Reservation
	storage.DB.First(&before, id)

	calendarService := services.NewCalendarService(storage.DB)
	res, err := calendarService.UpdateReservation(id, serviceInput)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "reservation.update", "reservation", fmt.Sprint(res.ID), before, res)
	storage.InvalidateCalendarCache()
	ctx.JSON(iris.Map{"reservation": res})
}

// POST /api/admin/reservations/:id/cancel { reason }
func AdminCancelReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	ctx.ReadJSON(&body) // reason optional

	var before models.Reservation
	storage.DB.First(&before, id)

	calendarService := services.NewCalendarService(storage.DB)
	res, err := calendarService.CancelReservation(id, body.Reason)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "reservation.cancel", "reservation", fmt.Sprint(res.ID), before, res)
	storage.InvalidateCalendarCache()
	ctx.JSON(iris.Map{"reservation": res})
}

// DELETE /api/admin/reservations/:id
func AdminDeleteReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	calendarService := services.NewCalendarService(storage.DB)
	res, err := calendarService.DeleteReservation(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	// The reservation is gone; its proof files go with it.
	for _, payment := range res.Payments {
		if payment.ProofFileName != "" {
			storage.DeleteProofFile(res.ID, payment.ProofFileName)
		}
	}

	utils.Audit(ctx, "reservation.delete", "reservation", fmt.Sprint(res.ID), res, nil)
	storage.InvalidateCalendarCache()
	ctx.JSON(iris.Map{"success": true})
}
