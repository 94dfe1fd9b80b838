package routes

import (
	"fmt"
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/Aguirre-Martin/paradise-point/models"
	"github.com/Aguirre-Martin/paradise-point/pricing"
	"github.com/Aguirre-Martin/paradise-point/services"
	"github.com/Aguirre-Martin/paradise-point/storage"
	"github.com/Aguirre-Martin/paradise-point/utils"
)

type PaymentFormInput struct {
	ReservationID uint   `json:"reservationID" validate:"required"`
	Amount        int    `json:"amount" validate:"required,min=1"`
	Concept       string `json:"concept" validate:"required,oneof=Depósito Adelanto 'Pago Final' 'Pago Parcial'"`
	Method        string `json:"method" validate:"required,oneof=EFECTIVO TRANSFERENCIA"`
	Recipient     string `json:"recipient" validate:"required,oneof=Martin Julieta"`
	ProofFileName string `json:"proofFileName"`
	PaymentDate   string `json:"paymentDate" validate:"omitempty,len=10"`
	Notes         string `json:"notes"`
}

func (in PaymentFormInput) toServiceInput() (services.PaymentInput, error) {
	serviceInput := services.PaymentInput{
		Amount:        in.Amount,
		Concept:       in.Concept,
		Method:        in.Method,
		Recipient:     in.Recipient,
		ProofFileName: in.ProofFileName,
		Notes:         in.Notes,
	}
	if in.PaymentDate != "" {
		paymentDate, err := pricing.ParseDate(in.PaymentDate)
		if err != nil {
			return services.PaymentInput{}, err
		}
		serviceInput.PaymentDate = paymentDate
	}
	return serviceInput, nil
}

// GET /api/admin/payments?reservationId=N
func AdminListPayments(ctx iris.Context) {
	reservationID, err := ctx.URLParamInt("reservationId")
	if err != nil || reservationID <= 0 {
		utils.JSONError(ctx, http.StatusBadRequest, "missing_reservation", "reservationId query parameter is required")
		return
	}

	var payments []models.Payment
	if err := storage.DB.Where("reservation_id = ?", reservationID).
		Order("payment_date DESC").Find(&payments).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.JSON(iris.Map{"payments": payments})
}

// POST /api/admin/payments
func AdminCreatePayment(ctx iris.Context) {
	var input PaymentFormInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	serviceInput, err := input.toServiceInput()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	paymentService := services.NewPaymentService(storage.DB)
	payment, err := paymentService.CreatePayment(input.ReservationID, serviceInput)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "payment.create", "payment", fmt.Sprint(payment.ID), nil, payment)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"payment": payment})
}

// PUT /api/admin/payments/:id
func AdminUpdatePayment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var input PaymentFormInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	serviceInput, err := input.toServiceInput()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	var before models.Payment
	storage.DB.First(&before, id)

	paymentService := services.NewPaymentService(storage.DB)
	payment, err := paymentService.UpdatePayment(id, serviceInput)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "payment.update", "payment", fmt.Sprint(payment.ID), before, payment)
	ctx.JSON(iris.Map{"payment": payment})
}

// DELETE /api/admin/payments/:id
func AdminDeletePayment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	paymentService := services.NewPaymentService(storage.DB)
	payment, err := paymentService.DeletePayment(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	if payment.ProofFileName != "" {
		storage.DeleteProofFile(payment.ReservationID, payment.ProofFileName)
	}

	utils.Audit(ctx, "payment.delete", "payment", fmt.Sprint(payment.ID), payment, nil)
	ctx.JSON(iris.Map{"success": true})
}
