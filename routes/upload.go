package routes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/kataras/iris/v12"

	"github.com/Aguirre-Martin/paradise-point/storage"
	"github.com/Aguirre-Martin/paradise-point/utils"
)

// POST /api/admin/upload/comprobante — multipart form with "file" and
// "reservationId". Stores the payment proof and returns the generated name
// to attach to a payment.
func AdminUploadComprobante(ctx iris.Context) {
	ctx.SetMaxRequestBodySize(storage.MaxProofFileSize + 1<<20)

	file, header, err := ctx.FormFile("file")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "missing_file", "no file uploaded")
		return
	}
	defer file.Close()

	reservationID, err := strconv.ParseUint(ctx.FormValue("reservationId"), 10, 32)
	if err != nil || reservationID == 0 {
		utils.JSONError(ctx, http.StatusBadRequest, "missing_reservation", "reservationId is required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxProofFileSize+1))
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to read upload")
		return
	}

	fileName, err := storage.SaveProofFile(uint(reservationID), header.Filename, data)
	if err != nil {
		handleProofError(ctx, err)
		return
	}

	utils.Audit(ctx, "comprobante.upload", "payment_proof", fileName, nil, iris.Map{
		"reservationID": reservationID,
		"fileName":      fileName,
	})
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"fileName": fileName,
		"url":      fmt.Sprintf("/api/admin/comprobante/%d/%s", reservationID, fileName),
	})
}

// GET /api/admin/comprobante/:reservationId/:filename
func AdminDownloadComprobante(ctx iris.Context) {
	reservationID, err := ctx.Params().GetUint("reservationId")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}
	fileName := ctx.Params().Get("filename")

	path, err := storage.ProofFilePath(reservationID, fileName)
	if err != nil {
		handleProofError(ctx, err)
		return
	}
	ctx.ServeFile(path)
}

func handleProofError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrProofTooLarge):
		utils.JSONError(ctx, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	case errors.Is(err, storage.ErrProofBadType):
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_file_type", err.Error())
	case errors.Is(err, storage.ErrProofBadName):
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_file_name", err.Error())
	case errors.Is(err, storage.ErrProofNotFound):
		utils.JSONError(ctx, http.StatusNotFound, "not_found", err.Error())
	default:
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
	}
}
