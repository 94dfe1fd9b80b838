package routes

import (
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"

	"github.com/Aguirre-Martin/paradise-point/models"
	"github.com/Aguirre-Martin/paradise-point/storage"
	"github.com/Aguirre-Martin/paradise-point/utils"
)

// GET /api/admin/clients?q=search&page=1&per_page=25
func AdminListClients(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.Client{})
	if search := strings.TrimSpace(ctx.URLParamDefault("q", "")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}

	var total int64
	q.Count(&total)

	var clients []models.Client
	if err := q.Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&clients).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, clients, page, perPage, total)
}

// GET /api/admin/clients/:id
func AdminGetClient(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var client models.Client
	if err := storage.DB.Preload("Reservations").First(&client, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "client not found")
		return
	}
	ctx.JSON(iris.Map{"client": client})
}
