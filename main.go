package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/Aguirre-Martin/paradise-point/pricing"
	"github.com/Aguirre-Martin/paradise-point/routes"
	"github.com/Aguirre-Martin/paradise-point/storage"
	"github.com/Aguirre-Martin/paradise-point/utils"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()
	if err := pricing.LoadFromEnv(); err != nil {
		log.Fatalf("loading rate card: %v", err)
	}

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the Next.js frontend
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	// The back-office UI sends the token as an httpOnly cookie, not a header.
	accessTokenVerifier.Extractors = append(accessTokenVerifier.Extractors, utils.CookieTokenExtractor)
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	// Public marketing site API
	calendar := app.Party("/api/calendar")
	{
		calendar.Get("/", routes.GetCalendar)
	}
	pricingParty := app.Party("/api/pricing")
	{
		pricingParty.Get("/rates", routes.GetRates)
		pricingParty.Get("/quote", routes.GetQuote)
		pricingParty.Get("/block/{date}", routes.GetBlockForDate)
	}

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/logout", routes.Logout)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.Me)
	}

	// Admin back office
	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/reservations", routes.AdminListReservations)
		admin.Get("/reservations/{id:uint}", routes.AdminGetReservation)
		admin.Post("/reservations", routes.AdminCreateReservation)
		admin.Put("/reservations/{id:uint}", routes.AdminUpdateReservation)
		admin.Post("/reservations/{id:uint}/cancel", routes.AdminCancelReservation)
		admin.Delete("/reservations/{id:uint}", routes.AdminDeleteReservation)

		admin.Get("/payments", routes.AdminListPayments)
		admin.Post("/payments", routes.AdminCreatePayment)
		admin.Put("/payments/{id:uint}", routes.AdminUpdatePayment)
		admin.Delete("/payments/{id:uint}", routes.AdminDeletePayment)

		admin.Get("/clients", routes.AdminListClients)
		admin.Get("/clients/{id:uint}", routes.AdminGetClient)

		admin.Post("/calendar/day", routes.AdminSetDay)
		admin.Post("/calendar/recompute", routes.AdminRecomputeCalendar)

		admin.Get("/metrics", routes.AdminMetrics)

		admin.Post("/upload/comprobante", routes.AdminUploadComprobante)
		admin.Get("/comprobante/{reservationId:uint}/{filename}", routes.AdminDownloadComprobante)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("Starting server on port " + port)
	app.Listen(":" + port)
}
