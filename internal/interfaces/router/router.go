package router

import (
	"net/http"

	assetssvc "wavemint-backend/internal/application/assets"
	authsvc "wavemint-backend/internal/application/auth"
	collsvc "wavemint-backend/internal/application/collection"
	emailsvc "wavemint-backend/internal/application/emails"
	lesvc "wavemint-backend/internal/application/listingevents"
	listsvc "wavemint-backend/internal/application/listings"
	tradesvc "wavemint-backend/internal/application/trading"
	uploadsvc "wavemint-backend/internal/application/uploads"
	usersvc "wavemint-backend/internal/application/users"
	walletsvc "wavemint-backend/internal/application/wallets"
	"wavemint-backend/internal/config"
	"wavemint-backend/internal/domain"
	"wavemint-backend/internal/infrastructure/audius"
	"wavemint-backend/internal/infrastructure/database"
	assetshandler "wavemint-backend/internal/interfaces/handlers/assets"
	authhandler "wavemint-backend/internal/interfaces/handlers/auth"
	collhandler "wavemint-backend/internal/interfaces/handlers/collection"
	healthhandler "wavemint-backend/internal/interfaces/handlers/health"
	lehandler "wavemint-backend/internal/interfaces/handlers/listingevents"
	listhandler "wavemint-backend/internal/interfaces/handlers/listings"
	payhandler "wavemint-backend/internal/interfaces/handlers/payments"
	tradehandler "wavemint-backend/internal/interfaces/handlers/trading"
	uploadhandler "wavemint-backend/internal/interfaces/handlers/uploads"
	userhandler "wavemint-backend/internal/interfaces/handlers/users"
	wallethandler "wavemint-backend/internal/interfaces/handlers/wallets"
	"wavemint-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Webhook is registered before the session middleware so the raw body
	// reaches the signature check untouched.
	stripeWebhook := &payhandler.WebhookHandler{WebhookSecret: cfg.StripeWebhookSecret}
	app.Post("/api/v1/stripe/webhook", func(c *fiber.Ctx) error {
		return stripeWebhook.HandleWebhook(c)
	})

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		AudiusBaseURL:  cfg.AudiusAPIURL,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		var emailSender emailsvc.Sender
		if cfg.SendinblueAPIKey != "" {
			emailSender = &emailsvc.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom}
		}

		// Users (registration is public)
		us := &usersvc.Service{DB: db}
		uh := &userhandler.Handlers{Service: us, Mailer: emailSender}
		app.Post("/api/v1/users/register", uh.Register)
		ug := app.Group("/api/v1/users", middleware.RequireAuth())
		ug.Get("/profile", uh.Profile)

		// Assets + Audius catalog
		catalog := audius.New(cfg.AudiusAPIURL, cfg.AudiusAppName)
		as := &assetssvc.Service{DB: db, Catalog: catalog}
		assh := &assetshandler.Handlers{Service: as}
		ag := app.Group("/api/v1/assets", middleware.RequireAuth())
		ag.Post("/mint", assh.Mint)
		ag.Get("/get-asset/:asset_id", assh.GetAsset)
		ag.Post("/sync-catalog", middleware.RequireRole(domain.RoleAdmin), assh.SyncCatalog)

		// Uploads (artwork / audio previews via Supabase storage)
		sc := &uploadsvc.HTTPClient{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey}
		upsvc := &uploadsvc.Service{Client: sc, SupabaseURL: cfg.SupabaseURL}
		uph := &uploadhandler.Handlers{Service: upsvc}
		upg := app.Group("/api/v1/uploads", middleware.RequireAuth())
		upg.Post("/artwork", uph.UploadArtwork)
		upg.Post("/preview", uph.UploadPreview)

		// Listings
		ls := &listsvc.Service{DB: db}
		lh := &listhandler.Handlers{Service: ls}
		lg := app.Group("/api/v1/listings", middleware.RequireAuth())
		lg.Post("/create-listing", lh.CreateListing)
		lg.Post("/cancel-listing/:listing_id", lh.CancelListing)
		lg.Get("/get-listing/:listing_id", lh.GetListing)
		lg.Get("/get-active-listings", lh.GetActiveListings)
		lg.Get("/get-my-active-listings", lh.GetMyActiveListings)
		lg.Get("/get-my-closed-listings", lh.GetMyClosedListings)

		// Trading
		treasuryID, _ := uuid.Parse(cfg.TreasuryUserID)
		ts := &tradesvc.Service{DB: db, TreasuryID: treasuryID}
		th := &tradehandler.Handlers{Service: ts, Users: us, Assets: as, Mailer: emailSender}
		tg := app.Group("/api/v1/trading", middleware.RequireAuth())
		tg.Post("/purchase/:listing_id", th.Purchase)

		// Collection
		cs := &collsvc.Service{DB: db}
		ch := &collhandler.Handlers{Service: cs}
		cg := app.Group("/api/v1/collection", middleware.RequireAuth())
		cg.Get("/owned", ch.GetOwned)
		cg.Get("/listed", ch.GetListed)
		cg.Get("/sales", ch.GetSales)
		cg.Get("/purchases", ch.GetPurchases)

		// Wallets
		ws := &walletsvc.Service{DB: db}
		wh := &wallethandler.Handlers{
			Service:       ws,
			StripeCreator: &wallethandler.RealStripeCreator{SecretKey: cfg.StripeSecretKey},
		}
		wg := app.Group("/api/v1/wallets", middleware.RequireAuth())
		wg.Get("/balances", wh.GetBalances)
		wg.Post("/deposit-intent", wh.CreateDepositIntent)
		stripeWebhook.Wallets = ws

		// ListingEvents
		les := &lesvc.Service{DB: db}
		leh := &lehandler.Handlers{Service: les}
		leg := app.Group("/api/v1/listing-events", middleware.RequireAuth())
		leg.Get("/get-listing-events/:listing_id", leh.GetListingEvents)
		leg.Get("/get-my-events", leh.GetMyEvents)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
