package main

import (
	"roster-platform/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := internal.LoadConfig()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	db := internal.MustDB(cfg.DatabaseURL, logger)
	defer db.Close()

	if err := internal.Migrate("file://migrations", cfg.DatabaseURL, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	cache := internal.NewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
	engine := internal.NewEngine(internal.NewPgConvocationStore(db))

	var mailer internal.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = internal.NewResendMailer(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.MailFrom)
	}

	r := gin.Default()
	secret := cfg.JWTSecret

	api := r.Group("/api")
	{
		api.POST("/auth/login", internal.Login(db, secret, cfg.CookieSecure))
		api.POST("/auth/logout", internal.Logout())
		api.GET("/me", internal.Auth(secret), internal.Me(db))

		// matches & convocation
		api.GET("/matches", internal.Auth(secret), internal.ListMatches(db))
		api.GET("/matches/next", internal.Auth(secret), internal.NextMatch(db))
		api.GET("/matches/last", internal.Auth(secret), internal.LastMatch(db))
		api.GET("/matches/:id", internal.Auth(secret), internal.GetMatch(db))
		api.GET("/matches/:id/convocation", internal.Auth(secret), internal.GetConvocation(db))
		api.POST("/convocations/:id/respond", internal.Auth(secret), internal.Respond(db, engine))

		// mvp & lineup
		api.GET("/matches/:id/mvp", internal.Auth(secret), internal.MvpResults(db))
		api.POST("/matches/:id/mvp-vote", internal.Auth(secret), internal.VoteMvp(db))
		api.GET("/matches/:id/lineup", internal.Auth(secret), internal.GetLineup(db))

		// roster & stats
		api.GET("/players", internal.Auth(secret), internal.Roster(db, cache))
		api.GET("/players/:id", internal.Auth(secret), internal.PlayerCard(db, cache))
		api.GET("/performance", internal.Auth(secret), internal.MyPerformance(db, cache))
		api.GET("/rankings", internal.Auth(secret), internal.Rankings(db, cache)) // ?metric=goals|assists|mvps|attendance

		// videos / settings / my payments
		api.GET("/videos", internal.Auth(secret), internal.ListVideos(db))
		api.GET("/settings", internal.Auth(secret), internal.GetSettings(db))
		api.GET("/my/payments", internal.Auth(secret), internal.MyPayments(db))

		// admin
		admin := api.Group("/admin", internal.Auth(secret), internal.RequireAdmin())
		{
			admin.GET("/logs", internal.AdminLogs(db))

			admin.POST("/matches", internal.AdminCreateMatch(db))
			admin.PUT("/matches/:id", internal.AdminUpdateMatch(db))
			admin.DELETE("/matches/:id", internal.AdminDeleteMatch(db, cache))

			admin.POST("/convocation/open", internal.AdminOpenConvocation(db, engine))
			admin.POST("/convocations/:id/remind", internal.AdminSendReminder(db, mailer, logger))

			admin.PUT("/matches/:id/lineup", internal.AdminSaveLineup(db))
			admin.PUT("/matches/:id/stats", internal.AdminSaveStats(db, cache))

			admin.POST("/payments/cycles", internal.AdminEnsureCycle(db))
			admin.GET("/payments", internal.AdminListPayments(db)) // ?month=2026-09
			admin.PUT("/payments/:id", internal.AdminSetPayment(db))
			admin.POST("/payments/remind", internal.AdminSendPaymentEmail(db, mailer, logger))

			admin.POST("/players", internal.AdminCreatePlayer(db, cache))
			admin.PUT("/players/:id", internal.AdminUpdatePlayer(db, cache))
			admin.DELETE("/players/:id", internal.AdminDeletePlayer(db, cache))

			admin.POST("/videos", internal.AdminAddVideo(db))
			admin.DELETE("/videos/:id", internal.AdminDeleteVideo(db))

			admin.PUT("/settings", internal.AdminUpdateSettings(db))
		}
	}

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
