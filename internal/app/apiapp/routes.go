package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/kana-2024/influmojo-backend/internal/services/auth"
	creatorssvc "github.com/kana-2024/influmojo-backend/internal/services/creators"
	mediasvc "github.com/kana-2024/influmojo-backend/internal/services/media"
	verificationsvc "github.com/kana-2024/influmojo-backend/internal/services/verification"
	"github.com/kana-2024/influmojo-backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService         *authsvc.Service
	VerificationService *verificationsvc.Service
	CreatorsService     *creatorssvc.Service
	MediaService        *mediasvc.Service
	Logger              *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.VerificationService)
	profileHandler := handlers.NewProfileHandler(deps.CreatorsService, deps.MediaService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Handle)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/google-mobile", authHandler.GoogleMobile)
			r.Post("/send-phone-verification-code", authHandler.SendPhoneCode)
			r.Post("/verify-phone-code", authHandler.VerifyPhoneCode)
			r.With(authMW).Post("/update-name", authHandler.UpdateName)
			r.With(authMW).Get("/profile", authHandler.Profile)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/update-basic-info", profileHandler.UpdateBasicInfo)
			r.Post("/update-preferences", profileHandler.UpdatePreferences)
			r.Post("/create-package", profileHandler.CreatePackage)
			r.Post("/create-portfolio", profileHandler.CreatePortfolio)
			r.Post("/submit-kyc", profileHandler.SubmitKYC)
			r.Post("/portfolio-upload-url", profileHandler.PortfolioUploadURL)
			r.Get("/profile", profileHandler.Profile)
		})
	})
}
