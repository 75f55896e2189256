package router

import (
	"github.com/oksasatya/learnpath-auth/internal/application"
	"github.com/oksasatya/learnpath-auth/internal/container"
	"github.com/oksasatya/learnpath-auth/internal/infrastructure/search"
	handlers "github.com/oksasatya/learnpath-auth/internal/interface/http"
	"github.com/oksasatya/learnpath-auth/internal/router/modules"
)

// BuildAuthService wires the credential service from container singletons.
// Directory indexing and welcome mail are enabled only when their clients
// were configured at startup.
func BuildAuthService() *application.AuthService {
	cfg := container.GetConfig()
	svc := application.NewAuthService(
		container.GetUserRepo(),
		container.GetHasher(),
		container.GetJWT(),
		container.GetBackground(),
		container.GetLogger(),
	)
	if es := container.GetES(); es != nil {
		svc.WithDirectory(search.NewUserDirectory(es, cfg.ESUsersIndex))
	}
	if pub := container.GetRabbitPub(); pub != nil {
		svc.WithWelcomeMail(pub, application.WelcomeMail{
			Enabled:     cfg.MailSendEnabled,
			CompanyName: cfg.CompanyName,
			LoginURL:    cfg.LoginURL,
		})
	}
	return svc
}

func buildLimits() modules.Limits {
	cfg := container.GetConfig()
	l := modules.Limits{
		Logger:          container.GetLogger(),
		LoginPerMin:     cfg.LoginRatePerMin,
		RegisterPerMin:  cfg.RegisterRatePerMin,
		ProtectedPerMin: cfg.ProtectedRatePerMin,
		BypassPrivate:   cfg.RateLimitBypassLAN,
	}
	if cfg.RateLimitEnabled {
		l.RDB = container.GetRedis()
	}
	return l
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svc := BuildAuthService()
	limits := buildLimits()

	r.Add(modules.NewDebugModule(handlers.NewHealthHandler(), cfg.DebugMetricsEnabled))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc, logger), container.GetJWT(), limits))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc, logger), container.GetJWT(), limits))
}
