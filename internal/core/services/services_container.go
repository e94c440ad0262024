package services

import (
	portsclients "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/clients"
	portsrepo "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/repositories"
	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"
	"github.com/raosunjoy/nexvestxr-backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rateFeed portsclients.RateFeedClient, geoIP portsclients.GeoIPClient) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Currency service carries the supported set; rates and users depend on it.
	container.Currency = NewCurrencyService(repos.CurrencyRepo, cfg.SupportedCurrencies)

	container.Rates = NewRatesService(cfg, rateFeed, geoIP, repos.RateSnapshotRepo)
	container.Classifier = NewClassifierService(cfg)
	container.Property = NewPropertyService(repos.PropertyRepo, container.Classifier)
	container.User = NewUserService(repos.UserRepo, container.Currency, cfg.BaseCurrency, cfg.KYCReviewers)
	container.Investment = NewInvestmentService(
		repos.InvestmentRepo,
		repos.PropertyRepo,
		container.User,
		container.Currency,
		container.Rates,
		cfg.BaseCurrency,
	)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
