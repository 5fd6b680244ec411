package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/minbak/minbak-web/config"
	"github.com/minbak/minbak-web/internal/data"
	"github.com/minbak/minbak-web/internal/i18n"
	"github.com/minbak/minbak-web/internal/service"
)

// ServiceContainer holds every service the HTTP layer depends on.
type ServiceContainer struct {
	Auth       AuthComponents
	Listings   *service.ListingService
	Bookings   *service.BookingService
	Messages   *service.MessageService
	Users      *service.UserService
	Translator *i18n.Translator
}

// ServiceDeps contains the infrastructure needed to build services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

type serviceRepositories struct {
	users    *data.UserRepo
	listings *data.ListingRepo
	bookings *data.BookingRepo
	messages *data.MessageRepo
}

func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		users:    data.NewUserRepo(db),
		listings: data.NewListingRepo(db),
		bookings: data.NewBookingRepo(db),
		messages: data.NewMessageRepo(db),
	}
}

// NewServices builds the repositories, the auth components and the domain services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	repos := buildRepositories(deps.DB)

	auth, err := BuildAuth(AuthConfig{
		Auth:        cfg.Auth,
		RedisPrefix: cfg.Redis.SessionPrefix,
		RedisClient: deps.RedisClient,
		Users:       repos.users,
		DevBypass:   cfg.DevBypassEnabled(logger),
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	tr, err := i18n.LoadDefault()
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("load translations: %w", err)
	}

	return ServiceContainer{
		Auth: auth,
		Listings: service.NewListingService(service.ListingServiceOptions{
			Repo:   repos.listings,
			Logger: logger,
		}),
		Bookings: service.NewBookingService(service.BookingServiceOptions{
			Repo:   repos.bookings,
			Logger: logger,
		}),
		Messages: service.NewMessageService(service.MessageServiceOptions{
			Messages: repos.messages,
			Bookings: repos.bookings,
		}),
		Users:      service.NewUserService(service.UserServiceOptions{Repo: repos.users}),
		Translator: tr,
	}, nil
}
