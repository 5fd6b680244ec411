package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minbak/minbak-web/internal/core"
	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/domain/model"
	"github.com/minbak/minbak-web/internal/ports"
)

// DefaultPassword is used for seeded accounts when none is given.
const DefaultPassword = "minbak-dev-pass"

const listingScanLimit = 200

// UserStore is the account storage used for seeding.
type UserStore interface {
	core.UserRepository
	SetRole(ctx context.Context, id string, role domainauth.Role) (*model.User, error)
}

// Options groups dependencies for Run.
type Options struct {
	Users    UserStore
	Listings core.ListingRepository
	Hasher   ports.PasswordHasher
	Password string       // Optional; defaults to DefaultPassword
	Logger   *slog.Logger // Optional
}

// Result counts what a seeding run created.
type Result struct {
	UsersCreated    int
	ListingsCreated int
}

type accountSeed struct {
	Email string
	Name  string
	Role  domainauth.Role
}

type listingSeed struct {
	Request model.CreateListingRequest
	Status  model.ListingStatus
	Reason  string
}

// Run creates the demo accounts and listings that are missing. Existing rows are left alone,
// so running it twice is harmless.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Users == nil || opts.Listings == nil || opts.Hasher == nil {
		return Result{}, errors.New("devseed: users, listings and hasher are required")
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "devseed")

	var res Result
	hash, err := opts.Hasher.Hash(opts.Password)
	if err != nil {
		return res, fmt.Errorf("hash seed password: %w", err)
	}

	var host *model.User
	for _, acct := range defaultAccounts() {
		u, created, ensureErr := ensureAccount(ctx, opts.Users, acct, hash)
		if ensureErr != nil {
			return res, fmt.Errorf("seed account %s: %w", acct.Email, ensureErr)
		}
		if created {
			res.UsersCreated++
			logger.InfoContext(ctx, "seeded account", "email", u.Email, "role", u.Role)
		}
		if acct.Email == hostEmail {
			host = u
		}
	}

	n, err := seedListings(ctx, opts.Listings, host.ID, logger)
	res.ListingsCreated = n
	if err != nil {
		return res, err
	}
	logger.InfoContext(ctx, "development seed complete",
		"users_created", res.UsersCreated,
		"listings_created", res.ListingsCreated)
	return res, nil
}

const hostEmail = "host@minbak.test"

func defaultAccounts() []accountSeed {
	return []accountSeed{
		{Email: hostEmail, Name: "Demo Host", Role: domainauth.RoleUser},
		{Email: "guest@minbak.test", Name: "Demo Guest", Role: domainauth.RoleUser},
		{Email: "admin@minbak.test", Name: "Demo Admin", Role: domainauth.RoleAdmin},
	}
}

func ensureAccount(
	ctx context.Context,
	users UserStore,
	acct accountSeed,
	passwordHash string,
) (*model.User, bool, error) {
	u, err := users.GetByEmail(ctx, acct.Email)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, domainauth.ErrUserNotFound):
		u, err = users.CreateWithPassword(ctx, &model.RegisterUserRequest{
			Email: acct.Email,
			Name:  acct.Name,
		}, passwordHash)
		if err != nil {
			return nil, false, err
		}
		created = true
	default:
		return nil, false, err
	}

	if u.Role != acct.Role {
		if u, err = users.SetRole(ctx, u.ID, acct.Role); err != nil {
			return nil, created, err
		}
	}
	return u, created, nil
}

func defaultListings() []listingSeed {
	return []listingSeed{
		{
			Request: model.CreateListingRequest{
				Title:         "Hanok stay near Bukchon",
				Description:   "Traditional wooden house with a quiet courtyard.",
				City:          "Seoul",
				Address:       "37 Bukchon-ro 11-gil, Jongno-gu",
				PricePerNight: 120000,
				MaxGuests:     4,
			},
			Status: model.ListingStatusApproved,
		},
		{
			Request: model.CreateListingRequest{
				Title:         "Ocean view room in Haeundae",
				Description:   "Five minutes from the beach.",
				City:          "Busan",
				Address:       "264 Haeundaehaebyeon-ro",
				PricePerNight: 89000,
				MaxGuests:     2,
			},
			Status: model.ListingStatusApproved,
		},
		{
			Request: model.CreateListingRequest{
				Title:         "Tangerine farm cottage",
				City:          "Jeju",
				Address:       "12 Namwon-eup, Seogwipo",
				PricePerNight: 75000,
				MaxGuests:     3,
			},
			Status: model.ListingStatusPending,
		},
		{
			Request: model.CreateListingRequest{
				Title:         "Studio above the market",
				City:          "Jeonju",
				Address:       "Pungnam-dong 3-ga",
				PricePerNight: 40000,
				MaxGuests:     1,
			},
			Status: model.ListingStatusRejected,
			Reason: "Photos of the bathroom are missing.",
		},
	}
}

func seedListings(ctx context.Context, repo core.ListingRepository, hostID string, logger *slog.Logger) (int, error) {
	existing, err := repo.List(ctx, model.ListingListOptions{HostID: &hostID, Limit: listingScanLimit})
	if err != nil {
		return 0, fmt.Errorf("list seeded listings: %w", err)
	}
	have := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		have[l.Title] = struct{}{}
	}

	created := 0
	for _, seed := range defaultListings() {
		if _, ok := have[seed.Request.Title]; ok {
			continue
		}
		req := seed.Request
		l, createErr := repo.Create(ctx, hostID, &req)
		if createErr != nil {
			return created, fmt.Errorf("seed listing %q: %w", seed.Request.Title, createErr)
		}
		created++

		if seed.Status != model.ListingStatusPending {
			params := core.SetListingStatusParams{ID: l.ID, Status: seed.Status}
			if seed.Reason != "" {
				reason := seed.Reason
				params.Reason = &reason
			}
			if _, statusErr := repo.SetStatus(ctx, params); statusErr != nil {
				return created, fmt.Errorf("set status of %q: %w", seed.Request.Title, statusErr)
			}
		}
		logger.InfoContext(ctx, "seeded listing", "title", l.Title, "status", seed.Status)
	}
	return created, nil
}
