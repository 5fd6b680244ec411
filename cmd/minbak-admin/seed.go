package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/minbak/minbak-web/internal/adapters/password"
	"github.com/minbak/minbak-web/internal/bootstrap"
	"github.com/minbak/minbak-web/internal/data"
	"github.com/minbak/minbak-web/internal/devseed"
)

type seedOptions struct {
	Password string
	Force    bool
}

func parseSeedFlags(args []string) (seedOptions, error) {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts seedOptions
	fs.StringVar(&opts.Password, "password", devseed.DefaultPassword, "Password for the seeded accounts")
	fs.BoolVar(&opts.Force, "force", false, "Seed even when APP_ENV is production")
	if err := fs.Parse(args); err != nil {
		return seedOptions{}, err
	}
	if len(opts.Password) < 8 {
		return seedOptions{}, errors.New("--password must be at least 8 characters")
	}
	return opts, nil
}

func runSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseSeedFlags(args)
	if err != nil {
		return err
	}
	if cmdCtx.Config.IsProduction() && !opts.Force {
		return errors.New("refusing to seed demo data in production without --force")
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, userCommandTimeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	res, err := devseed.Run(ctx, devseed.Options{
		Users:    data.NewUserRepo(db),
		Listings: data.NewListingRepo(db),
		Hasher:   password.NewBcryptHasher(cmdCtx.Config.Auth.BcryptCost),
		Password: opts.Password,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmdCtx.Out, "created %d accounts and %d listings\n", res.UsersCreated, res.ListingsCreated)
	return err
}
