package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/minbak/minbak-web/internal/bootstrap"
	"github.com/minbak/minbak-web/internal/data"
	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/domain/model"
)

const userCommandTimeout = 30 * time.Second

type userSelector struct {
	Email string
	ID    string
}

func (s *userSelector) register(fs *flag.FlagSet) {
	fs.StringVar(&s.Email, "email", "", "Account email")
	fs.StringVar(&s.ID, "id", "", "Account id")
}

func (s *userSelector) validate() error {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.ID = strings.TrimSpace(s.ID)
	if (s.Email == "") == (s.ID == "") {
		return errors.New("exactly one of --email or --id is required")
	}
	return nil
}

type userLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

func (s userSelector) find(ctx context.Context, repo userLookup) (*model.User, error) {
	if s.ID != "" {
		return repo.GetByID(ctx, s.ID)
	}
	return repo.GetByEmail(ctx, s.Email)
}

type setRoleOptions struct {
	userSelector
	Role domainauth.Role
}

func parseSetRoleFlags(args []string) (setRoleOptions, error) {
	fs := flag.NewFlagSet("set-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts setRoleOptions
	opts.register(fs)
	role := fs.String("role", "", "Role to assign: admin or user")

	if err := fs.Parse(args); err != nil {
		return setRoleOptions{}, err
	}
	if err := opts.validate(); err != nil {
		return setRoleOptions{}, err
	}
	switch r := domainauth.Role(strings.ToLower(strings.TrimSpace(*role))); r {
	case domainauth.RoleAdmin, domainauth.RoleUser:
		opts.Role = r
	default:
		return setRoleOptions{}, fmt.Errorf("--role must be %q or %q", domainauth.RoleAdmin, domainauth.RoleUser)
	}
	return opts, nil
}

func parseShowUserFlags(args []string) (userSelector, error) {
	fs := flag.NewFlagSet("show-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var sel userSelector
	sel.register(fs)
	if err := fs.Parse(args); err != nil {
		return userSelector{}, err
	}
	if err := sel.validate(); err != nil {
		return userSelector{}, err
	}
	return sel, nil
}

func withUserRepo(cmdCtx *commandContext, fn func(ctx context.Context, repo *data.UserRepo) error) error {
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

	return fn(ctx, data.NewUserRepo(db))
}

func runShowUser(cmdCtx *commandContext, args []string) error {
	sel, err := parseShowUserFlags(args)
	if err != nil {
		return err
	}
	return withUserRepo(cmdCtx, func(ctx context.Context, repo *data.UserRepo) error {
		u, err := sel.find(ctx, repo)
		if err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		return printUser(cmdCtx.Out, u)
	})
}

func runSetRole(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetRoleFlags(args)
	if err != nil {
		return err
	}
	return withUserRepo(cmdCtx, func(ctx context.Context, repo *data.UserRepo) error {
		u, err := opts.find(ctx, repo)
		if err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		if u.Role == opts.Role {
			cmdCtx.Logger.Info("role unchanged", "user_id", u.ID, "role", u.Role)
			return printUser(cmdCtx.Out, u)
		}
		updated, err := repo.SetRole(ctx, u.ID, opts.Role)
		if err != nil {
			return fmt.Errorf("set role: %w", err)
		}
		cmdCtx.Logger.Info("role updated", "user_id", u.ID, "from", u.Role, "to", updated.Role)
		return printUser(cmdCtx.Out, updated)
	})
}

func printUser(w io.Writer, u *model.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	login := "external"
	if u.PasswordHash != nil {
		login = "password"
	}
	rows := [][2]string{
		{"ID", u.ID},
		{"Email", u.Email},
		{"Name", u.Name},
		{"Role", string(u.Role)},
		{"Login", login},
		{"Created", u.CreatedAt.UTC().Format(time.RFC3339)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
