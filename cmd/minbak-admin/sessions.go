package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	redisadapter "github.com/minbak/minbak-web/internal/adapters/redis"
	"github.com/minbak/minbak-web/internal/bootstrap"
)

type clearSessionsOptions struct {
	UserID string
	All    bool
	DryRun bool
	Yes    bool
}

func parseClearSessionsFlags(args []string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clearSessionsOptions
	fs.StringVar(&opts.UserID, "user-id", "", "Only delete sessions of this user")
	fs.BoolVar(&opts.All, "all", false, "Delete every session")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Count matching sessions without deleting them")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, err
	}
	opts.UserID = strings.TrimSpace(opts.UserID)
	if (opts.UserID == "") == !opts.All {
		return clearSessionsOptions{}, errors.New("exactly one of --user-id or --all is required")
	}
	return opts, nil
}

func confirmClearSessions(in io.Reader, out io.Writer, opts clearSessionsOptions) error {
	if opts.DryRun || opts.Yes {
		return nil
	}
	target := "ALL users"
	if opts.UserID != "" {
		target = "user " + opts.UserID
	}
	if _, err := fmt.Fprintf(out, "About to delete sessions for %s.\nContinue? [y/N]: ", target); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	resp, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionsFlags(args)
	if err != nil {
		return err
	}
	if confirmErr := confirmClearSessions(cmdCtx.In, cmdCtx.Out, opts); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	store := redisadapter.NewSessionStoreWithOptions(redisadapter.SessionStoreOptions{
		Client: client,
		Prefix: cmdCtx.Config.Redis.SessionPrefix,
	})
	n, err := store.Revoke(ctx, opts.UserID, opts.DryRun)
	if err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	cmdCtx.Logger.Info("clear sessions complete",
		"user_id", opts.UserID,
		"dry_run", opts.DryRun,
		"sessions", n)
	return nil
}
