// Command bioctl performs operator tasks against the database: minting invite
// codes and granting or removing admin access.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/hongminglow/void-bio-be/internal/admin"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage/postgres"
)

type cliEnv struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

type options struct {
	invite  int
	promote string
	demote  string
}

// operator is the slice of the admin service the CLI drives.
type operator interface {
	GenerateInvite(ctx context.Context, createdBy uuid.UUID, maxUses int) (admin.Invite, error)
	SetAdminByUsername(ctx context.Context, username string, isAdmin bool) (models.Profile, error)
}

func main() {
	_ = godotenv.Load()

	var opts options
	var dbURL string
	flag.IntVar(&opts.invite, "invite", 0, "generate an invite code with this many uses")
	flag.StringVar(&opts.promote, "promote", "", "grant admin access to this username")
	flag.StringVar(&opts.demote, "demote", "", "remove admin access from this username")
	flag.StringVar(&dbURL, "database-url", "", "postgres connection string (default: DATABASE_URL)")
	flag.Parse()

	if dbURL == "" {
		var e cliEnv
		if err := env.Parse(&e); err != nil {
			fail(err)
		}
		dbURL = e.DatabaseURL
	}
	if dbURL == "" {
		fail(errors.New("DATABASE_URL or -database-url is required"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := postgres.NewStore(ctx, dbURL)
	if err != nil {
		fail(err)
	}
	defer store.Close()

	if err := run(ctx, admin.NewService(store, admin.Options{}), opts, os.Stdout); err != nil {
		store.Close()
		fail(err)
	}
}

func run(ctx context.Context, ops operator, opts options, out io.Writer) error {
	if opts.invite == 0 && opts.promote == "" && opts.demote == "" {
		return errors.New("nothing to do: pass -invite, -promote, or -demote")
	}
	if opts.promote != "" && opts.promote == opts.demote {
		return fmt.Errorf("cannot promote and demote %q at once", opts.promote)
	}
	if opts.invite != 0 {
		created, err := ops.GenerateInvite(ctx, uuid.Nil, opts.invite)
		if err != nil {
			return fmt.Errorf("generate invite: %w", err)
		}
		fmt.Fprintf(out, "invite %s (%d uses)\n", created.Code, created.MaxUses)
	}
	if opts.promote != "" {
		profile, err := ops.SetAdminByUsername(ctx, opts.promote, true)
		if err != nil {
			return fmt.Errorf("promote %s: %w", opts.promote, err)
		}
		fmt.Fprintf(out, "%s is now an admin\n", profile.Username)
	}
	if opts.demote != "" {
		profile, err := ops.SetAdminByUsername(ctx, opts.demote, false)
		if err != nil {
			return fmt.Errorf("demote %s: %w", opts.demote, err)
		}
		fmt.Fprintf(out, "%s is no longer an admin\n", profile.Username)
	}
	return nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
