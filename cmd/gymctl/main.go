// Command gymctl runs operator tasks against the gym database.
//
// Usage:
//
//	gymctl promote <email>   grant the admin role
//	gymctl expire            run one membership expiry sweep
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"princip-gym/internal/adapters/cache"
	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/config"
	"princip-gym/internal/core/services"
	"princip-gym/internal/pkg/logger"
	"princip-gym/internal/pkg/mailer"

	"go.uber.org/zap"
)

func main() {
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	zlog, err := logger.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, zlog, flag.Args()); err != nil {
		zlog.Error("command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger, args []string) error {
	db, err := config.ConnectDatabase(cfg, zlog)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	svc := services.NewContainer(db, cfg, cache.NoopStore{}, mailer.New(mailer.Config(cfg.SMTP), zlog), zlog)

	switch args[0] {
	case "promote":
		if len(args) != 2 {
			return fmt.Errorf("usage: gymctl promote <email>")
		}
		user, err := svc.User.Promote(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s) is now %s\n", user.Email, user.ID, user.Role)
	case "expire":
		result, err := svc.Membership.BulkExpireSweep(ctx, services.TriggerCLI)
		if err != nil {
			return err
		}
		fmt.Printf("deactivated %d memberships\n", result.DeactivatedCount)
		for _, ref := range result.RecentlyExpired {
			fmt.Printf("  %s  %s  expired %s\n", ref.UserID, ref.Email, ref.ExpiresAt.Format(time.RFC3339))
		}
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: gymctl [-timeout d] <command> [args]\n\ncommands:\n")
	fmt.Fprintf(flag.CommandLine.Output(), "  promote <email>  grant the admin role\n")
	fmt.Fprintf(flag.CommandLine.Output(), "  expire           run one membership expiry sweep\n")
}
