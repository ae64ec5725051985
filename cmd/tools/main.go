package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"climate-server/internal/config"
	"climate-server/internal/db"
	"climate-server/internal/logging"
	"climate-server/internal/migrate"
)

const usage = `usage: %s <command> [args]
  migrate          apply pending schema/seed migrations
  status           list migrations and whether they are applied
  seed <file.csv>  import measurements (station,date,prcp,tobs)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	// Tooling is the only writer.
	cfg.ReadOnly = false
	cfg.MaxOpenConns = 1
	slog.SetDefault(logging.New(cfg, "dev", "climate-tools"))

	if err := run(context.Background(), cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, args []string) error {
	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	switch args[0] {
	case "migrate":
		if err := migrate.Run(ctx, conn); err != nil {
			return err
		}
		fmt.Println("migrations applied")
	case "status":
		migrations, err := migrate.Status(ctx, conn)
		if err != nil {
			return err
		}
		for _, m := range migrations {
			state := "pending"
			if m.Applied {
				state = "applied"
			}
			fmt.Printf("%s_%s\t%s\n", m.Version, m.Name, state)
		}
	case "seed":
		if len(args) < 2 {
			return fmt.Errorf("missing csv file")
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := migrate.Run(ctx, conn); err != nil {
			return err
		}
		n, err := migrate.ImportMeasurements(ctx, conn, f)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d measurements\n", n)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}
