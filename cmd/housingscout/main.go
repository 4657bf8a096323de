package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"housingscout/internal/app"
	"housingscout/internal/config"
	"housingscout/internal/infrastructure/storage"
	"housingscout/internal/logging"
	"housingscout/internal/ports"
	"housingscout/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	rescan := flag.Bool("rescan", false, "scrape again even when the institution is already stored")
	flag.Parse()

	out := logger.New("housingscout")

	name := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if name == "" {
		out.Println("usage: housingscout [-rescan] <institution name>")
		os.Exit(2)
	}

	cfg := config.Load()
	slogger := logging.New(cfg.Logging.Level)

	var repo ports.InstitutionRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			slogger.Error("open database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		repo = storage.NewPostgresRepository(db)
	}

	application := app.New(cfg, repo, slogger)

	result, err := application.Run(context.Background(), name, *rescan)
	if err != nil {
		slogger.Error("run failed", "error", err)
		os.Exit(1)
	}

	out.Printf("domain: %s", valueOr(result.ResolvedDomain, "(none)"))
	out.Printf("pages scraped: %d (discovered %d)", len(result.PageOutcomes), len(result.DiscoveredPages))
	for _, o := range result.PageOutcomes {
		if o.Success {
			out.Printf("  ok   %s (%d contacts)", o.URL, o.Count)
		} else {
			out.Printf("  fail %s (%s)", o.URL, o.Error)
		}
	}

	out.Printf("contacts: %d", len(result.Contacts))
	for _, c := range result.Contacts {
		line := c.Email
		if c.Name != "" {
			line = c.Name + " <" + c.Email + ">"
		}
		if c.Title != "" {
			line += ", " + c.Title
		}
		if c.Department != "" {
			line += ", " + c.Department
		}
		out.Printf("  [%3d] %s", c.Score, line)
	}

	if advice := result.Advice(); advice != "" {
		out.Printf("note: %s", advice)
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
