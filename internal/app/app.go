package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"housingscout/internal/config"
	"housingscout/internal/discovery"
	"housingscout/internal/domain"
	"housingscout/internal/engine"
	"housingscout/internal/extract"
	"housingscout/internal/identity"
	"housingscout/internal/infrastructure/fetch"
	"housingscout/internal/infrastructure/search"
	"housingscout/internal/logging"
	"housingscout/internal/ports"
	"housingscout/internal/score"
)

// Application wires configuration to the discovery engine and the
// persistence boundary.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	normalizer *identity.Normalizer
	engine     *engine.Engine
	repo       ports.InstitutionRepository
}

// New builds a runnable application. repo may be nil; the run then
// skips persistence entirely.
func New(cfg config.Config, repo ports.InstitutionRepository, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	fetcher := fetch.NewClient(cfg.Fetch.UserAgent, cfg.Fetch.Timeout(), cfg.Fetch.MaxRedirects)
	searcher := search.NewDuckDuckGo(cfg.Search.BaseURL, cfg.Fetch.UserAgent, nil, baseLogger.With("component", "search"))
	normalizer := identity.NewNormalizer(nil)

	resolver := identity.NewResolver(
		searcher, fetcher, normalizer,
		nil, nil, cfg.Probe.DNSResolverAddr,
		baseLogger.With("component", "identity"),
	)
	discoverer := discovery.New(
		searcher, fetcher, discovery.DefaultTables(),
		discovery.Options{
			BatchSize:  cfg.Probe.BatchSize,
			BatchDelay: cfg.Probe.BatchDelay(),
			QueryDelay: cfg.Search.QueryDelay(),
		},
		baseLogger.With("component", "discovery"),
	)
	extractor := extract.New(extract.DefaultTables(), baseLogger)
	ranker := score.New(baseLogger)

	eng := engine.New(
		resolver, discoverer, fetcher, extractor, ranker,
		engine.Options{RunBudget: cfg.Budget.Run(), PageBudget: cfg.Budget.Page()},
		baseLogger,
	)

	return &Application{
		cfg:        cfg,
		logger:     baseLogger.With("component", "app"),
		normalizer: normalizer,
		engine:     eng,
		repo:       repo,
	}
}

// Run discovers housing contacts for one institution. A previously
// stored institution returns its saved contacts without scraping
// unless rescan is set; a rescan only reports and stores contacts not
// seen before. Persistence failures abort the run.
func (a *Application) Run(ctx context.Context, rawName string, rescan bool) (domain.RunResult, error) {
	canonical := a.normalizer.Normalize(rawName)
	variants := a.normalizer.Variants(rawName)
	a.logger.Info("starting run", "institution", rawName, "canonical", canonical)

	var inst *domain.Institution
	known := engine.KnownContacts{}
	if a.repo != nil {
		found, err := a.repo.FindInstitution(ctx, variants)
		if err != nil {
			return domain.RunResult{}, fmt.Errorf("find institution: %w", err)
		}
		inst = found

		if inst != nil {
			stored, err := a.repo.ListExistingContacts(ctx, inst.ID)
			if err != nil {
				return domain.RunResult{}, fmt.Errorf("list contacts: %w", err)
			}
			if len(stored) > 0 && !rescan {
				a.logger.Info("institution already scanned", "institution", inst.Name, "contacts", len(stored))
				return domain.RunResult{
					ResolvedDomain: inst.Website,
					Contacts:       stored,
				}, nil
			}
			known = knownFrom(stored)
		}
	}

	result, err := a.engine.Run(ctx, canonical, known)
	if err != nil {
		return result, err
	}

	if a.repo == nil {
		return result, nil
	}

	if inst == nil {
		created, err := a.repo.CreateInstitution(ctx, rawName, result.ResolvedDomain, result.DiscoveredPages)
		if err != nil {
			return result, fmt.Errorf("create institution: %w", err)
		}
		inst = &created
	}
	if len(result.Contacts) > 0 {
		if err := a.repo.InsertContacts(ctx, inst.ID, result.Contacts); err != nil {
			return result, fmt.Errorf("insert contacts: %w", err)
		}
	}
	return result, nil
}

func knownFrom(stored []domain.ScoredContact) engine.KnownContacts {
	known := engine.KnownContacts{
		Emails: make(map[string]struct{}, len(stored)),
		Names:  make(map[string]struct{}, len(stored)),
	}
	for _, c := range stored {
		if c.Email != "" && !c.IsContactForm() {
			known.Emails[strings.ToLower(c.Email)] = struct{}{}
		}
		if key := score.NormalizeKey(c.Name); key != "" {
			known.Names[key] = struct{}{}
		}
	}
	return known
}
