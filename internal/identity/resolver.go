package identity

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/miekg/dns"

	"housingscout/internal/ports"
)

// HostChecker reports whether a hostname resolves at all. Candidates that
// fail this cheap check are skipped before spending an HTTP probe on them.
type HostChecker func(host string) bool

// Resolver turns a free-text institution name into a verified .edu domain.
// An empty result is a valid terminal outcome, not an error.
type Resolver struct {
	search     ports.SearchProvider
	fetcher    ports.Fetcher
	normalizer *Normalizer
	domains    DomainRegistry
	hostCheck  HostChecker
	logger     *slog.Logger
}

// NewResolver wires the search provider and probe client. A nil domains
// registry falls back to the default table; a nil hostCheck uses a live DNS
// lookup against resolverAddr.
func NewResolver(search ports.SearchProvider, fetcher ports.Fetcher, normalizer *Normalizer, domains DomainRegistry, hostCheck HostChecker, resolverAddr string, logger *slog.Logger) *Resolver {
	if domains == nil {
		domains = DefaultDomains()
	}
	if hostCheck == nil {
		hostCheck = dnsHostChecker(resolverAddr)
	}
	return &Resolver{
		search:     search,
		fetcher:    fetcher,
		normalizer: normalizer,
		domains:    domains,
		hostCheck:  hostCheck,
		logger:     logger,
	}
}

// Resolve returns the institution's primary domain, or "" when nothing
// resolves. Network failures along the way degrade to the next strategy and
// finally to ""; they are never propagated.
func (r *Resolver) Resolve(ctx context.Context, name string) string {
	if domain := r.fromSearch(ctx, name); domain != "" {
		return domain
	}
	return r.fromCandidates(ctx, name)
}

// fromSearch extracts .edu hostnames from a "<name> site:.edu" search and
// returns the shortest one. Shortest approximates the primary domain rather
// than a subdomain.
func (r *Resolver) fromSearch(ctx context.Context, name string) string {
	results, err := r.search.Search(ctx, name+" site:.edu")
	if err != nil {
		r.debug("domain search failed", "name", name, "error", err)
		return ""
	}

	seen := map[string]struct{}{}
	var hosts []string
	for _, res := range results {
		host := hostnameOf(res.URL)
		if host == "" || !strings.HasSuffix(host, ".edu") {
			continue
		}
		if _, ok := seen[host]; ok {
			continue
		}
		seen[host] = struct{}{}
		hosts = append(hosts, host)
	}

	if len(hosts) == 0 {
		return ""
	}

	sort.SliceStable(hosts, func(i, j int) bool { return len(hosts[i]) < len(hosts[j]) })
	r.debug("domain resolved from search", "name", name, "domain", hosts[0])
	return hosts[0]
}

// fromCandidates builds an ordered candidate list and probes it. A direct
// registry hit is returned without a live probe.
func (r *Resolver) fromCandidates(ctx context.Context, name string) string {
	lower := strings.ToLower(name)
	canonical := r.normalizer.Normalize(name)

	for known, domain := range r.domains {
		if strings.Contains(canonical, known) || strings.Contains(known, canonical) ||
			strings.Contains(lower, known) {
			r.debug("domain resolved from registry", "name", name, "domain", domain)
			return domain
		}
	}

	candidates := r.synthesizeCandidates(canonical)
	for _, candidate := range candidates {
		if !r.hostCheck(candidate) {
			r.debug("candidate domain does not resolve", "domain", candidate)
			continue
		}
		if _, err := r.fetcher.Get(ctx, "https://"+candidate); err != nil {
			r.debug("candidate domain probe failed", "domain", candidate, "error", err)
			continue
		}
		r.debug("domain resolved from probe", "name", name, "domain", candidate)
		return candidate
	}

	return ""
}

func (r *Resolver) synthesizeCandidates(canonical string) []string {
	var candidates []string

	if rest, ok := strings.CutPrefix(canonical, "university of california "); ok {
		campus := strings.TrimSpace(rest)
		if domain, ok := ucCampusDomains[campus]; ok {
			candidates = append(candidates, domain)
		} else if campus != "" {
			candidates = append(candidates, "uc"+squash(campus)+".edu")
		}
	}

	if rest, ok := cutAnyPrefix(canonical, "california state university ", "cal state "); ok {
		city := squash(rest)
		if city != "" {
			candidates = append(candidates, "csu"+city+".edu", city+".edu")
		}
	}

	words := significantWords(canonical)
	if len(candidates) == 0 && len(words) > 0 {
		candidates = append(candidates,
			strings.Join(words, "")+".edu",
			words[0]+".edu",
			strings.Join(words, "-")+".edu",
		)
		if len(words) > 1 {
			candidates = append(candidates, words[0]+words[len(words)-1]+".edu")
		}
	}

	return candidates
}

func significantWords(canonical string) []string {
	var out []string
	for _, w := range strings.Fields(canonical) {
		if _, ok := genericNameWords[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}

func cutAnyPrefix(s string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(s, p); ok {
			return rest, true
		}
	}
	return "", false
}

func squash(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hostnameOf(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

func dnsHostChecker(resolverAddr string) HostChecker {
	if resolverAddr == "" {
		resolverAddr = "8.8.8.8:53"
	}
	client := &dns.Client{Timeout: 3 * time.Second}
	return func(host string) bool {
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
		resp, _, err := client.Exchange(msg, resolverAddr)
		if err != nil || resp == nil {
			return false
		}
		return len(resp.Answer) > 0
	}
}

func (r *Resolver) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
