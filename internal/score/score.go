package score

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"housingscout/internal/domain"
)

// Contacts scoring at or below this value are discarded as noise.
const dropThreshold = -20

// At most this many contact-form placeholders survive deduplication.
const maxContactForms = 3

const contactFormScore = 8

// Scorer ranks raw contacts by how likely they are to be a reachable
// housing staff member and collapses duplicates across pages.
type Scorer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{logger: logger.With("component", "score")}
}

// Score computes the relevance of a single contact. Contact-form
// placeholders get a fixed low positive score so they rank behind any
// real person but still surface.
func (s *Scorer) Score(c domain.RawContact) int {
	if c.IsContactForm() {
		return contactFormScore
	}

	score := 0
	email := strings.ToLower(c.Email)
	title := strings.ToLower(c.Title)
	name := strings.TrimSpace(c.Name)

	if strings.HasSuffix(emailDomain(email), ".edu") {
		score += 15
	}
	if containsAny(email, "housing", "residential", "hdh") {
		score += 25
	}
	if containsAny(email, "residence", "dorm") {
		score += 20
	}
	if containsAny(email, "staff", "admin", "office") {
		score += 15
	}

	switch {
	case containsAny(title, "assistant director", "associate director", "deputy"):
		score += 22
	case containsAny(title, "director", "coordinator", "manager", "administrator"):
		score += 25
	case containsAny(title, "assistant", "associate", "specialist", "advisor"):
		score += 15
	}
	if containsAny(title, "housing", "residence", "residential", "dorm") {
		score += 30
	}
	if containsAny(title, "dean", "vice") {
		score += 20
	}
	if containsAny(title, "community", "program") {
		score += 10
	}
	if containsAny(title, "student life", "student services") {
		score += 15
	}

	words := len(strings.Fields(name))
	if words >= 2 {
		score += 20
	}
	if words >= 2 && words <= 4 {
		score += 10
	}
	if len(name) < 5 {
		score -= 25
	}
	if junkName(name) {
		score -= 100
	}

	return score
}

// Rank scores every contact, drops those at or below the noise
// threshold, and returns the rest sorted best first. The sort is
// stable so extraction order breaks ties.
func (s *Scorer) Rank(contacts []domain.RawContact) []domain.ScoredContact {
	scored := make([]domain.ScoredContact, 0, len(contacts))
	dropped := 0
	for _, c := range contacts {
		sc := s.Score(c)
		if sc <= dropThreshold {
			dropped++
			continue
		}
		scored = append(scored, domain.ScoredContact{RawContact: c, Score: sc})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if dropped > 0 {
		s.logger.Debug("dropped low-relevance contacts", "count", dropped)
	}
	return scored
}

// Deduplicate collapses repeat contacts in a ranked slice and filters
// out contacts already known for the institution. Ranking order is
// preserved, so the best-scored record of each person survives.
func (s *Scorer) Deduplicate(ranked []domain.ScoredContact, knownEmails, knownNames map[string]struct{}) []domain.ScoredContact {
	seenEmails := make(map[string]struct{})
	seenCombined := make(map[string]struct{})
	seenForms := make(map[string]struct{})
	var keptNames []nameRecord

	out := make([]domain.ScoredContact, 0, len(ranked))
	for _, c := range ranked {
		emailKey := strings.ToLower(c.Email)
		nameKey := NormalizeKey(c.Name)

		if c.IsContactForm() {
			formKey := strings.ToLower(c.SourceURL)
			if _, ok := seenForms[formKey]; ok || len(seenForms) >= maxContactForms {
				continue
			}
			seenForms[formKey] = struct{}{}
			out = append(out, c)
			continue
		}

		if emailKey != "" {
			if _, ok := knownEmails[emailKey]; ok {
				continue
			}
		}
		if nameKey != "" {
			if _, ok := knownNames[nameKey]; ok {
				continue
			}
		}

		// Email-less entries fall through to the name keys; a shared
		// empty email must not collapse distinct people.
		if emailKey != "" {
			if _, ok := seenEmails[emailKey]; ok {
				continue
			}
		}
		combined := emailKey + "|" + nameKey
		if _, ok := seenCombined[combined]; ok {
			continue
		}
		if nameKey != "" && nearDuplicateName(keptNames, nameKey, emailDomain(emailKey)) {
			continue
		}

		if emailKey != "" {
			seenEmails[emailKey] = struct{}{}
		}
		seenCombined[combined] = struct{}{}
		if nameKey != "" {
			keptNames = append(keptNames, nameRecord{name: nameKey, domain: emailDomain(emailKey)})
		}
		out = append(out, c)
	}
	return out
}

type nameRecord struct {
	name   string
	domain string
}

// nearDuplicateName reports whether a name within edit distance 2 of
// an already kept name exists at the same email domain. Catches the
// same person listed with a typo or middle initial on another page.
func nearDuplicateName(kept []nameRecord, nameKey, dom string) bool {
	for _, rec := range kept {
		if rec.domain != dom {
			continue
		}
		if levenshtein.ComputeDistance(rec.name, nameKey) <= 2 {
			return true
		}
	}
	return false
}

// NormalizeKey lowercases a name and strips everything but letters,
// digits, and single spaces.
func NormalizeKey(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func emailDomain(email string) string {
	if idx := strings.LastIndex(email, "@"); idx >= 0 {
		return strings.ToLower(email[idx+1:])
	}
	return ""
}

func junkName(name string) bool {
	if name == "" {
		return false
	}
	trimmed := strings.TrimSpace(name)
	allDigits := true
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		return true
	}
	lower := strings.ToLower(trimmed)
	return containsAny(lower, "copyright", "all rights", "equal housing", "lorem ipsum", "@")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
