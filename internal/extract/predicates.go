package extract

import (
	"regexp"
	"strings"
)

var (
	emailExpr    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	nameCharExpr = regexp.MustCompile(`^[a-zA-Z\s.,'\-]+$`)
	letterExpr   = regexp.MustCompile(`[a-zA-Z]`)
	digitsExpr   = regexp.MustCompile(`^\d+$`)
	shoutExpr    = regexp.MustCompile(`^[A-Z\s]+$`)

	phoneExprs = []*regexp.Regexp{
		regexp.MustCompile(`\(\d{3}\)\s?\d{3}-\d{4}`),
		regexp.MustCompile(`\d{3}[-.]\d{3}[-.]\d{4}`),
		regexp.MustCompile(`\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}`),
	}
)

// validName accepts short human-name-shaped strings and rejects the
// boilerplate that tends to sit next to emails on university pages.
func (e *Extractor) validName(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if len(candidate) < 2 || len(candidate) > 60 {
		return false
	}
	if !letterExpr.MatchString(candidate) || !nameCharExpr.MatchString(candidate) {
		return false
	}
	if digitsExpr.MatchString(candidate) || shoutExpr.MatchString(candidate) {
		return false
	}

	lower := strings.ToLower(candidate)
	for _, deny := range e.tables.NameDenyWords {
		if strings.Contains(lower, deny) {
			return false
		}
	}
	return true
}

// validTitle accepts strings carrying at least one administrative keyword.
func (e *Extractor) validTitle(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if len(candidate) < 3 || len(candidate) > 150 {
		return false
	}
	lower := strings.ToLower(candidate)
	for _, kw := range e.tables.AdminTitles {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// validEmail applies the length, file-extension, and automated-mailbox
// filters to a syntactic email match.
func (e *Extractor) validEmail(email string) bool {
	if len(email) < 5 || len(email) > 100 {
		return false
	}
	lower := strings.ToLower(email)
	for _, ext := range e.tables.FileExtensions {
		if strings.Contains(lower, "."+ext) {
			return false
		}
	}
	for _, marker := range e.tables.MailboxMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// extractEmails returns the deduplicated, filtered emails found in text.
func (e *Extractor) extractEmails(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, match := range emailExpr.FindAllString(text, -1) {
		key := strings.ToLower(match)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if e.validEmail(match) {
			out = append(out, match)
		}
	}
	return out
}

// extractPhones returns phone numbers in common US formats.
func extractPhones(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, expr := range phoneExprs {
		for _, match := range expr.FindAllString(text, -1) {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			out = append(out, match)
		}
	}
	return out
}

func firstPhone(text string) string {
	phones := extractPhones(text)
	if len(phones) == 0 {
		return ""
	}
	return phones[0]
}
