package extract

import (
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"housingscout/internal/domain"
)

const defaultTitle = "Housing Staff"

var (
	structuredSelector = "[itemscope][itemtype*='Person'], [data-person], [data-staff], [data-contact], .vcard, .h-card, .staff-member, .directory-entry, .people-item"

	buildingPathExpr = regexp.MustCompile(`([a-z][\w]*(?:-[\w]+)*)[-_](hall|house|court|tower|apartment|apartments|complex|village|commons)(?:\b|/|$)`)
	rolePatternName  = regexp.MustCompile(`[A-Z][a-z]+(?:\s[A-Z][a-z]+)+`)
	mailtoExpr       = regexp.MustCompile(`^mailto:`)
	tagExpr          = regexp.MustCompile(`<[^>]*>`)
)

type strategy struct {
	name string
	run  func(doc *goquery.Document) []domain.RawContact
}

// Extractor pulls staff contacts out of a fetched page using a fixed
// ordering of extraction strategies.
type Extractor struct {
	tables Tables
	logger *slog.Logger
}

func New(tables Tables, logger *slog.Logger) *Extractor {
	if len(tables.AdminTitles) == 0 {
		tables = DefaultTables()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		tables: tables,
		logger: logger.With("component", "extract"),
	}
}

// Extract runs every strategy against the document and returns the
// contacts found, deduplicated by email within the page. A page with a
// contact form but no extractable emails yields a single placeholder
// contact so the page still surfaces as a lead.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) []domain.RawContact {
	department := e.LocationContext(pageURL)
	now := time.Now()

	seenEmails := make(map[string]struct{})
	var contacts []domain.RawContact

	strategies := []strategy{
		{name: "structured", run: e.fromStructured},
		{name: "table", run: e.fromTables},
		{name: "rolepattern", run: e.fromRolePatterns},
		{name: "proximity", run: e.fromProximity},
	}

	for _, s := range strategies {
		found := s.run(doc)
		added := 0
		for _, c := range found {
			key := strings.ToLower(c.Email)
			if _, ok := seenEmails[key]; ok {
				continue
			}
			seenEmails[key] = struct{}{}

			c.SourceURL = pageURL
			c.ExtractedAt = now
			if c.Department == "" {
				c.Department = department
			}
			if c.Title == "" {
				c.Title = defaultTitle
			}
			contacts = append(contacts, c)
			added++
		}
		if added > 0 {
			e.logger.Debug("strategy extracted contacts", "strategy", s.name, "count", added, "url", pageURL)
		}
	}

	if len(contacts) == 0 && hasContactForm(doc) {
		contacts = append(contacts, domain.RawContact{
			Name:        "Housing Office",
			Title:       "Contact via form",
			Email:       domain.ContactFormEmail,
			Department:  department,
			SourceURL:   pageURL,
			ExtractedAt: now,
		})
		e.logger.Debug("contact form fallback", "url", pageURL)
	}

	return contacts
}

// fromStructured reads microdata Person blocks and common directory
// card markup where name, title, and email are individually tagged.
func (e *Extractor) fromStructured(doc *goquery.Document) []domain.RawContact {
	var out []domain.RawContact
	doc.Find(structuredSelector).Each(func(_ int, block *goquery.Selection) {
		emails := e.blockEmails(block)
		if len(emails) == 0 {
			return
		}

		name := strings.TrimSpace(block.Find(`[itemprop='name'], .fn, .p-name, .name`).First().Text())
		title := strings.TrimSpace(block.Find(`[itemprop='jobTitle'], .title, .p-job-title, .position, .role`).First().Text())

		if name == "" || !e.validName(name) {
			name = e.firstValidName(blockLines(block))
		}
		if title != "" && !e.validTitle(title) {
			title = ""
		}
		if title == "" {
			title = e.firstValidTitle(blockLines(block))
		}

		out = append(out, domain.RawContact{
			Name:  name,
			Title: title,
			Email: emails[0],
			Phone: firstPhone(block.Text()),
		})
	})
	return out
}

// fromTables treats each table row with an email cell as one staff
// record. The name is the first name-shaped cell and the title the
// first title-shaped cell anywhere in the row.
func (e *Extractor) fromTables(doc *goquery.Document) []domain.RawContact {
	var out []domain.RawContact
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) < 2 {
			return
		}

		emails := e.extractEmails(strings.Join(cells, " "))
		if hrefs := e.blockEmails(row); len(emails) == 0 {
			emails = hrefs
		}
		if len(emails) == 0 {
			return
		}

		var name, title string
		for _, cell := range cells {
			if strings.Contains(cell, "@") {
				continue
			}
			if name == "" && e.validName(cell) {
				name = cell
				continue
			}
			if title == "" && e.validTitle(cell) {
				title = cell
			}
		}

		out = append(out, domain.RawContact{
			Name:  name,
			Title: title,
			Email: emails[0],
			Phone: firstPhone(strings.Join(cells, " ")),
		})
	})
	return out
}

// fromProximity scans the page text line by line and pairs each email
// with the nearest name above it. Pages with no staff signal at all
// are skipped to avoid harvesting footers and mailing lists.
func (e *Extractor) fromProximity(doc *goquery.Document) []domain.RawContact {
	if !e.staffLike(doc) {
		return nil
	}

	lines := pageLines(doc)
	var out []domain.RawContact
	for i, line := range lines {
		emails := e.extractEmails(line)
		if len(emails) == 0 {
			continue
		}

		var name string
		nameIdx := -1
		for j := max(0, i-4); j <= min(len(lines)-1, i+4); j++ {
			if j == i {
				continue
			}
			candidate := strings.TrimLeft(lines[j], "-•*\t ")
			if strings.Contains(candidate, "@") {
				continue
			}
			if e.validName(candidate) {
				name = candidate
				nameIdx = j
				break
			}
		}

		// The title window centers on the name when one was found;
		// listings put the role next to the person, not the address.
		center := i
		if nameIdx >= 0 {
			center = nameIdx
		}
		var title string
		for j := max(0, center-2); j <= min(len(lines)-1, center+2); j++ {
			if j == nameIdx || j == i {
				continue
			}
			if e.validTitle(lines[j]) {
				title = lines[j]
				break
			}
		}

		for _, email := range emails {
			out = append(out, domain.RawContact{
				Name:  name,
				Title: title,
				Email: email,
				Phone: firstPhone(line),
			})
		}
	}
	return out
}

// fromRolePatterns handles listings written as "Hall Director: Jane
// Doe (jdoe@school.edu)" where the role label precedes the person.
func (e *Extractor) fromRolePatterns(doc *goquery.Document) []domain.RawContact {
	lines := pageLines(doc)
	var out []domain.RawContact
	for i, line := range lines {
		lower := strings.ToLower(line)
		var role string
		rest := ""
		for _, pattern := range e.tables.RolePatterns {
			if idx := strings.Index(lower, pattern); idx >= 0 {
				role = strings.TrimSuffix(pattern, ":")
				rest = line[idx+len(pattern):]
				break
			}
		}
		if role == "" {
			continue
		}

		window := rest
		if i+1 < len(lines) {
			window += "\n" + lines[i+1]
		}

		emails := e.extractEmails(window)
		if len(emails) == 0 {
			continue
		}
		name := rolePatternName.FindString(window)
		if !e.validName(name) {
			name = ""
		}

		out = append(out, domain.RawContact{
			Name:  name,
			Title: titleCase(role),
			Email: emails[0],
			Phone: firstPhone(window),
		})
	}
	return out
}

// LocationContext derives a department label from the page URL so
// contacts from building or cohort pages carry where they were found.
func (e *Extractor) LocationContext(pageURL string) string {
	lower := strings.ToLower(pageURL)

	if m := buildingPathExpr.FindStringSubmatch(lower); m != nil {
		building := strings.ReplaceAll(m[1], "-", " ")
		return titleCase(building + " " + m[2])
	}

	switch {
	case strings.Contains(lower, "graduate"):
		return "Graduate Housing"
	case strings.Contains(lower, "family"):
		return "Family Housing"
	case strings.Contains(lower, "first-year"), strings.Contains(lower, "freshman"):
		return "First-Year Housing"
	case strings.Contains(lower, "apartment"):
		return "Apartment Housing"
	}
	return "Housing"
}

// staffLike reports whether the page carries any directory signal:
// housing vocabulary, an administrative title, an email address, or
// staff-listing markup.
func (e *Extractor) staffLike(doc *goquery.Document) bool {
	text := strings.ToLower(doc.Text())
	for _, kw := range e.tables.HousingKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	for _, kw := range e.tables.AdminTitles {
		if strings.Contains(text, kw) {
			return true
		}
	}
	if strings.Contains(text, "@") {
		return true
	}

	found := false
	doc.Find("[class], [id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		attrs := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", ""))
		for _, indicator := range e.tables.StaffIndicators {
			if strings.Contains(attrs, indicator) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func (e *Extractor) blockEmails(block *goquery.Selection) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(email string) {
		key := strings.ToLower(email)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, email)
	}

	block.Find("a[href^='mailto:']").Each(func(_ int, a *goquery.Selection) {
		href := mailtoExpr.ReplaceAllString(a.AttrOr("href", ""), "")
		if idx := strings.Index(href, "?"); idx >= 0 {
			href = href[:idx]
		}
		if e.validEmail(href) && emailExpr.MatchString(href) {
			add(href)
		}
	})
	for _, email := range e.extractEmails(block.Text()) {
		add(email)
	}
	return out
}

func (e *Extractor) firstValidName(lines []string) string {
	for _, line := range lines {
		if e.validName(line) {
			return line
		}
	}
	return ""
}

func (e *Extractor) firstValidTitle(lines []string) string {
	for _, line := range lines {
		if e.validTitle(line) {
			return line
		}
	}
	return ""
}

func hasContactForm(doc *goquery.Document) bool {
	found := false
	doc.Find("form").EachWithBreak(func(_ int, form *goquery.Selection) bool {
		if form.Find("input[type='email'], input[name*='email'], textarea, input[type='submit'], button[type='submit']").Length() > 0 {
			found = true
			return false
		}
		action := strings.ToLower(form.AttrOr("action", ""))
		text := strings.ToLower(form.Text())
		if strings.Contains(action, "contact") || strings.Contains(text, "submit") || strings.Contains(text, "contact form") {
			found = true
			return false
		}
		return true
	})
	return found
}

// pageLines flattens the body into text lines with one element's text
// per line. Splitting on tags rather than doc.Text() keeps adjacent
// cells from fusing into a single token.
func pageLines(doc *goquery.Document) []string {
	raw, err := doc.Find("body").First().Html()
	if err != nil || raw == "" {
		raw = doc.Text()
	}
	return splitMarkup(raw)
}

func blockLines(block *goquery.Selection) []string {
	raw, err := block.Html()
	if err != nil || raw == "" {
		raw = block.Text()
	}
	return splitMarkup(raw)
}

func splitMarkup(markup string) []string {
	text := html.UnescapeString(tagExpr.ReplaceAllString(markup, "\n"))
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
