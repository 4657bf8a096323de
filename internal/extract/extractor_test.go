package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"housingscout/internal/domain"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestExtractFromTableRows(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<h1>Housing Staff Directory</h1>
<table>
<tr><th>Name</th><th>Title</th><th>Email</th></tr>
<tr><td>Jane Doe</td><td>Director of Housing</td><td>jdoe@college.edu</td></tr>
<tr><td>Bob Lee</td><td>Residence Coordinator</td><td>blee@college.edu</td></tr>
</table>
</body></html>`

	e := New(DefaultTables(), nil)
	contacts := e.Extract(docFromHTML(t, html), "https://college.edu/housing/staff")

	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d: %+v", len(contacts), contacts)
	}
	if contacts[0].Name != "Jane Doe" || contacts[0].Email != "jdoe@college.edu" {
		t.Errorf("first contact = %+v", contacts[0])
	}
	if contacts[0].Title != "Director of Housing" {
		t.Errorf("first title = %q", contacts[0].Title)
	}
	if contacts[1].Name != "Bob Lee" || contacts[1].Email != "blee@college.edu" {
		t.Errorf("second contact = %+v", contacts[1])
	}
	for _, c := range contacts {
		if c.SourceURL != "https://college.edu/housing/staff" {
			t.Errorf("source url = %q", c.SourceURL)
		}
		if c.ExtractedAt.IsZero() {
			t.Error("extracted-at not stamped")
		}
	}
}

func TestExtractFromStructuredMarkup(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<div class="vcard">
<span class="fn">Maria Santos</span>
<span class="title">Assistant Director of Residential Life</span>
<a href="mailto:msantos@college.edu?subject=hi">Email Maria</a>
<span>(555) 123-4567</span>
</div>
</body></html>`

	e := New(DefaultTables(), nil)
	contacts := e.Extract(docFromHTML(t, html), "https://college.edu/reslife/staff")

	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d: %+v", len(contacts), contacts)
	}
	c := contacts[0]
	if c.Name != "Maria Santos" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Title != "Assistant Director of Residential Life" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Email != "msantos@college.edu" {
		t.Errorf("email = %q", c.Email)
	}
	if c.Phone != "(555) 123-4567" {
		t.Errorf("phone = %q", c.Phone)
	}
}

func TestExtractByProximity(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<p>Residential Life Team</p>
<p>Alice Wong</p>
<p>Housing Coordinator</p>
<p>awong@college.edu</p>
</body></html>`

	e := New(DefaultTables(), nil)
	contacts := e.Extract(docFromHTML(t, html), "https://college.edu/housing")

	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d: %+v", len(contacts), contacts)
	}
	if contacts[0].Name != "Alice Wong" {
		t.Errorf("name = %q", contacts[0].Name)
	}
	if contacts[0].Title != "Housing Coordinator" {
		t.Errorf("title = %q", contacts[0].Title)
	}
}

func TestExtractByProximityNameAfterEmail(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<p>Residential Life</p>
<p>jdoe@college.edu</p>
<p>Jane Doe</p>
<p>Director of Housing</p>
</body></html>`

	e := New(DefaultTables(), nil)
	contacts := e.Extract(docFromHTML(t, html), "https://college.edu/housing")

	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d: %+v", len(contacts), contacts)
	}
	if contacts[0].Name != "Jane Doe" {
		t.Errorf("name = %q", contacts[0].Name)
	}
	if contacts[0].Title != "Director of Housing" {
		t.Errorf("title = %q", contacts[0].Title)
	}
}

func TestExtractByRolePattern(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<p>Wilson Hall</p>
<p>Hall Director: John Smith (jsmith@college.edu)</p>
</body></html>`

	e := New(DefaultTables(), nil)
	contacts := e.Extract(docFromHTML(t, html), "https://college.edu/housing/wilson-hall")

	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d: %+v", len(contacts), contacts)
	}
	c := contacts[0]
	if c.Name != "John Smith" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Title != "Hall Director" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Email != "jsmith@college.edu" {
		t.Errorf("email = %q", c.Email)
	}
	if c.Department != "Wilson Hall" {
		t.Errorf("department = %q", c.Department)
	}
}

func TestExtractFiltersAutomatedMailboxes(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<p>Housing questions? Write to webmaster@college.edu or noreply@college.edu.</p>
</body></html>`

	e := New(DefaultTables(), nil)
	contacts := e.Extract(docFromHTML(t, html), "https://college.edu/housing")

	if len(contacts) != 0 {
		t.Fatalf("expected no contacts, got %+v", contacts)
	}
}

func TestExtractContactFormFallback(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<h1>Contact Housing</h1>
<form action="/housing/submit"><input type="email" name="from"><textarea name="message"></textarea></form>
</body></html>`

	e := New(DefaultTables(), nil)
	contacts := e.Extract(docFromHTML(t, html), "https://college.edu/housing/contact")

	if len(contacts) != 1 {
		t.Fatalf("expected placeholder contact, got %+v", contacts)
	}
	if contacts[0].Email != domain.ContactFormEmail {
		t.Errorf("email = %q", contacts[0].Email)
	}
	if !contacts[0].IsContactForm() {
		t.Error("placeholder not recognized as contact form")
	}
}

func TestExtractContactFormSubmitOnly(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<h1>Housing Feedback</h1>
<form action="/feedback"><input type="text" name="name"><button>Submit</button></form>
</body></html>`

	e := New(DefaultTables(), nil)
	contacts := e.Extract(docFromHTML(t, html), "https://college.edu/housing/feedback")

	if len(contacts) != 1 || !contacts[0].IsContactForm() {
		t.Fatalf("expected placeholder contact, got %+v", contacts)
	}
}

func TestExtractDeduplicatesAcrossStrategies(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<table>
<tr><td>Jane Doe</td><td>Director of Housing</td><td>jdoe@college.edu</td></tr>
</table>
<p>Reach Jane at jdoe@college.edu for housing questions.</p>
</body></html>`

	e := New(DefaultTables(), nil)
	contacts := e.Extract(docFromHTML(t, html), "https://college.edu/housing/staff")

	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact after dedup, got %d: %+v", len(contacts), contacts)
	}
	if contacts[0].Title != "Director of Housing" {
		t.Errorf("table record should win, got title %q", contacts[0].Title)
	}
}

func TestLocationContext(t *testing.T) {
	t.Parallel()

	e := New(DefaultTables(), nil)

	cases := []struct {
		url  string
		want string
	}{
		{"https://housing.college.edu/buildings/wilson-hall", "Wilson Hall"},
		{"https://college.edu/housing/south-apartments", "South Apartments"},
		{"https://college.edu/housing/graduate/staff", "Graduate Housing"},
		{"https://college.edu/housing/family", "Family Housing"},
		{"https://college.edu/housing/first-year", "First-Year Housing"},
		{"https://college.edu/housing/staff", "Housing"},
	}
	for _, tc := range cases {
		if got := e.LocationContext(tc.url); got != tc.want {
			t.Errorf("LocationContext(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
