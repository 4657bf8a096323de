package app

import (
	"context"
	"testing"

	"housingscout/internal/config"
	"housingscout/internal/domain"
)

type stubRepo struct {
	inst    *domain.Institution
	stored  []domain.ScoredContact
	created []domain.ScoredContact
}

func (r *stubRepo) FindInstitution(context.Context, []string) (*domain.Institution, error) {
	return r.inst, nil
}

func (r *stubRepo) CreateInstitution(_ context.Context, name, website string, _ []string) (domain.Institution, error) {
	return domain.Institution{ID: "new", Name: name, Website: website}, nil
}

func (r *stubRepo) ListExistingContacts(context.Context, string) ([]domain.ScoredContact, error) {
	return r.stored, nil
}

func (r *stubRepo) InsertContacts(_ context.Context, _ string, contacts []domain.ScoredContact) error {
	r.created = append(r.created, contacts...)
	return nil
}

func TestRunReturnsStoredContactsWithoutScraping(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		inst: &domain.Institution{ID: "i1", Name: "Test College", Website: "test.edu"},
		stored: []domain.ScoredContact{
			{RawContact: domain.RawContact{Name: "Jane Doe", Email: "jdoe@test.edu"}, Score: 80},
		},
	}
	a := New(config.Config{}, repo, nil)

	result, err := a.Run(context.Background(), "Test College", false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.ResolvedDomain != "test.edu" {
		t.Errorf("resolved domain = %q", result.ResolvedDomain)
	}
	if len(result.Contacts) != 1 || result.Contacts[0].Email != "jdoe@test.edu" {
		t.Errorf("contacts = %+v", result.Contacts)
	}
	if len(repo.created) != 0 {
		t.Errorf("short-circuit must not insert: %+v", repo.created)
	}
	if result.Advice() != "" {
		t.Errorf("advice = %q", result.Advice())
	}
}

func TestKnownFromSkipsContactForms(t *testing.T) {
	t.Parallel()

	stored := []domain.ScoredContact{
		{RawContact: domain.RawContact{Name: "Jane O'Doe", Email: "JDoe@test.edu"}, Score: 80},
		{RawContact: domain.RawContact{Name: "Housing Office", Email: domain.ContactFormEmail}, Score: 8},
	}
	known := knownFrom(stored)

	if _, ok := known.Emails["jdoe@test.edu"]; !ok {
		t.Errorf("emails = %v", known.Emails)
	}
	if _, ok := known.Emails[domain.ContactFormEmail]; ok {
		t.Error("contact-form sentinel must not suppress future forms")
	}
	if _, ok := known.Names["jane odoe"]; !ok {
		t.Errorf("names = %v", known.Names)
	}
}
