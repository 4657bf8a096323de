package identity

import (
	"strings"
	"testing"
)

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	inputs := []string{
		"Stanford University",
		"University of California, Berkeley",
		"  The   College of  William & Mary ",
		"CALTECH",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeStripsPunctuation(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	got := n.Normalize("University of California, Berkeley!")
	if got != "university of california berkeley" {
		t.Fatalf("unexpected canonical form: %q", got)
	}
}

func TestVariantsIncludeAcronymAndStopWordForm(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(AliasRegistry{})
	variants := n.Variants("College of Environmental Science")

	want := map[string]bool{
		"college environmental science": false, // stop words removed
		"ces":                           false, // initials of words longer than two chars
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for v, seen := range want {
		if !seen {
			t.Fatalf("variant %q missing from %v", v, variants)
		}
	}
}

func TestVariantsExpandAliasesBothDirections(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)

	fromFull := n.Variants("California Institute of Technology")
	if !containsVariant(fromFull, "caltech") {
		t.Fatalf("full name should yield abbreviation, got %v", fromFull)
	}

	fromAbbrev := n.Variants("caltech")
	if !containsVariant(fromAbbrev, "california institute of technology") {
		t.Fatalf("abbreviation should yield full name, got %v", fromAbbrev)
	}
}

func TestVariantsExpandCampusOnPartialMatch(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	variants := n.Variants("UC Berkeley")

	if !containsVariant(variants, "university of california berkeley") {
		t.Fatalf("campus expansion missing, got %v", variants)
	}
	if !containsVariant(variants, "ucb") {
		t.Fatalf("campus abbreviations missing, got %v", variants)
	}
}

func TestAcronymRequiresTwoLetters(t *testing.T) {
	t.Parallel()

	if got := buildAcronym("pomona"); len(got) >= 2 {
		t.Fatalf("single significant word must not yield an acronym, got %q", got)
	}
}

func containsVariant(variants []string, want string) bool {
	for _, v := range variants {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
