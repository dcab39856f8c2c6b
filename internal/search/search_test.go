package search

import (
	"strings"
	"testing"

	"github.com/agendadigital/forms-service/internal/models"
)

func roster(names ...string) []models.Student {
	students := make([]models.Student, len(names))
	for i, n := range names {
		students[i] = models.Student{Code: n, Name: n}
	}
	return students
}

func names(students []models.Student) []string {
	out := make([]string, len(students))
	for i, s := range students {
		out[i] = s.Name
	}
	return out
}

func TestMatch_QueryThreshold(t *testing.T) {
	r := roster("Ana Silva", "Bruno Costa")

	for _, q := range []string{"", "a", "B"} {
		t.Run("q="+q, func(t *testing.T) {
			if got := Match(r, q); len(got) != 0 {
				t.Errorf("Match(%q) = %v, want empty", q, names(got))
			}
		})
	}
}

func TestMatch_SubstringFilter(t *testing.T) {
	r := roster("Ana Silva", "Bruno Costa", "Mariana Souza", "Pedro Lima")

	got := Match(r, "an")
	for _, s := range got {
		if !strings.Contains(strings.ToLower(s.Name), "an") {
			t.Errorf("result %q does not contain query", s.Name)
		}
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 matches", names(got))
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	r := roster("ANA SILVA", "bruno costa")

	if got := Match(r, "ana"); len(got) != 1 || got[0].Name != "ANA SILVA" {
		t.Errorf("Match(ana) = %v, want [ANA SILVA]", names(got))
	}
	if got := Match(r, "BRUNO"); len(got) != 1 {
		t.Errorf("Match(BRUNO) = %v, want one match", names(got))
	}
}

func TestMatch_PrefixRanksFirst(t *testing.T) {
	// "Bruno Ana" contains but does not start with the query; both Anas do.
	r := roster("Bruno Ana", "Ana Souza", "Ana Silva")

	got := names(Match(r, "ana"))
	want := []string{"Ana Silva", "Ana Souza", "Bruno Ana"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMatch_Limit(t *testing.T) {
	var many []string
	for _, suffix := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		many = append(many, "Ana "+suffix)
	}

	if got := Match(roster(many...), "ana"); len(got) != MaxResults {
		t.Errorf("got %d results, want %d", len(got), MaxResults)
	}
}

func TestMatch_EmptyRoster(t *testing.T) {
	if got := Match(nil, "ana"); len(got) != 0 {
		t.Errorf("Match on empty roster = %v, want empty", names(got))
	}
}
