package wikiparse

import (
	"sort"
	"strings"
	"testing"
)

func extractSorted(t *testing.T, htmlSrc, selfTitle string) []string {
	t.Helper()
	got, err := Extract(strings.NewReader(htmlSrc), selfTitle)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	sort.Strings(got)
	return got
}

func TestExtract_BasicLinks(t *testing.T) {
	htmlSrc := `<html><body>
		<a href="/wiki/Giraffe">Giraffe</a>
		<a href="/wiki/Savanna">Savanna</a>
		<a href="https://example.com/other">external</a>
	</body></html>`

	got := extractSorted(t, htmlSrc, "")
	want := []string{"Giraffe", "Savanna"}
	if !equal(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_Dedup(t *testing.T) {
	htmlSrc := `<html><body>
		<a href="/wiki/Giraffe">one</a>
		<a href="/wiki/Giraffe">two</a>
	</body></html>`

	got := extractSorted(t, htmlSrc, "")
	want := []string{"Giraffe"}
	if !equal(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_SelfLoopStripped(t *testing.T) {
	htmlSrc := `<html><body>
		<a href="/wiki/A">self</a>
		<a href="/wiki/B">other</a>
	</body></html>`

	got := extractSorted(t, htmlSrc, "A")
	want := []string{"B"}
	if !equal(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_IgnorePattern(t *testing.T) {
	htmlSrc := `<html><body>
		<a href="/wiki/Category:Mammals">cat</a>
		<a href="/wiki/Special:Search">special</a>
		<a href="/wiki/Talk:Giraffe">talk</a>
		<a href="/wiki/Main_Page">main</a>
		<a href="/wiki/Giraffe">keep</a>
	</body></html>`

	got := extractSorted(t, htmlSrc, "")
	want := []string{"Giraffe"}
	if !equal(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_OrphanPage(t *testing.T) {
	htmlSrc := `<html><body>
		<table class="box-Orphan ambox-Orphan plainlinks">orphan notice</table>
		<a href="/wiki/Giraffe">Giraffe</a>
	</body></html>`

	got, err := Extract(strings.NewReader(htmlSrc), "")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Extract() on orphan page = %v, want empty", got)
	}
}

func TestExtract_NoLinks(t *testing.T) {
	got := extractSorted(t, `<html><body>no links here</body></html>`, "")
	if len(got) != 0 {
		t.Errorf("Extract() = %v, want empty", got)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
