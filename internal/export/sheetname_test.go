package export

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeSheetName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Judge: a/b*c", "Judge: abc"},
		{"History", "Sheet_History"},
		{"  hIsToRy ", "Sheet_History"},
		{"", "Sheet"},
		{"[]?*", "Sheet"},
		{`back\slash`, "backslash"},
	}
	for _, c := range cases {
		if got := SanitizeSheetName(c.in); got != c.want {
			t.Errorf("SanitizeSheetName(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	long := strings.Repeat("Жюри ", 10)
	got := SanitizeSheetName(long)
	if utf8.RuneCountInString(got) > 31 {
		t.Fatalf("name not truncated: %q (%d runes)", got, utf8.RuneCountInString(got))
	}
	if !strings.HasPrefix(long, got) {
		t.Fatalf("truncation must keep the prefix: %q", got)
	}
}

func TestWorkbookSheetName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Judge: a/b*c", "Judge abc"},
		{"History:", "Sheet_History"},
		{"'quoted'", "quoted"},
		{"a ' '", "a"},
		{":'", "Sheet"},
	}
	for _, c := range cases {
		if got := WorkbookSheetName(c.in); got != c.want {
			t.Errorf("WorkbookSheetName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{}
	if got := UniqueSheetName("Summary", used); got != "Summary" {
		t.Fatalf("got %q", got)
	}
	if got := UniqueSheetName("summary", used); got != "summary (2)" {
		t.Fatalf("case-insensitive clash must be suffixed, got %q", got)
	}
	if got := UniqueSheetName("Summary", used); got != "Summary (3)" {
		t.Fatalf("got %q", got)
	}

	long := strings.Repeat("x", 31)
	UniqueSheetName(long, used)
	got := UniqueSheetName(long, used)
	if utf8.RuneCountInString(got) > 31 || !strings.HasSuffix(got, " (2)") {
		t.Fatalf("suffixed name must fit 31 runes: %q", got)
	}
}

func TestBuildJudgingReportFilename(t *testing.T) {
	if got := BuildJudgingReportFilename("My App: v2/beta"); got != "judging_My_App__v2_beta.xlsx" {
		t.Fatalf("got %q", got)
	}
	if got := BuildJudgingReportFilename("  "); got != "judging_product.xlsx" {
		t.Fatalf("got %q", got)
	}
}
