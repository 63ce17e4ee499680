package assessment

import "testing"

func TestParseNoTemplates(t *testing.T) {
	texts := []string{
		"",
		"Just an ordinary talk page discussion.",
		"== Heading ==\nSome signed comment. ~~~~",
		"A lone brace pair {} and a [[wikilink]].",
	}
	for _, text := range texts {
		if got := Parse(text); len(got) != 0 {
			t.Errorf("Parse(%q) = %v, want empty", text, got)
		}
	}
}

func TestParseWikiProjectBanner(t *testing.T) {
	got := Parse("{{WikiProject Foo|class=B|importance=High}}")
	if len(got) != 1 {
		t.Fatalf("expected 1 assessment, got %d", len(got))
	}
	a := got[0]
	if a.Rating != "b" {
		t.Errorf("expected rating %q, got %q", "b", a.Rating)
	}
	if a.Importance != "high" {
		t.Errorf("expected importance %q, got %q", "high", a.Importance)
	}
	if a.Project != "wikiproject foo" {
		t.Errorf("expected project %q, got %q", "wikiproject foo", a.Project)
	}
}

func TestParseLegacyAlias(t *testing.T) {
	got := Parse("{{maths rating|class=A|importance=Top}}")
	if len(got) != 1 {
		t.Fatalf("expected 1 assessment, got %d", len(got))
	}
	if got[0].Project != "wikiproject mathematics" {
		t.Errorf("expected alias mapped to %q, got %q", "wikiproject mathematics", got[0].Project)
	}
	if got[0].Rating != "a" {
		t.Errorf("expected rating %q, got %q", "a", got[0].Rating)
	}
}

func TestParseClassParameterAdmitsAnyTemplate(t *testing.T) {
	got := Parse("{{Some old banner|class=Start}}")
	if len(got) != 1 {
		t.Fatalf("expected 1 assessment, got %d", len(got))
	}
	if got[0].Rating != "start" {
		t.Errorf("expected rating %q, got %q", "start", got[0].Rating)
	}
	if got[0].Project != "some old banner" {
		t.Errorf("expected project %q, got %q", "some old banner", got[0].Project)
	}
}

func TestParseSkipsBannerWithoutClass(t *testing.T) {
	got := Parse("{{WikiProject History|importance=Low}}")
	if len(got) != 0 {
		t.Errorf("expected no assessments, got %v", got)
	}
}

func TestParseSkipsUnrelatedTemplates(t *testing.T) {
	got := Parse("{{talk header}}\n{{archive box|auto=yes}}")
	if len(got) != 0 {
		t.Errorf("expected no assessments, got %v", got)
	}
}

func TestParseImportanceAbsent(t *testing.T) {
	got := Parse("{{WikiProject Foo|class=stub}}")
	if len(got) != 1 {
		t.Fatalf("expected 1 assessment, got %d", len(got))
	}
	if got[0].Importance != "" {
		t.Errorf("expected empty importance, got %q", got[0].Importance)
	}
}

func TestParseMultipleBanners(t *testing.T) {
	text := `{{talk header}}
{{WikiProject Biography|class=B|importance=Mid}}
{{WikiProject Military history|class=GA}}
Some discussion below.`

	got := Parse(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 assessments, got %d: %v", len(got), got)
	}

	ratings := map[string]bool{}
	for _, a := range got {
		ratings[a.Rating] = true
	}
	if !ratings["b"] || !ratings["ga"] {
		t.Errorf("expected ratings b and ga, got %v", got)
	}
}

func TestParseNestedBannerShell(t *testing.T) {
	// Banners wrapped in a shell template must still be found.
	text := "{{WikiProject banner shell|1=\n{{WikiProject Chemistry|class=C|importance=High}}\n}}"
	got := Parse(text)

	found := false
	for _, a := range got {
		if a.Project == "wikiproject chemistry" && a.Rating == "c" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected nested chemistry banner, got %v", got)
	}
}

func TestParseValuesTrimmedAndLowercased(t *testing.T) {
	got := Parse("{{WikiProject Foo | class = FA | importance = low }}")
	if len(got) != 1 {
		t.Fatalf("expected 1 assessment, got %d", len(got))
	}
	if got[0].Rating != "fa" {
		t.Errorf("expected rating %q, got %q", "fa", got[0].Rating)
	}
	if got[0].Importance != "low" {
		t.Errorf("expected importance %q, got %q", "low", got[0].Importance)
	}
}

func TestParseUnclosedTemplate(t *testing.T) {
	// Truncated content leaves templates unterminated; they are skipped
	// rather than crashing the parse.
	got := Parse("{{WikiProject Foo|class=B|importance=")
	if len(got) != 0 {
		t.Errorf("expected no assessments from unclosed template, got %v", got)
	}
}

func TestParseWikilinkInParameter(t *testing.T) {
	got := Parse("{{WikiProject Foo|class=B|note=[[A|B]]}}")
	if len(got) != 1 {
		t.Fatalf("expected 1 assessment, got %d", len(got))
	}
	if got[0].Rating != "b" {
		t.Errorf("expected rating %q, got %q", "b", got[0].Rating)
	}
}
