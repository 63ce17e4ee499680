package assessment

import (
	"regexp"
	"strings"
)

// Assessment is one quality rating extracted from a banner template on a
// talk page. Importance is empty when the template carries no importance
// parameter.
type Assessment struct {
	Rating     string
	Importance string
	Project    string
}

// wikiProjectPattern matches WikiProject banner template names.
var wikiProjectPattern = regexp.MustCompile(`(?i)^wikiproject\s+`)

// templateAliases maps legacy rating template names to the project banner
// they stand in for. New aliases are additive.
var templateAliases = map[string]string{
	"maths rating": "wikiproject mathematics",
}

// Parse extracts all assessments from the wikitext of one talk-page
// revision. A template counts as an assessment banner when its name
// starts with "wikiproject", when it is a known legacy alias, or when it
// declares a class parameter regardless of name. Banners without a class
// parameter are skipped. Parse is pure and never fails; malformed markup
// yields fewer results, not errors.
func Parse(text string) []Assessment {
	var assessments []Assessment
	for _, tmpl := range findTemplates(text) {
		name := strings.ToLower(strings.TrimSpace(tmpl.name))
		canonical, aliased := templateAliases[name]
		class, hasClass := tmpl.params["class"]
		if !wikiProjectPattern.MatchString(name) && !aliased && !hasClass {
			continue
		}
		if !hasClass {
			// Banner without an assessment class.
			continue
		}
		project := name
		if aliased {
			project = canonical
		}
		importance := ""
		if imp, ok := tmpl.params["importance"]; ok {
			importance = strings.ToLower(strings.TrimSpace(imp))
		}
		assessments = append(assessments, Assessment{
			Rating:     strings.ToLower(strings.TrimSpace(class)),
			Importance: importance,
			Project:    project,
		})
	}
	return assessments
}

// template is one {{...}} invocation, name plus named parameters.
// Positional parameters are irrelevant to assessments and dropped.
type template struct {
	name   string
	params map[string]string
}

// findTemplates scans for template invocations, including ones nested
// inside other templates' parameters. Unclosed templates (common after
// content truncation) are skipped.
func findTemplates(text string) []template {
	var templates []template
	for i := 0; i+1 < len(text); i++ {
		if text[i] != '{' || text[i+1] != '{' {
			continue
		}
		end, ok := matchingClose(text, i)
		if !ok {
			continue
		}
		templates = append(templates, parseTemplate(text[i+2:end]))
		// Keep scanning from inside the template so nested banners are
		// found too.
	}
	return templates
}

// matchingClose returns the index of the "}}" closing the template that
// opens at start, accounting for nesting.
func matchingClose(text string, start int) (int, bool) {
	depth := 0
	for i := start; i+1 < len(text); i++ {
		switch {
		case text[i] == '{' && text[i+1] == '{':
			depth++
			i++
		case text[i] == '}' && text[i+1] == '}':
			depth--
			i++
			if depth == 0 {
				return i - 1, true
			}
		}
	}
	return 0, false
}

func parseTemplate(body string) template {
	parts := splitTopLevel(body)
	tmpl := template{name: parts[0], params: make(map[string]string)}
	for _, part := range parts[1:] {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		tmpl.params[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return tmpl
}

// splitTopLevel splits a template body on pipes that are not inside a
// nested template or wikilink.
func splitTopLevel(body string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(body); i++ {
		if i+1 < len(body) {
			pair := body[i : i+2]
			if pair == "{{" || pair == "[[" {
				depth++
				i++
				continue
			}
			if pair == "}}" || pair == "]]" {
				depth--
				i++
				continue
			}
		}
		if body[i] == '|' && depth == 0 {
			parts = append(parts, body[last:i])
			last = i + 1
		}
	}
	return append(parts, body[last:])
}
