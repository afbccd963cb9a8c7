package normalizer

import "strings"

// FeatureResponsive is reported for every generated site.
const FeatureResponsive = "responsive"

// featureRule recognizes one functional feature from substrings of the
// generated JavaScript. A rule matches when every token in all appears and,
// if anyOf is set, at least one of its tokens appears.
type featureRule struct {
	feature  string
	all      []string
	anyOf    []string
	foldCase bool
	bullet   string
}

// featureRules is evaluated in order; the order is also the order of the
// inferred feature list and of the bullets in generated instructions.
var featureRules = []featureRule{
	{
		feature: "forms",
		all:     []string{"addEventListener"},
		anyOf:   []string{"submit", "click"},
		bullet:  "Forms can be submitted (check console for data)",
	},
	{
		feature: "buttons",
		all:     []string{"querySelector", "click"},
		bullet:  "Buttons have click handlers with feedback",
	},
	{
		feature: "navigation",
		anyOf:   []string{"scroll", "href"},
		bullet:  "Navigation links work (smooth scrolling/page nav)",
	},
	{
		feature:  "modals",
		anyOf:    []string{"modal"},
		foldCase: true,
		bullet:   "Modals open and close",
	},
	{
		feature: "validation",
		anyOf:   []string{"validate", "checkValidity"},
		bullet:  "Form validation provides real-time feedback",
	},
	{
		feature: "persistence",
		anyOf:   []string{"localStorage"},
		bullet:  "Data is kept in localStorage between visits",
	},
}

func (r featureRule) matches(js, lowerJS string) bool {
	text := js
	if r.foldCase {
		text = lowerJS
	}
	for _, token := range r.all {
		if !strings.Contains(text, token) {
			return false
		}
	}
	if len(r.anyOf) == 0 {
		return true
	}
	for _, token := range r.anyOf {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

// InferFeatures lists the features the generated JavaScript appears to
// implement. "responsive" is always first.
func InferFeatures(js string) []string {
	features := []string{FeatureResponsive}
	lowerJS := strings.ToLower(js)
	for _, rule := range featureRules {
		if rule.matches(js, lowerJS) {
			features = append(features, rule.feature)
		}
	}
	return features
}

// BuildInstructions writes the run guide for a project with the given features.
func BuildInstructions(features []string) string {
	var b strings.Builder
	b.WriteString("To run this website:\n")
	b.WriteString("1. Save all files in the same directory\n")
	b.WriteString("2. Open index.html in a web browser\n")
	b.WriteString("3. All features should work:\n")
	for _, rule := range featureRules {
		if contains(features, rule.feature) {
			b.WriteString("   • " + rule.bullet + "\n")
		}
	}
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
