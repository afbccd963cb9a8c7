package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"whiteboard2web/internal/types"
)

// CapabilityFlags summarizes which interactive element kinds the sketch contains.
type CapabilityFlags struct {
	Forms      bool
	Buttons    bool
	Navigation bool
	Inputs     bool
	Images     bool
	Cards      bool
	Tables     bool
	Search     bool
	Login      bool
	Contact    bool
}

// DetectCapabilities derives the capability flags from a design analysis.
func DetectCapabilities(analysis types.DesignAnalysis) CapabilityFlags {
	var flags CapabilityFlags

	buttons := analysis.Elements(types.CategoryButtons)
	text := analysis.Elements(types.CategoryText)

	flags.Forms = len(analysis.Elements(types.CategoryForms)) > 0 || len(buttons) > 0
	flags.Buttons = len(buttons) > 0
	flags.Navigation = len(analysis.Elements(types.CategoryNavigation)) > 0 || anyElementContains(text, "nav")
	if anyElementContains(text, "search", "input") {
		flags.Search = true
		flags.Inputs = true
	}

	contents := textContents(text)
	flags.Login = anyContains(contents, "login", "sign in")
	flags.Contact = anyContains(contents, "contact", "email")

	flags.Images = len(analysis.Elements(types.CategoryImages)) > 0
	flags.Cards = len(analysis.Elements(types.CategoryContainers)) > 0 || anyElementContains(text, "card")
	flags.Tables = len(analysis.Elements(types.CategoryTables)) > 0
	return flags
}

// capabilityLines is the order in which detected capabilities are listed in the prompt.
var capabilityLines = []struct {
	set  func(CapabilityFlags) bool
	line string
}{
	{func(f CapabilityFlags) bool { return f.Forms }, "✅ Forms detected - will implement validation & submission"},
	{func(f CapabilityFlags) bool { return f.Buttons }, "✅ Buttons detected - will add click handlers & feedback"},
	{func(f CapabilityFlags) bool { return f.Navigation }, "✅ Navigation detected - will implement smooth scrolling/page navigation"},
	{func(f CapabilityFlags) bool { return f.Inputs }, "✅ Input fields detected - will add validation & user feedback"},
	{func(f CapabilityFlags) bool { return f.Search }, "✅ Search bar detected - will implement live search filtering"},
	{func(f CapabilityFlags) bool { return f.Login }, "✅ Login form detected - will implement mock authentication"},
	{func(f CapabilityFlags) bool { return f.Contact }, "✅ Contact form detected - will implement form submission"},
	{func(f CapabilityFlags) bool { return f.Images }, "✅ Images detected - will add lightbox/zoom functionality"},
	{func(f CapabilityFlags) bool { return f.Cards }, "✅ Cards detected - will add hover effects & click actions"},
}

const basicDesignLine = "⚠️ Basic design - will implement core functionality with working buttons/forms"

// FormatCapabilities renders one line per detected capability.
func FormatCapabilities(flags CapabilityFlags) string {
	var lines []string
	for _, c := range capabilityLines {
		if c.set(flags) {
			lines = append(lines, c.line)
		}
	}
	if len(lines) == 0 {
		return basicDesignLine
	}
	return strings.Join(lines, "\n")
}

// anyElementContains matches against the whole serialized element, keys included.
func anyElementContains(elements []any, needles ...string) bool {
	for _, el := range elements {
		if containsAny(strings.ToLower(elementString(el)), needles) {
			return true
		}
	}
	return false
}

func anyContains(values []string, needles ...string) bool {
	for _, v := range values {
		if containsAny(v, needles) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func textContents(elements []any) []string {
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		fields, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if content, ok := fields["content"].(string); ok {
			out = append(out, strings.ToLower(content))
		}
	}
	return out
}

func elementString(el any) string {
	if s, ok := el.(string); ok {
		return s
	}
	b, err := json.Marshal(el)
	if err != nil {
		return fmt.Sprint(el)
	}
	return string(b)
}
