package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"whiteboard2web/internal/types"
)

// Style selects the generation rules included in the prompt.
type Style string

const (
	// StyleFunctional asks for a complete, interactive site built around the sketch.
	StyleFunctional Style = "functional"
	// StylePixelExact asks for a faithful reproduction of the sketch's geometry.
	StylePixelExact Style = "pixel-exact"
)

// ParseStyle maps a configuration value to a Style. Unknown values select StyleFunctional.
func ParseStyle(s string) Style {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StylePixelExact:
		return StylePixelExact
	default:
		return StyleFunctional
	}
}

// SystemPrompt is sent as the system message of every generation request.
const SystemPrompt = `You are a senior full-stack developer who creates COMPLETE,
FUNCTIONAL, PRODUCTION-READY websites. EVERY element must work.
Forms must validate and submit. Buttons must have click handlers.
Navigation must work. Generate multiple HTML files if design has
multiple sections. Return valid JSON with project_structure array.`

// BuildPrompt renders the user message for a design. The output depends only
// on its arguments.
func BuildPrompt(style Style, analysis types.DesignAnalysis, userRequest string) string {
	return fmt.Sprintf(siteGenerationPromptTemplate,
		introFor(style),
		marshalAnalysis(analysis),
		FormatCapabilities(DetectCapabilities(analysis)),
		userRequest,
		rulesFor(style),
		outputFormat,
	)
}

func introFor(style Style) string {
	if style == StylePixelExact {
		return "You are an expert front-end developer. Reproduce this whiteboard sketch as a website that matches the drawing EXACTLY, element for element."
	}
	return "You are an expert web developer. Convert this visual design into a COMPLETE, FUNCTIONAL, PRODUCTION-READY website."
}

func rulesFor(style Style) string {
	if style == StylePixelExact {
		return pixelExactRules
	}
	return functionalRules
}

// marshalAnalysis serializes the analysis with stable key order and without
// HTML escaping so the model sees the original field values.
func marshalAnalysis(analysis types.DesignAnalysis) string {
	if analysis == nil {
		analysis = types.DesignAnalysis{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(analysis); err != nil {
		return fmt.Sprintf("%v", map[string]any(analysis))
	}
	return strings.TrimRight(buf.String(), "\n")
}

const siteGenerationPromptTemplate = `
%s

# DESIGN ANALYSIS:
%s

# DETECTED INTERACTIVE ELEMENTS:
%s

# USER REQUEST:
%s

%s

%s
`

const functionalRules = `# 🚀 CRITICAL REQUIREMENTS:

## 1. FULLY FUNCTIONAL CODE (NON-NEGOTIABLE):
- EVERY button must have working JavaScript functionality
- ALL forms must have validation and submission handling
- Navigation links must work (smooth scrolling or page navigation)
- Input fields must accept and validate user input
- If design has modals/popups, they must open/close
- All interactive elements MUST work in the browser

## 2. MULTIPLE HTML FILES IF NEEDED:
- If design has distinct sections (Home, About, Contact, etc.), generate separate HTML files
- Each page should be complete with navigation between them
- Generate: index.html, about.html, contact.html, etc. as needed
- Shared components (navbar, footer) should be consistent across pages

## 3. COMPLETE JAVASCRIPT FUNCTIONALITY:
- Form validation with real-time feedback
- Button click handlers with visual feedback (loading states, success messages)
- Modal open/close functionality
- Tab switching if tabs exist
- Accordion expand/collapse
- Image sliders/carousels if images exist
- Search functionality if search bar exists
- Filtering if product/card grid exists

## 4. PRODUCTION-READY FEATURES:
- Responsive design that works on mobile, tablet, desktop
- Accessible (ARIA labels, keyboard navigation)
- CSS transitions and animations
- Error handling
- Loading states for async operations
- Toast notifications for user feedback

## 5. SPECIFIC INSTRUCTIONS:
- If design has login form → implement mock login with local storage
- If design has contact form → implement form submission with validation
- If design has product cards → implement add to cart functionality
- If design has search bar → implement live search filtering
- If design has image gallery → implement lightbox/modal viewer

## 6. KEEP THE DESIGN THAT WAS DRAWN ON THE WHITEBOARD`

const pixelExactRules = `# 📐 LAYOUT FIDELITY REQUIREMENTS:

## 1. GEOMETRY:
- Use the x, y, width and height of every element from the design analysis
- Keep the relative order, alignment and spacing exactly as drawn
- Do not add sections, images or text that are not in the sketch
- Do not drop any detected element

## 2. STYLE:
- Use the colors listed under styles; fall back to neutral greys otherwise
- Match font sizes to the drawn text heights
- Containers become bordered boxes with the drawn proportions

## 3. BEHAVIOUR:
- Every drawn button gets a click handler with visible feedback
- Every drawn form validates its inputs and reports submission to console.log
- Navigation links scroll to the matching section

## 4. RESPONSIVENESS:
- Preserve the drawn layout on desktop widths
- Stack columns vertically below 768px`

const outputFormat = `# OUTPUT FORMAT:
Return ONLY valid JSON format:

{
    "project_structure": [
        {"file": "index.html", "content": "Complete HTML for home page"},
        {"file": "styles.css", "content": "Complete CSS for all pages"},
        {"file": "script.js", "content": "Complete JavaScript for all functionality"},
        {"file": "about.html", "content": "About page HTML (if needed)"},
        {"file": "contact.html", "content": "Contact page HTML (if needed)"}
    ],
    "main_html": "index.html content (for preview)",
    "main_css": "styles.css content (for preview)",
    "main_js": "script.js content (for preview)",
    "explanation": "Brief description of what you created and ALL functional features implemented",
    "layout_type": "identified layout type",
    "functional_features": ["list", "of", "working", "features"],
    "instructions": "How to run and test all functionality"
}

# REMEMBER:
- NO placeholder functions - EVERYTHING must work
- Include console.log messages for debugging
- Use modern ES6+ JavaScript
- Make forms submit to console.log with validation
- Add event listeners for ALL interactive elements
- Generate COMPLETE working website, not just static HTML`
