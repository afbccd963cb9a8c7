// Package fallback provides the built-in website returned when the model
// cannot produce a usable project.
package fallback

import (
	_ "embed"

	"whiteboard2web/internal/types"
)

var (
	//go:embed site/index.html
	indexHTML string
	//go:embed site/styles.css
	stylesCSS string
	//go:embed site/script.js
	scriptJS string
)

// LayoutType identifies projects produced by this package.
const LayoutType = "fallback-functional"

const instructions = "Open index.html in browser. All buttons work, form validates and submits."

// Features returns the feature list reported for the fallback site.
func Features() []string {
	return []string{"responsive", "forms", "buttons", "navigation", "validation"}
}

// Project returns the fallback website, recording reason in Notes.
func Project(reason string) *types.ProjectStructure {
	return &types.ProjectStructure{
		ProjectStructure: []types.FileEntry{
			{File: "index.html", Content: indexHTML},
			{File: "styles.css", Content: stylesCSS},
			{File: "script.js", Content: scriptJS},
		},
		MainHTML:           indexHTML,
		MainCSS:            stylesCSS,
		MainJS:             scriptJS,
		Explanation:        "Functional fallback template - " + reason,
		LayoutType:         LayoutType,
		FunctionalFeatures: Features(),
		Instructions:       instructions,
		Notes:              reason,
	}
}
