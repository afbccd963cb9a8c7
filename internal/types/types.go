package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SavedFilePrefix marks an image src that was moved out of the request and
// written to disk. Downstream consumers resolve it back to the file bytes.
const SavedFilePrefix = "__SAVED_FILE__:"

// Element categories the whiteboard analyzer emits under "elements".
const (
	CategoryText       = "text"
	CategoryButtons    = "buttons"
	CategoryForms      = "forms"
	CategoryNavigation = "navigation"
	CategoryImages     = "images"
	CategoryContainers = "containers"
	CategoryTables     = "tables"
)

// DesignAnalysis is the analyzer's description of the sketch. It is kept as a
// generic document so that every field reaches the model exactly as received.
type DesignAnalysis map[string]any

// Elements returns the descriptors recorded under the given category, or nil.
func (d DesignAnalysis) Elements(category string) []any {
	elements, ok := d["elements"].(map[string]any)
	if !ok {
		return nil
	}
	list, _ := elements[category].([]any)
	return list
}

// ImageDescriptor is one image placed on the whiteboard.
type ImageDescriptor struct {
	ID     any    `json:"id"`
	Src    string `json:"src"`
	Width  any    `json:"width"`
	Height any    `json:"height"`
	Type   string `json:"type"`
}

// IsSavedFile reports whether Src already points at a file on disk.
func (i ImageDescriptor) IsSavedFile() bool {
	return strings.HasPrefix(i.Src, SavedFilePrefix)
}

// DesignData is the request document sent by the whiteboard client.
type DesignData struct {
	DesignAnalysis DesignAnalysis    `json:"design_analysis"`
	Images         []ImageDescriptor `json:"images,omitempty"`
	CanvasData     json.RawMessage   `json:"canvas_data,omitempty"`
}

// ParseDesignData decodes a design document leniently. Fields with an
// unexpected shape are dropped instead of failing the request, so a broken
// analyzer payload still produces a website.
func ParseDesignData(raw []byte) (DesignData, error) {
	var design DesignData
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return design, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return design, fmt.Errorf("design data is not a JSON object: %w", err)
	}

	if analysis, ok := doc["design_analysis"].(map[string]any); ok {
		design.DesignAnalysis = analysis
	}
	if images, ok := doc["images"].([]any); ok {
		for _, item := range images {
			fields, ok := item.(map[string]any)
			if !ok {
				continue
			}
			img := ImageDescriptor{
				ID:     fields["id"],
				Width:  fields["width"],
				Height: fields["height"],
			}
			img.Src, _ = fields["src"].(string)
			img.Type, _ = fields["type"].(string)
			design.Images = append(design.Images, img)
		}
	}
	if canvas, ok := doc["canvas_data"]; ok && canvas != nil {
		if b, err := json.Marshal(canvas); err == nil {
			design.CanvasData = b
		}
	}
	return design, nil
}

// FileEntry is one file of a generated website.
type FileEntry struct {
	File    string `json:"file"`
	Content string `json:"content"`
}

// ProjectStructure is the canonical result of a generation request, whether
// it came from the model or from the built-in fallback site.
type ProjectStructure struct {
	ProjectStructure   []FileEntry `json:"project_structure"`
	MainHTML           string      `json:"main_html"`
	MainCSS            string      `json:"main_css"`
	MainJS             string      `json:"main_js"`
	Explanation        string      `json:"explanation"`
	LayoutType         string      `json:"layout_type"`
	FunctionalFeatures []string    `json:"functional_features"`
	Instructions       string      `json:"instructions"`
	Notes              string      `json:"notes,omitempty"`
}

// File returns the entry with the given name.
func (p *ProjectStructure) File(name string) (FileEntry, bool) {
	for _, f := range p.ProjectStructure {
		if f.File == name {
			return f, true
		}
	}
	return FileEntry{}, false
}

// HasIndex reports whether the project contains an index.html entry.
func (p *ProjectStructure) HasIndex() bool {
	_, ok := p.File("index.html")
	return ok
}

// IsFallback reports whether the project was produced by the fallback path.
func (p *ProjectStructure) IsFallback() bool {
	return p.Notes != ""
}
