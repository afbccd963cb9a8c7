package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	"whiteboard2web/internal/ai/fallback"
	"whiteboard2web/internal/ai/images"
	"whiteboard2web/internal/ai/normalizer"
	"whiteboard2web/internal/ai/prompts"
	"whiteboard2web/internal/types"
	"whiteboard2web/internal/utils"

	"github.com/google/uuid"
)

// GenerateSite builds a website for the design and request. It always
// returns a project with an index.html: any failure along the way is
// answered with the fallback site, whose Notes field says what went wrong.
func (g *Generator) GenerateSite(ctx context.Context, design types.DesignData, userRequest string) (project *types.ProjectStructure) {
	runID := uuid.New().String()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: Site generation %s panicked: %v", runID, r)
			project = fallback.Project(fmt.Sprintf("internal error: %v", r))
		}
	}()

	log.Printf("Generating site %s, user request: %q", runID, userRequest)
	generated, err := g.generate(ctx, runID, design, userRequest)
	if err != nil {
		reason := fallbackReason(err)
		log.Printf("WARN: Site generation %s falling back: %v", runID, err)
		return fallback.Project(reason)
	}

	log.Printf("Site generation %s produced %d files, features: %v", runID, len(generated.ProjectStructure), generated.FunctionalFeatures)
	return generated
}

func (g *Generator) generate(ctx context.Context, runID string, design types.DesignData, userRequest string) (*types.ProjectStructure, error) {
	if g.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	design = images.Shrink(design, g.cfg.MaxImageBytes, g.cfg.ImageDir)
	prompt := prompts.BuildPrompt(g.cfg.Style, design.DesignAnalysis, userRequest)

	raw, err := g.CallModel(ctx, prompt)
	if err != nil {
		return nil, err
	}
	log.Printf("LLM raw output for %s: %d characters", runID, len(raw))

	project, err := normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// fallbackReason turns a pipeline error into the note attached to the fallback site.
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return ErrMissingAPIKey.Error()
	case errors.Is(err, errEmptyCompletion):
		return "AI service unavailable: empty response"
	case errors.Is(err, ErrTransport):
		return "AI service unavailable: " + utils.DescribeTransportError(err)
	case errors.Is(err, ErrMalformedResponse):
		return "JSON parsing error: " + err.Error()
	default:
		return err.Error()
	}
}
