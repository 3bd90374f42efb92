// Package parsing turns extracted resume text into the normalized resume
// document using a model backend.
package parsing

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-builder/internal/jsonrepair"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/normalize"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
)

// Option configures BuildResume.
type Option func(*options)

type options struct {
	tier            llm.ModelTier
	logger          logrus.FieldLogger
	canonicalSkills bool
}

// WithTier selects the model tier. Defaults to llm.TierStandard.
func WithTier(tier llm.ModelTier) Option {
	return func(o *options) { o.tier = tier }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCanonicalSkills normalizes and deduplicates skill names after pruning.
func WithCanonicalSkills(enabled bool) Option {
	return func(o *options) { o.canonicalSkills = enabled }
}

// BuildResume prompts the model with sourceText and forces its answer into
// the reference resume schema.
//
// Backend failures are returned as *APICallError. Malformed or truncated
// model output never fails: it degrades to schema defaults. When nothing
// beyond defaults survives, the pruned value is returned with ErrNoUsableData.
func BuildResume(ctx context.Context, client llm.Client, sourceText string, opts ...Option) (map[string]any, error) {
	o := options{tier: llm.TierStandard, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	prompt, err := buildResumePrompt(sourceText)
	if err != nil {
		return nil, err
	}

	raw, err := client.GenerateJSON(ctx, prompt, o.tier)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate resume JSON",
			Cause:   err,
		}
	}
	o.logger.WithFields(logrus.Fields{
		"model":      client.GetModel(o.tier),
		"raw_length": len(raw),
	}).Debug("model response received")

	resume := NormalizeOutput(raw, o.logger)
	if o.canonicalSkills {
		CanonicalizeSkills(resume)
	}

	if err := schemas.ValidateValue(schemas.Resume, resume); err != nil {
		return nil, &ValidationError{
			Message: "normalized resume does not match the output schema",
			Cause:   err,
		}
	}

	if !normalize.HasSubstance(schemas.Resume, resume) {
		return resume, ErrNoUsableData
	}
	return resume, nil
}

// NormalizeOutput runs repair, coercion and pruning on raw model text.
// It never fails; unusable input yields the pruned schema defaults.
func NormalizeOutput(raw string, logger logrus.FieldLogger) map[string]any {
	value := jsonrepair.RepairAndParse(raw, logger)
	coerced := normalize.Coerce(schemas.Resume, value)
	resume, _ := normalize.Prune(coerced).(map[string]any)
	return resume
}

// buildResumePrompt embeds the schema example and the source text
func buildResumePrompt(sourceText string) (string, error) {
	prompt, err := prompts.Render("parsing.json", "build-resume", map[string]string{
		"SchemaExample": schemas.Resume.ExampleJSON(),
		"PDFText":       sourceText,
	})
	if err != nil {
		return "", &ParseError{Message: "failed to build prompt", Cause: err}
	}
	return prompt, nil
}
