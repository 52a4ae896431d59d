package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gh-nvat/semver-gate/src/pkg/config"
	"github.com/gh-nvat/semver-gate/src/pkg/models"
	"github.com/open-policy-agent/opa/rego"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "policy")

// NOTES_QUERY is the rule every report policy defines: a set of strings
const NOTES_QUERY = "data.semvergate.notes"

// NoteEvaluator defines the interface for report policy evaluation
type NoteEvaluator interface {
	// Validate checks that every policy file exists and compiles
	Validate(policies []config.PolicyConfig, baseDir string) error
	// Evaluate runs every policy over the report data and collects its notes
	Evaluate(ctx context.Context, policies []config.PolicyConfig, baseDir string, data *models.ReportData) []models.PolicyNote
}

// Evaluator evaluates rego policies with OPA
type Evaluator struct{}

// Ensure Evaluator implements NoteEvaluator
var _ NoteEvaluator = (*Evaluator)(nil)

// NewEvaluator creates a new policy evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Validate checks the policy files before anything runs
func (e *Evaluator) Validate(policies []config.PolicyConfig, baseDir string) error {
	for _, p := range policies {
		path := resolve(baseDir, p.FilePath)
		if !strings.HasSuffix(path, ".rego") && !strings.HasSuffix(path, ".opa") {
			return fmt.Errorf("policy %s: unsupported file extension (must be .rego or .opa)", p.Name)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("policy %s: file not found: %s", p.Name, path)
		}
		if _, err := e.prepare(context.Background(), path); err != nil {
			return fmt.Errorf("policy %s: %w", p.Name, err)
		}
	}
	return nil
}

// Evaluate returns the notes of all policies in configuration order.
// Notes are advisory: a failing policy yields a note about the failure
// and never affects the verdict.
func (e *Evaluator) Evaluate(ctx context.Context, policies []config.PolicyConfig, baseDir string, data *models.ReportData) []models.PolicyNote {
	var notes []models.PolicyNote
	for _, p := range policies {
		messages, err := e.evaluatePolicy(ctx, resolve(baseDir, p.FilePath), data)
		if err != nil {
			logger.WithField("policy", p.Name).WithError(err).Warn("Policy evaluation failed")
			notes = append(notes, models.PolicyNote{Policy: p.Name, Message: fmt.Sprintf("💥 policy could not be evaluated: %v", err)})
			continue
		}
		for _, msg := range messages {
			notes = append(notes, models.PolicyNote{Policy: p.Name, Message: msg})
		}
	}
	return notes
}

func (e *Evaluator) prepare(ctx context.Context, path string) (rego.PreparedEvalQuery, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return rego.PreparedEvalQuery{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	query, err := rego.New(
		rego.Query(NOTES_QUERY),
		rego.Module(filepath.Base(path), string(content)),
	).PrepareForEval(ctx)
	if err != nil {
		return rego.PreparedEvalQuery{}, fmt.Errorf("failed to prepare OPA query: %w", err)
	}
	return query, nil
}

func (e *Evaluator) evaluatePolicy(ctx context.Context, path string, data *models.ReportData) ([]string, error) {
	query, err := e.prepare(ctx, path)
	if err != nil {
		return nil, err
	}

	results, err := query.Eval(ctx, rego.EvalInput(data))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	var messages []string
	if len(results) > 0 && len(results[0].Expressions) > 0 {
		if set, ok := results[0].Expressions[0].Value.([]interface{}); ok {
			for _, v := range set {
				if msg, ok := v.(string); ok {
					messages = append(messages, msg)
				}
			}
		}
	}
	sort.Strings(messages)
	return messages, nil
}

func resolve(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
