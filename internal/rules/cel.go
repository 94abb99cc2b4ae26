// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
)

// CELEvaluator handles evaluation of CEL rule conditions
type CELEvaluator struct {
	env *cel.Env
}

// NewCELEvaluator creates a new CEL evaluator
func NewCELEvaluator() (*CELEvaluator, error) {
	// Create a new CEL environment with standard env and action variable
	env, err := cel.NewEnv(
		cel.Variable("action", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}

	return &CELEvaluator{env: env}, nil
}

// EvaluateCondition evaluates a CEL condition against one raw action
func (e *CELEvaluator) EvaluateCondition(expression string, action models.RawAction) (bool, error) {
	// Parse the expression
	ast, issues := e.env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("error parsing condition: %w", issues.Err())
	}

	// Type-check the expression
	checked, issues := e.env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("error type-checking condition: %w", issues.Err())
	}

	// Compile the expression
	program, err := e.env.Program(checked)
	if err != nil {
		return false, fmt.Errorf("error compiling condition: %w", err)
	}

	// Evaluate against the action view
	result, _, err := program.Eval(map[string]interface{}{
		"action": actionVars(action),
	})
	if err != nil {
		return false, fmt.Errorf("error evaluating condition: %w", err)
	}

	// Convert result to boolean
	if result.Type() != types.BoolType {
		return false, fmt.Errorf("condition did not evaluate to a boolean")
	}

	return result.Value().(bool), nil
}

// actionVars exposes the raw action fields a condition may inspect.
func actionVars(action models.RawAction) map[string]interface{} {
	return map[string]interface{}{
		"title":    action.Title,
		"severity": string(action.Severity),
		"owner":    string(action.Owner),
		"domains":  models.DomainStrings(action.Domains),
		"gate_id":  action.GateID,
		"source":   action.Source,
	}
}
