// SPDX-License-Identifier: Apache-2.0

// Package schema validates the serialized backlog document against its
// JSON schema before anything is written to disk.
package schema

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed backlog.schema.json
var backlogSchema []byte

// ValidateBacklogJSON validates serialized backlog JSON against the
// embedded schema. A schema violation here means the pipeline produced a
// malformed document and the run must fail.
func ValidateBacklogJSON(document []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(backlogSchema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errorMsg := "Backlog validation failed:\n"
		for _, err := range result.Errors() {
			errorMsg += fmt.Sprintf("- %s\n", err)
		}
		return fmt.Errorf("%s", errorMsg)
	}

	return nil
}
