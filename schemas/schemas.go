// Package schemas embeds the JSON Schemas for ipsbench input files.
package schemas

import _ "embed"

// SuiteSchemaJSON is the JSON Schema for benchmark suite YAML files.
//
//go:embed suite.schema.json
var SuiteSchemaJSON string
