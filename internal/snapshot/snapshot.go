// Package snapshot persists the canonical table as a versioned JSON file.
//
// Snapshots let the dashboard run offline: `taskdash fetch -out tasks.json`
// writes one, `taskdash dash -snapshot tasks.json` loads it instead of
// hitting the API. Loads are validated against an embedded JSON Schema
// (draft 2020-12) so a truncated or hand-edited file fails with a field
// path instead of surfacing as garbage rows later.
package snapshot

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/taskdash/taskdash/internal/task"
	"github.com/taskdash/taskdash/internal/utils"
)

//go:embed snapshot.schema.json
var rawSchema string

// SchemaVersion is the current snapshot format version.
const SchemaVersion = 1

// File is the snapshot envelope.
type File struct {
	SchemaVersion int        `json:"schema_version"`
	FetchedAt     time.Time  `json:"fetched_at"`
	Since         *time.Time `json:"since,omitempty"`
	Tasks         task.Table `json:"tasks"`
}

// ValidationError is a schema violation with the offending field path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// New wraps a table in the current envelope.
func New(tasks task.Table, since *time.Time) *File {
	return &File{
		SchemaVersion: SchemaVersion,
		FetchedAt:     time.Now().UTC(),
		Since:         since,
		Tasks:         tasks,
	}
}

// Save writes the snapshot to path with 2-space indentation.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads and validates a snapshot from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	if err := validate(data); err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &f, nil
}

// validate checks raw snapshot bytes against the embedded schema.
func validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return firstCause(ve)
		}
		return err
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("snapshot.schema.json", strings.NewReader(rawSchema)); err != nil {
		return nil, fmt.Errorf("load snapshot schema: %w", err)
	}
	schema, err := compiler.Compile("snapshot.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	return schema, nil
}

// firstCause drills into a validation error tree and returns the most
// specific violation as a ValidationError.
func firstCause(err *jsonschema.ValidationError) error {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return &ValidationError{
		Path: utils.JSONPointerToPath(err.InstanceLocation),
		Err:  fmt.Errorf("%s", err.Message),
	}
}
