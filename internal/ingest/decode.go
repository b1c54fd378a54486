// Package ingest converts task data between its JSON wire shape and the task graph.
package ingest

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aristath/taskboard/internal/taskgraph"
)

//go:embed tasks.schema.json
var schemaSource string

const schemaURL = "tasks.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// wireTask is the JSON shape of one task. Derived state is never part of it.
type wireTask struct {
	ID            int        `json:"id"`
	Task          string     `json:"task"`
	Group         string     `json:"group"`
	DependencyIDs []int      `json:"dependencyIds"`
	CompletedAt   *time.Time `json:"completedAt"`
}

// ValidationError is a single schema violation at a location in the document.
type ValidationError struct {
	Path string // e.g. "0.dependencyIds.1"; empty for the document root
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SchemaError collects every schema violation found in a document.
type SchemaError struct {
	Errors []*ValidationError
}

func (e *SchemaError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return "invalid task data: " + strings.Join(msgs, "; ")
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("loading task schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Decode parses a JSON task list and checks it against the task schema.
// Only the shape is checked; graph problems are left to Validate.
func Decode(data []byte) ([]taskgraph.Record, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing task data: %w", err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var wire []wireTask
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding task data: %w", err)
	}

	records := make([]taskgraph.Record, len(wire))
	for i, w := range wire {
		records[i] = taskgraph.Record{
			ID:            w.ID,
			Text:          w.Task,
			Group:         w.Group,
			DependencyIDs: w.DependencyIDs,
			CompletedAt:   w.CompletedAt,
		}
	}
	return records, nil
}

// Validate rejects batches that cannot be built: repeated ids and dependency cycles.
func Validate(records []taskgraph.Record) error {
	seen := make(map[int]bool, len(records))
	for _, rec := range records {
		if seen[rec.ID] {
			return fmt.Errorf("%w: %d", taskgraph.ErrDuplicateID, rec.ID)
		}
		seen[rec.ID] = true
	}
	return taskgraph.CheckCycles(records)
}

// Load decodes, validates and builds a task set.
func Load(data []byte) (*taskgraph.Set, error) {
	records, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return taskgraph.Build(records)
}

func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validating task data: %w", err)
	}
	result := &SchemaError{}
	collectSchemaErrors(result, ve)
	return result
}

func collectSchemaErrors(result *SchemaError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}
