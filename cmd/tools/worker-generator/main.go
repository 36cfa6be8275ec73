// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"exposure-risk-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name        string
	PackageName string
	Dir         string
	TaskType    string
	Category    string
	Description string
	Timeout     string
	Input       []Field
	Output      []Field
}

// Field is one struct field derived from a schema property.
type Field struct {
	Name    string
	Type    string
	JSONTag string
	Comment string
}

// schemaFields turns the properties of a JSON schema object into struct
// fields, sorted by property name so output is stable.
func schemaFields(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		f := Field{
			Name:    exportedName(name),
			Type:    goTypeFromJSONType(details["type"]),
			JSONTag: name,
		}
		if desc, ok := details["description"].(string); ok {
			f.Comment = desc
		}
		fields = append(fields, f)
	}
	return fields
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(jsonType interface{}) string {
	switch jsonType {
	case "string":
		return "string"
	case "number":
		return "float64"
	case "integer":
		return "int"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// exportedName converts snake_case, kebab-case and camelCase to an exported
// Go identifier.
func exportedName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	var b strings.Builder
	for _, p := range parts {
		switch strings.ToLower(p) {
		case "id", "ach", "url":
			b.WriteString(strings.ToUpper(p))
		default:
			b.WriteString(strings.ToUpper(p[:1]) + p[1:])
		}
	}
	if b.Len() == 0 {
		return "Field"
	}
	return b.String()
}

const handlerTemplate = `// internal/workers/{{ .Dir }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"exposure-risk-workers/internal/common/camunda"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
)

const (
	TaskType = "{{ .TaskType }}"
)

type Handler struct {
	config       *Config
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		errorHandler: errors.NewErrorHandler(scoped),
		logger:       scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job,
			errors.NewExposureInputInvalidError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	return &Output{}, nil
}
`

const configTemplate = `// internal/workers/{{ .Dir }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: {{ .Timeout }},
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Dir }}/models.go
package {{ .PackageName }}

type Input struct {
{{- range .Input }}
{{- if .Comment }}
	// {{ .Comment }}
{{- end }}
	{{ .Name }} {{ .Type }} ` + "`json:\"{{ .JSONTag }},omitempty\"`" + `
{{- end }}
}

type Output struct {
{{- range .Output }}
{{- if .Comment }}
	// {{ .Comment }}
{{- end }}
	{{ .Name }} {{ .Type }} ` + "`json:\"{{ .JSONTag }}\"`" + `
{{- end }}
}
`

const testTemplate = `// internal/workers/{{ .Dir }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-risk-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), logger.NewTestLogger(t))
}

// ==========================
// Execute Tests
// ==========================

func TestExecute(t *testing.T) {
	handler := createTestHandler(t)

	out, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.NotNil(t, out)
}
`

var templates = map[string]string{
	"handler.go":      handlerTemplate,
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler_test.go": testTemplate,
}

// goDuration renders a registry timeout such as "5s" as a Go expression.
func goDuration(timeout string) string {
	if strings.HasSuffix(timeout, "s") && !strings.HasSuffix(timeout, "ms") {
		return strings.TrimSuffix(timeout, "s") + " * time.Second"
	}
	return "5 * time.Second"
}

func workerData(a registry.Activity) WorkerData {
	return WorkerData{
		Name:        a.DisplayName,
		PackageName: strings.ReplaceAll(a.ID, "-", ""),
		Dir:         filepath.ToSlash(filepath.Join(strings.ToLower(a.Category), a.ID)),
		TaskType:    a.TaskType,
		Category:    a.Category,
		Description: a.Description,
		Timeout:     goDuration(a.Timeout),
		Input:       schemaFields(a.InputSchema),
		Output:      schemaFields(a.OutputSchema),
	}
}

// generate writes the worker scaffold under outputDir and returns the paths
// written. Existing files are left alone unless force is set.
func generate(a registry.Activity, outputDir string, force bool) ([]string, error) {
	data := workerData(a)
	workerDir := filepath.Join(outputDir, filepath.FromSlash(data.Dir))
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := filepath.Join(workerDir, name)
		if _, err := os.Stat(path); err == nil && !force {
			continue
		}
		tmpl, err := template.New(name).Parse(templates[name])
		if err != nil {
			return written, fmt.Errorf("parse template %s: %w", name, err)
		}
		f, err := os.Create(path)
		if err != nil {
			return written, err
		}
		err = tmpl.Execute(f, data)
		f.Close()
		if err != nil {
			return written, fmt.Errorf("render %s: %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func main() {
	activity := flag.String("activity", "", "Task type or activity ID from the registry (e.g., classify-risk-color)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated worker")
	registryPath := flag.String("registry", "", "Path to the activity registry JSON file (embedded when empty)")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator -activity <id> [-output <dir>] [-registry <path>] [-force]")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading registry: %v\n", err)
		os.Exit(1)
	}

	a, ok := reg.Find(*activity)
	if !ok {
		for _, candidate := range reg.Activities {
			if candidate.ID == *activity {
				a, ok = candidate, true
				break
			}
		}
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "Activity %q not found in registry\n", *activity)
		os.Exit(1)
	}

	written, err := generate(a, *outputDir, *force)
	for _, p := range written {
		fmt.Printf("Generated %s\n", p)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  1. Implement execute in handler.go")
	fmt.Println("  2. Register the worker in cmd/worker-manager/main.go")
	fmt.Println("  3. Add its entry under workers: in configs/config.yaml")
}
