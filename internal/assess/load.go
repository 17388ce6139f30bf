package assess

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Kind is a batch file encoding.
type Kind string

const (
	KindJSON Kind = "json"
	KindYAML Kind = "yaml"
	KindCSV  Kind = "csv"
)

//go:embed schema/measurements.schema.json
var schemaJSON []byte

const schemaURL = "measurements.schema.json"

var (
	schemaOnce sync.Once
	batchSch   *jsonschema.Schema
	recordSch  *jsonschema.Schema
	schemaErr  error
)

// csvColumns are the recognized CSV header names. Only sex, metric and
// value are required; columns may appear in any order.
var csvColumns = []string{"id", "child_id", "sex", "metric", "value", "age_months", "birth_date", "measured_on"}

// KindFromPath picks the encoding from a file extension.
func KindFromPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return KindJSON, nil
	case ".yaml", ".yml":
		return KindYAML, nil
	case ".csv":
		return KindCSV, nil
	default:
		return "", fmt.Errorf("unsupported batch file %q: want .json, .yaml, .yml or .csv", path)
	}
}

// ReadFile reads a batch file and reports its encoding.
func ReadFile(path string) ([]byte, Kind, error) {
	kind, err := KindFromPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read batch: %w", err)
	}
	return data, kind, nil
}

// Parse decodes batch data of the given kind. Only a batch whose layout
// cannot be read fails as a whole; a record with a missing or mistyped
// field is returned and later rejected on its own.
func Parse(data []byte, kind Kind) ([]Measurement, error) {
	var (
		ms  []Measurement
		err error
	)
	switch kind {
	case KindJSON:
		ms, err = parseJSON(data)
	case KindYAML:
		ms, err = parseYAML(data)
	case KindCSV:
		ms, err = parseCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported batch kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, ErrNoMeasurements
	}
	return ms, nil
}

func schemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = err
			return
		}
		if batchSch, schemaErr = c.Compile(schemaURL); schemaErr != nil {
			return
		}
		recordSch, schemaErr = c.Compile(schemaURL + "#/$defs/measurement")
	})
	return batchSch, recordSch, schemaErr
}

func parseJSON(data []byte) ([]Measurement, error) {
	batch, record, err := schemas()
	if err != nil {
		return nil, fmt.Errorf("failed to compile batch schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON batch: %w", err)
	}
	if err := batch.Validate(inst); err != nil {
		return nil, fmt.Errorf("batch does not match schema: %w", err)
	}

	var raw struct {
		Measurements []json.RawMessage `json:"measurements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON batch: %w", err)
	}

	ms := make([]Measurement, 0, len(raw.Measurements))
	for i, item := range raw.Measurements {
		var m Measurement
		// A type mismatch leaves the offending field zero and decodes the rest,
		// so the record keeps its id for the rejection message.
		decodeErr := json.Unmarshal(item, &m)

		itemInst, err := jsonschema.UnmarshalJSON(bytes.NewReader(item))
		if err == nil {
			err = record.Validate(itemInst)
		}
		switch {
		case err != nil:
			m.decodeErrs = append(m.decodeErrs, fmt.Errorf("record %d does not match schema: %w", i+1, err))
		case decodeErr != nil:
			m.decodeErrs = append(m.decodeErrs, fmt.Errorf("record %d: %w", i+1, decodeErr))
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func parseYAML(data []byte) ([]Measurement, error) {
	var raw struct {
		Measurements []yaml.Node `yaml:"measurements"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML batch: %w", err)
	}

	ms := make([]Measurement, 0, len(raw.Measurements))
	for _, node := range raw.Measurements {
		var m Measurement
		if node.Kind != yaml.MappingNode {
			m.decodeErrs = append(m.decodeErrs, fmt.Errorf("YAML line %d: record must be a mapping", node.Line))
		} else if err := node.Decode(&m); err != nil {
			m.decodeErrs = append(m.decodeErrs, fmt.Errorf("YAML line %d: %w", node.Line, err))
		}
		ms = append(ms, m)
	}
	return ms, nil
}
func parseCSV(r io.Reader) ([]Measurement, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"sex", "metric", "value"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV header missing column %q (known columns: %s)",
				required, strings.Join(csvColumns, ","))
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var ms []Measurement
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		m := Measurement{
			ID:         field(rec, "id"),
			ChildID:    field(rec, "child_id"),
			Sex:        field(rec, "sex"),
			Metric:     field(rec, "metric"),
			BirthDate:  field(rec, "birth_date"),
			MeasuredOn: field(rec, "measured_on"),
		}
		if m.Value, err = strconv.ParseFloat(field(rec, "value"), 64); err != nil {
			m.decodeErrs = append(m.decodeErrs, fmt.Errorf("CSV line %d: value: %w", line, err))
		}
		if s := field(rec, "age_months"); s != "" {
			age, err := strconv.ParseFloat(s, 64)
			if err != nil {
				m.decodeErrs = append(m.decodeErrs, fmt.Errorf("CSV line %d: age_months: %w", line, err))
			} else {
				m.AgeMonths = &age
			}
		}
		ms = append(ms, m)
	}
	return ms, nil
}
