package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to a file in the real filesystem.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// ReadFile reads content from a file.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MeasurementsCSV is a small batch covering every band: one child with a
// steady weight series, one with a falling length series, and a rejected row.
const MeasurementsCSV = `id,child_id,sex,metric,value,age_months,birth_date,measured_on
w0,noa,female,weight,3.2,0,,
w2,noa,female,weight,5.1,2,,
w4,noa,female,weight,6.4,4,,
w6,noa,female,weight,7.3,6,,
l0,ari,male,length,53.4,0,,
l3,ari,male,length,61.4,3,,
l6,ari,male,length,64.0,6,,
l9,ari,male,length,67.5,9,,
h6,ari,male,head_circumference,46.6,6,,
bad,ari,male,weight,-1,6,,
`

// MeasurementsJSON holds the same kind of records in the JSON batch layout,
// using dates instead of explicit ages for one entry.
const MeasurementsJSON = `{
  "measurements": [
    {"id": "a", "child_id": "noa", "sex": "female", "metric": "weight", "value": 7.3, "age_months": 6},
    {"id": "b", "child_id": "ari", "sex": "male", "metric": "weight", "value": 7.9,
     "birth_date": "2024-01-15", "measured_on": "2024-07-15"}
  ]
}`

// MeasurementsYAML is the YAML batch layout.
const MeasurementsYAML = `measurements:
  - id: a
    child_id: noa
    sex: girl
    metric: length
    value: 74.0
    age_months: 12
  - id: b
    child_id: ari
    sex: boy
    metric: hc
    value: 50.7
    age_months: 24
`

// WriteBatch writes the sample batches into dir and returns their paths
// keyed by extension ("csv", "json", "yaml").
func WriteBatch(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := map[string]string{
		"csv":  MeasurementsCSV,
		"json": MeasurementsJSON,
		"yaml": MeasurementsYAML,
	}
	paths := make(map[string]string, len(files))
	for ext, content := range files {
		paths[ext] = filepath.Join(dir, "measurements."+ext)
		WriteFile(t, paths[ext], content)
	}
	return paths
}
