package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

// RejectedRecord reports a record that was flagged at the boundary instead
// of failing deep inside scoring.
type RejectedRecord struct {
	Index  int
	ID     string
	Reason string
}

// Decode converts loose key-value records into typed postings. Records
// missing mandatory fields are rejected, not dropped silently.
func Decode(records []map[string]any) (*Jobs, []RejectedRecord) {
	jobs := &Jobs{}
	var rejected []RejectedRecord

	for i, record := range records {
		var job *JobPosting

		cfg := &mapstructure.DecoderConfig{
			Metadata: nil,
			Result:   &job,
			TagName:  "json",
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err == nil {
			err = decoder.Decode(record)
		}
		if err != nil {
			rejected = append(rejected, RejectedRecord{Index: i, Reason: err.Error()})
			continue
		}

		if err := job.Validate(); err != nil {
			rejected = append(rejected, RejectedRecord{Index: i, ID: job.ID, Reason: err.Error()})
			continue
		}

		jobs.Items = append(jobs.Items, job)
	}

	return jobs, rejected
}

// FromFile loads a catalog snapshot from a JSON array of job records.
func FromFile(path string) (*Jobs, []RejectedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("parsing catalog file %q: %w", path, err)
	}

	jobs, rejected := Decode(records)
	return jobs, rejected, nil
}
