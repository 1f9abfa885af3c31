package catalog

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// JobPosting is the typed form of an externally stored job record. Records
// are validated at the boundary where they enter the engine; anything beyond
// the ID is optional.
type JobPosting struct {
	ID                string   `json:"id,omitempty"`
	Title             string   `json:"title,omitempty"`
	Company           string   `json:"company,omitempty"`
	Description       string   `json:"description,omitempty"`
	RequiredSkills    []string `json:"required_skills,omitempty"`
	PreferredSkills   []string `json:"preferred_skills,omitempty"`
	RequiredYears     int      `json:"experience_years,omitempty"`
	RequiredEducation string   `json:"required_education,omitempty"`
	Location          string   `json:"location,omitempty"`
	SalaryRange       string   `json:"salary_range,omitempty"`
	Status            string   `json:"status,omitempty"`
	PostedAt          string   `json:"posted_date,omitempty"`
}

// InvalidJobError describes a record rejected at the catalog boundary.
type InvalidJobError struct {
	ID     string
	Reason string
}

func (e *InvalidJobError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid job record: %s", e.Reason)
	}
	return fmt.Sprintf("invalid job record %s: %s", e.ID, e.Reason)
}

func (j *JobPosting) Validate() error {
	if j == nil {
		return &InvalidJobError{Reason: "record is nil"}
	}
	if strings.TrimSpace(j.ID) == "" {
		return &InvalidJobError{Reason: "missing id"}
	}
	return nil
}

// IsActive treats an empty status as active: most stores only set the field
// when a posting is closed.
func (j *JobPosting) IsActive() bool {
	status := strings.ToLower(strings.TrimSpace(j.Status))
	return status == "" || status == StatusActive
}

// EmbeddingText is the content an embedding is computed from.
func (j *JobPosting) EmbeddingText() string {
	parts := []string{j.Title, j.Description}
	parts = append(parts, j.RequiredSkills...)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Fingerprint is a digest of the fields that feed the job's embedding. A
// changed fingerprint invalidates any cached derivative of the posting.
func (j *JobPosting) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(j.Title))
	h.Write([]byte{0})
	h.Write([]byte(j.Description))
	for _, skill := range j.RequiredSkills {
		h.Write([]byte{0})
		h.Write([]byte(skill))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Jobs is a snapshot of the catalog taken per ranking call.
type Jobs struct {
	Items []*JobPosting
}

func (j *Jobs) Len() int {
	if j == nil {
		return 0
	}
	return len(j.Items)
}

func (j *Jobs) FindByID(id string) *JobPosting {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Active returns the postings that are open for matching.
func (j *Jobs) Active() *Jobs {
	active := &Jobs{}
	for _, job := range j.Items {
		if job.IsActive() {
			active.Items = append(active.Items, job)
		}
	}
	return active
}

// DumpToTmpFile writes the snapshot to a temporary JSON file and returns its
// name.
func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}
