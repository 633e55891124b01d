package installer

import (
	"time"

	"github.com/NVIDIA/sentinel-installer/pkg/backup"
	"github.com/NVIDIA/sentinel-installer/pkg/requirement"
)

// Outcome classifies a single step result.
type Outcome string

const (
	// OutcomeSuccess means the step completed.
	OutcomeSuccess Outcome = "Success"
	// OutcomeWarning means an optional step failed; the run continued.
	OutcomeWarning Outcome = "Warning"
	// OutcomeFatal means a required step failed; the run aborted.
	OutcomeFatal Outcome = "Fatal"
)

// StepResult is the immutable record of one executed step. Each result
// is appended to the installation log the moment it is produced.
type StepResult struct {
	StepName  string    `json:"stepName" yaml:"stepName"`
	Outcome   Outcome   `json:"outcome" yaml:"outcome"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// RunStatus is the overall run outcome.
type RunStatus string

const (
	// RunStatusSuccess means every step reached Success or Warning.
	RunStatusSuccess RunStatus = "success"
	// RunStatusAborted means the run stopped before completion.
	RunStatusAborted RunStatus = "aborted"
)

// RunReport is the complete outcome of one installer run.
type RunReport struct {
	RunID    string    `json:"runId" yaml:"runId"`
	Version  string    `json:"version" yaml:"version"`
	Mode     Mode      `json:"mode,omitempty" yaml:"mode,omitempty"`
	Status   RunStatus `json:"status" yaml:"status"`
	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished" yaml:"finished"`

	Verdict *requirement.Verdict `json:"verdict,omitempty" yaml:"verdict,omitempty"`
	Backup  *backup.Record       `json:"backup,omitempty" yaml:"backup,omitempty"`
	Results []StepResult         `json:"results" yaml:"results"`

	// Error holds the abort reason, when any.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
