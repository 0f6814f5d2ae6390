package model

import "time"

// Run triggers
const (
	TriggerCLI     = "cli"
	TriggerWebhook = "webhook"
)

// Run is one execution of the generator dispatch loop
type Run struct {
	ID         string      `json:"id" firestore:"id"`
	Trigger    string      `json:"trigger" firestore:"trigger"`
	StartedAt  time.Time   `json:"started_at" firestore:"started_at"`
	FinishedAt time.Time   `json:"finished_at" firestore:"finished_at"`
	Results    []RunResult `json:"results" firestore:"results"`
	Error      string      `json:"error,omitempty" firestore:"error,omitempty"`
}

// RunResult is the outcome of one generator against one entry
type RunResult struct {
	Entry     string `json:"entry" firestore:"entry"`
	Generator string `json:"generator" firestore:"generator"`
	Skipped   bool   `json:"skipped" firestore:"skipped"`
	Error     string `json:"error,omitempty" firestore:"error,omitempty"`
}

// Duration returns elapsed time of the run.
func (x *Run) Duration() time.Duration {
	return x.FinishedAt.Sub(x.StartedAt)
}
