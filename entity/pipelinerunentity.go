package entity

import "time"

// Run statuses for PipelineRunEntity.
const (
	RunPending    = "pending"
	RunInProgress = "in_progress"
	RunSuccess    = "success"
	RunFailed     = "failed"
)

// PipelineRunEntity records one ETL run in the pipeline_runs collection,
// keyed by a UUID assigned at start.
type PipelineRunEntity struct {
	RunId      string     `json:"run_id" bson:"_id"`
	Stage      string     `json:"stage" bson:"stage"` // scrape, transform, aggregate
	FilePath   string     `json:"file_path" bson:"file_path"`
	DeviceName string     `json:"device_name" bson:"device_name"`
	Status     string     `json:"status" bson:"status"`
	Documents  int        `json:"documents" bson:"documents"`
	StartedAt  *time.Time `json:"started_at" bson:"started_at"`
	FinishedAt *time.Time `json:"finished_at" bson:"finished_at"`
	ErrorMsg   *string    `json:"error_message" bson:"error_message"`
}

func (PipelineRunEntity) CollectionName() string {
	return "pipeline_runs"
}
