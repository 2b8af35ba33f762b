package entity

import "time"

// Snapshot is the published content of one stored result set.
type Snapshot struct {
	Timestamp time.Time   `json:"timestamp"`
	ItemCount int         `json:"itemCount"`
	Items     []ResultRow `json:"items"`
}

// SnapshotInfo is the store-side metadata of a stored object.
type SnapshotInfo struct {
	Pathname   string    `json:"pathname"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
	Size       int64     `json:"size,omitempty"`
}

// ExecutionLog is uploaded after every run, successful or not.
type ExecutionLog struct {
	RunID     string    `json:"runId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Stats     RunStats  `json:"stats"`
	Snapshot  string    `json:"snapshot,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RunStats are the counters of a single pipeline run.
type RunStats struct {
	MappingItems   int `json:"mappingItems"`
	Ineligible     int `json:"ineligible"`
	Candidates     int `json:"candidates"`
	SuccessCount   int `json:"successCount"`
	FailCount      int `json:"failCount"`
	Unprofitable   int `json:"unprofitable"`
	Published      int `json:"published"`
	DeletedObjects int `json:"deletedObjects"`
}
