package worker

import "time"

// Pool defaults
const (
	DefaultWorkers    = 2
	DefaultJobTimeout = 10 * time.Second
)

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

const (
	// LogMsgWorkerJobFailed is logged when a worker fails to process a job
	LogMsgWorkerJobFailed = "Worker job failed"

	// LogMsgWorkerJobPanicked is logged when a job panics; the worker keeps running
	LogMsgWorkerJobPanicked = "Worker job panicked"

	// LogMsgWorkerQueueFull is logged when a job is dropped
	LogMsgWorkerQueueFull = "Worker queue full, dropping job"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount  = 2
	TestQueueSize    = 10
	TestJobCount     = 5
	TestWaitDuration = time.Second
)
