package worker

import "time"

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 2 * time.Minute

// Log messages
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobDone     = "Worker job finished"
	LogMsgWorkerQueueFull   = "Worker queue full, job dropped"
	LogMsgWorkerPoolStopped = "Worker pool stopped"
)
