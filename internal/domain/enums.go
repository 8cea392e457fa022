package domain

// TaskStatus is derived from a task's outcome, execution flag and prerequisites.
type TaskStatus string

const (
	TaskAvailable   TaskStatus = "AVAILABLE"
	TaskUnavailable TaskStatus = "UNAVAILABLE"
	TaskExecuting   TaskStatus = "EXECUTING"
	TaskFinished    TaskStatus = "FINISHED"
	TaskFailed      TaskStatus = "FAILED"
)

// IsTerminal reports whether the task has a recorded outcome.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskFinished || s == TaskFailed
}

// FinishStatus classifies a finished task against its estimate.
type FinishStatus string

const (
	FinishedEarly     FinishStatus = "EARLY"
	FinishedOnTime    FinishStatus = "ON_TIME"
	FinishedWithDelay FinishStatus = "WITH_A_DELAY"
)

type ProjectStatus string

const (
	ProjectOngoing  ProjectStatus = "ONGOING"
	ProjectFinished ProjectStatus = "FINISHED"
)

// ProjectFinishingStatus compares a project's (estimated) finish to its due time.
type ProjectFinishingStatus string

const (
	ProjectOnTime   ProjectFinishingStatus = "ON_TIME"
	ProjectOverTime ProjectFinishingStatus = "OVER_TIME"
)
