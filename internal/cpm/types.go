package cpm

// TaskInput is one schedule unit fed into the calculator.
type TaskInput struct {
	ID             int64
	DurationDays   int
	PredecessorIDs []int64
}

// Schedule holds the computed timing for a single task.
// All values are day offsets from project day 0.
type Schedule struct {
	TaskID     int64
	ES, EF     int // earliest start/finish
	LS, LF     int // latest start/finish
	TotalFloat int
	IsCritical bool
}

// Result holds the complete critical path analysis for one project.
type Result struct {
	Tasks        map[int64]*Schedule
	CriticalPath []int64 // critical task IDs in topological order
	Duration     int     // project finish day, max EF over all tasks
	TopoOrder    []int64
}
