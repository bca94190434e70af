// Package cpm implements the Critical Path Method over a task
// dependency DAG: forward pass for earliest start/finish, backward
// pass for latest start/finish, total float and critical-path flags.
package cpm

import (
	"fmt"
	"sort"
)

// CycleError reports a dependency cycle in the predecessor graph.
type CycleError struct {
	// Remaining holds the task IDs the topological sort could not
	// consume; every cycle member is in here.
	Remaining []int64
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected among tasks %v", e.Remaining)
}

// DanglingError reports a predecessor id that does not exist in the task set.
type DanglingError struct {
	TaskID        int64
	PredecessorID int64
}

func (e *DanglingError) Error() string {
	return fmt.Sprintf("task %d references unknown predecessor %d", e.TaskID, e.PredecessorID)
}

// DurationError reports a non-positive task duration.
type DurationError struct {
	TaskID int64
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("task %d has non-positive duration", e.TaskID)
}

// Calculate runs the full CPM analysis over tasks. It is a pure
// function of its input: no side effects, deterministic, and running
// it twice on the same input yields identical results.
func Calculate(tasks []TaskInput) (*Result, error) {
	byID := make(map[int64]TaskInput, len(tasks))
	for _, t := range tasks {
		if t.DurationDays <= 0 {
			return nil, &DurationError{TaskID: t.ID}
		}
		byID[t.ID] = t
	}

	// Successor adjacency, built as the inverse of the predecessor lists.
	succ := make(map[int64][]int64, len(tasks))
	for _, t := range tasks {
		for _, p := range t.PredecessorIDs {
			if _, ok := byID[p]; !ok {
				return nil, &DanglingError{TaskID: t.ID, PredecessorID: p}
			}
			succ[p] = append(succ[p], t.ID)
		}
	}
	for id := range succ {
		s := succ[id]
		sort.Slice(s, func(a, b int) bool { return s[a] < s[b] })
	}

	order, err := topoSort(tasks, succ)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Tasks:     make(map[int64]*Schedule, len(tasks)),
		TopoOrder: order,
	}
	for _, id := range order {
		result.Tasks[id] = &Schedule{TaskID: id}
	}

	// Forward pass: ES = max EF over predecessors, 0 for roots.
	for _, id := range order {
		s := result.Tasks[id]
		for _, p := range byID[id].PredecessorIDs {
			if pe := result.Tasks[p].EF; pe > s.ES {
				s.ES = pe
			}
		}
		s.EF = s.ES + byID[id].DurationDays
		if s.EF > result.Duration {
			result.Duration = s.EF
		}
	}

	// Backward pass in reverse topological order: LF = min LS over
	// successors, project duration for tasks that finish the schedule.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		s := result.Tasks[id]
		s.LF = result.Duration
		for _, n := range succ[id] {
			if ls := result.Tasks[n].LS; ls < s.LF {
				s.LF = ls
			}
		}
		s.LS = s.LF - byID[id].DurationDays
		s.TotalFloat = s.LS - s.ES
		s.IsCritical = s.TotalFloat == 0
	}

	for _, id := range order {
		if result.Tasks[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	return result, nil
}

// topoSort runs Kahn's algorithm. ID order breaks ties so the
// returned order is stable across runs.
func topoSort(tasks []TaskInput, succ map[int64][]int64) ([]int64, error) {
	inDegree := make(map[int64]int, len(tasks))
	for _, t := range tasks {
		inDegree[t.ID] = len(t.PredecessorIDs)
	}

	var queue []int64
	for _, t := range tasks {
		if inDegree[t.ID] == 0 {
			queue = append(queue, t.ID)
		}
	}
	sort.Slice(queue, func(a, b int) bool { return queue[a] < queue[b] })

	order := make([]int64, 0, len(tasks))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		var ready []int64
		for _, n := range succ[id] {
			inDegree[n]--
			if inDegree[n] == 0 {
				ready = append(ready, n)
			}
		}
		sort.Slice(ready, func(a, b int) bool { return ready[a] < ready[b] })
		queue = append(queue, ready...)
	}

	if len(order) != len(tasks) {
		seen := make(map[int64]bool, len(order))
		for _, id := range order {
			seen[id] = true
		}
		var remaining []int64
		for _, t := range tasks {
			if !seen[t.ID] {
				remaining = append(remaining, t.ID)
			}
		}
		sort.Slice(remaining, func(a, b int) bool { return remaining[a] < remaining[b] })
		return nil, &CycleError{Remaining: remaining}
	}

	return order, nil
}
