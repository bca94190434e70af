package cpm

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func assertSchedule(t *testing.T, s *Schedule, es, ef, ls, lf, float int, critical bool) {
	t.Helper()
	if s == nil {
		t.Fatal("schedule missing")
	}
	if s.ES != es || s.EF != ef || s.LS != ls || s.LF != lf {
		t.Errorf("task %d: got ES/EF/LS/LF = %d/%d/%d/%d, want %d/%d/%d/%d",
			s.TaskID, s.ES, s.EF, s.LS, s.LF, es, ef, ls, lf)
	}
	if s.TotalFloat != float {
		t.Errorf("task %d: got float %d, want %d", s.TaskID, s.TotalFloat, float)
	}
	if s.IsCritical != critical {
		t.Errorf("task %d: got critical=%v, want %v", s.TaskID, s.IsCritical, critical)
	}
}

func TestCalculate_LinearChain(t *testing.T) {
	// T1(2) -> T2(3) -> T3(1)
	tasks := []TaskInput{
		{ID: 1, DurationDays: 2},
		{ID: 2, DurationDays: 3, PredecessorIDs: []int64{1}},
		{ID: 3, DurationDays: 1, PredecessorIDs: []int64{2}},
	}

	result, err := Calculate(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Duration != 6 {
		t.Errorf("expected project duration 6, got %d", result.Duration)
	}
	assertSchedule(t, result.Tasks[1], 0, 2, 0, 2, 0, true)
	assertSchedule(t, result.Tasks[2], 2, 5, 2, 5, 0, true)
	assertSchedule(t, result.Tasks[3], 5, 6, 5, 6, 0, true)

	if len(result.CriticalPath) != 3 {
		t.Errorf("expected all 3 tasks critical, got %v", result.CriticalPath)
	}
}

func TestCalculate_ParallelBranchWithSlack(t *testing.T) {
	// T1(2) and T2(5) in parallel, both feeding T3(1).
	tasks := []TaskInput{
		{ID: 1, DurationDays: 2},
		{ID: 2, DurationDays: 5},
		{ID: 3, DurationDays: 1, PredecessorIDs: []int64{1, 2}},
	}

	result, err := Calculate(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.Tasks[3].ES; got != 5 {
		t.Errorf("expected ES(T3)=5, got %d", got)
	}
	if got := result.Tasks[1].TotalFloat; got != 3 {
		t.Errorf("expected T1 float=3, got %d", got)
	}
	if result.Tasks[1].IsCritical {
		t.Error("T1 should not be critical")
	}
	if !result.Tasks[2].IsCritical || !result.Tasks[3].IsCritical {
		t.Error("T2 and T3 should be critical")
	}
}

func TestCalculate_Invariants(t *testing.T) {
	// Diamond with uneven branches plus a detached task.
	tasks := []TaskInput{
		{ID: 10, DurationDays: 3},
		{ID: 11, DurationDays: 2, PredecessorIDs: []int64{10}},
		{ID: 12, DurationDays: 6, PredecessorIDs: []int64{10}},
		{ID: 13, DurationDays: 1, PredecessorIDs: []int64{11, 12}},
		{ID: 14, DurationDays: 4},
	}

	result, err := Calculate(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	durations := map[int64]int{10: 3, 11: 2, 12: 6, 13: 1, 14: 4}
	criticalCount := 0
	for id, s := range result.Tasks {
		if s.EF != s.ES+durations[id] {
			t.Errorf("task %d: EF %d != ES %d + duration %d", id, s.EF, s.ES, durations[id])
		}
		if s.LF != s.LS+durations[id] {
			t.Errorf("task %d: LF %d != LS %d + duration %d", id, s.LF, s.LS, durations[id])
		}
		if s.TotalFloat < 0 {
			t.Errorf("task %d: negative float %d", id, s.TotalFloat)
		}
		if s.IsCritical {
			criticalCount++
		}
	}
	if criticalCount == 0 {
		t.Error("expected at least one critical task")
	}

	// Every predecessor edge must satisfy ES(B) >= EF(A).
	for _, task := range tasks {
		for _, p := range task.PredecessorIDs {
			if result.Tasks[task.ID].ES < result.Tasks[p].EF {
				t.Errorf("edge %d->%d: ES %d < EF %d",
					p, task.ID, result.Tasks[task.ID].ES, result.Tasks[p].EF)
			}
		}
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	tasks := []TaskInput{
		{ID: 1, DurationDays: 2},
		{ID: 2, DurationDays: 5},
		{ID: 3, DurationDays: 1, PredecessorIDs: []int64{1, 2}},
		{ID: 4, DurationDays: 3, PredecessorIDs: []int64{3}},
	}

	first, err := Calculate(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Calculate(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated calculation differs (-first +second):\n%s", diff)
	}
}

func TestCalculate_CycleDetected(t *testing.T) {
	tasks := []TaskInput{
		{ID: 1, DurationDays: 2, PredecessorIDs: []int64{2}},
		{ID: 2, DurationDays: 3, PredecessorIDs: []int64{1}},
	}

	_, err := Calculate(tasks)
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(cycleErr.Remaining) != 2 {
		t.Errorf("expected both tasks reported in cycle, got %v", cycleErr.Remaining)
	}
}

func TestCalculate_DanglingPredecessor(t *testing.T) {
	tasks := []TaskInput{
		{ID: 1, DurationDays: 2, PredecessorIDs: []int64{99}},
	}

	_, err := Calculate(tasks)
	var dangling *DanglingError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingError, got %v", err)
	}
	if dangling.PredecessorID != 99 {
		t.Errorf("expected missing id 99, got %d", dangling.PredecessorID)
	}
}

func TestCalculate_NonPositiveDuration(t *testing.T) {
	_, err := Calculate([]TaskInput{{ID: 1, DurationDays: 0}})
	var durErr *DurationError
	if !errors.As(err, &durErr) {
		t.Fatalf("expected DurationError, got %v", err)
	}
}

func TestCalculate_Empty(t *testing.T) {
	result, err := Calculate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duration != 0 || len(result.Tasks) != 0 {
		t.Errorf("expected empty result, got duration=%d tasks=%d", result.Duration, len(result.Tasks))
	}
}
