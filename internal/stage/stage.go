// Package stage collapses task categories into the fixed six-stage
// customer-facing pipeline shown on the public progress check page.
// This is the single derivation point: handlers read the derived
// steps and never recompute them.
package stage

import (
	"github.com/garasindo/wms/internal/model"
)

// StepCount is the number of customer-facing stages.
const StepCount = 6

// Stage is one entry of the fixed pipeline configuration table.
type Stage struct {
	Ordinal int    `json:"step"`
	Slug    string `json:"slug"`
	Label   string `json:"label"`
	Warna   string `json:"warna"`
}

// StepStatus is the derived state of one stage.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepActive    StepStatus = "active"
	StepCompleted StepStatus = "completed"
)

// Step is a derived pipeline entry for one project.
type Step struct {
	Step       int        `json:"step"`
	Slug       string     `json:"slug"`
	Label      string     `json:"label"`
	Kategori   string     `json:"kategori"`
	Status     StepStatus `json:"status"`
	Progress   int        `json:"progress"`
	IsCritical bool       `json:"isCritical"`
	Warna      string     `json:"warna"`
}

// Pipeline is the fixed stage table, ordinals 1..6.
var Pipeline = []Stage{
	{Ordinal: 1, Slug: "bongkar-body", Label: "Bongkar Body", Warna: "#ef4444"},
	{Ordinal: 2, Slug: "repair-body", Label: "Repair Body", Warna: "#f97316"},
	{Ordinal: 3, Slug: "pengampelasan", Label: "Pengampelasan", Warna: "#eab308"},
	{Ordinal: 4, Slug: "poxy", Label: "Poxy", Warna: "#22c55e"},
	{Ordinal: 5, Slug: "repaint-clear", Label: "Repaint & Clear", Warna: "#3b82f6"},
	{Ordinal: 6, Slug: "pemasangan-body", Label: "Pemasangan Body", Warna: "#8b5cf6"},
}

// categoryStage maps task categories onto stage ordinals, many-to-one.
// quality_check and other stay unmapped and are excluded from stage
// derivation.
var categoryStage = map[model.TaskCategory]int{
	model.CategoryBongkarBody:    1,
	model.CategoryRepairBody:     2,
	model.CategoryPengampelasan:  3,
	model.CategoryPoxy:           4,
	model.CategoryBaseCoat:       4,
	model.CategoryColorCoat:      5,
	model.CategoryClearCoat:      5,
	model.CategoryPemasanganBody: 6,
}

// MapCategory returns the stage ordinal for a task category, or
// false when the category has no customer-facing stage.
func MapCategory(c model.TaskCategory) (int, bool) {
	ord, ok := categoryStage[c]
	return ord, ok
}

// Derive computes the six pipeline steps and the current step for a
// project's task set. The rule is single and stage-first: each
// task-bearing stage derives its status from its tasks, and the
// current step is the lowest stage ordinal that is not completed
// (StepCount when everything is done). Cancelled tasks are ignored.
func Derive(tasks []model.Task) ([]Step, int) {
	byStage := make(map[int][]*model.Task)
	for i := range tasks {
		t := &tasks[i]
		if t.Status == model.TaskStatusCancelled {
			continue
		}
		if ord, ok := MapCategory(t.Category); ok {
			byStage[ord] = append(byStage[ord], t)
		}
	}

	// First pass: stages that own tasks.
	statuses := make(map[int]StepStatus)
	for ord, ts := range byStage {
		statuses[ord] = deriveStageStatus(ts)
	}

	current := currentStep(byStage, statuses)

	steps := make([]Step, 0, StepCount)
	for _, cfg := range Pipeline {
		step := Step{
			Step:     cfg.Ordinal,
			Slug:     cfg.Slug,
			Label:    cfg.Label,
			Kategori: cfg.Slug,
			Warna:    cfg.Warna,
		}
		if ts, ok := byStage[cfg.Ordinal]; ok {
			step.Status = statuses[cfg.Ordinal]
			if step.Status != StepCompleted && cfg.Ordinal == current {
				step.Status = StepActive
			}
			step.Progress = averageProgress(ts)
			for _, t := range ts {
				if t.IsCritical {
					step.IsCritical = true
					break
				}
			}
		} else {
			// Empty stage: position relative to the current step.
			switch {
			case cfg.Ordinal < current:
				step.Status = StepCompleted
				step.Progress = 100
			case cfg.Ordinal == current:
				step.Status = StepActive
			default:
				step.Status = StepPending
			}
		}
		steps = append(steps, step)
	}

	return steps, current
}

// CurrentStep returns only the current step ordinal for tasks.
func CurrentStep(tasks []model.Task) int {
	_, current := Derive(tasks)
	return current
}

func deriveStageStatus(ts []*model.Task) StepStatus {
	all := true
	for _, t := range ts {
		if t.Status != model.TaskStatusCompleted {
			all = false
		}
	}
	if all {
		return StepCompleted
	}
	for _, t := range ts {
		if t.Status == model.TaskStatusInProgress {
			return StepActive
		}
	}
	return StepPending
}

// currentStep is the lowest task-bearing stage ordinal that is not
// completed; StepCount once every task-bearing stage is done, 1 when
// no task maps to any stage.
func currentStep(byStage map[int][]*model.Task, statuses map[int]StepStatus) int {
	if len(byStage) == 0 {
		return 1
	}
	for _, cfg := range Pipeline {
		st, ok := statuses[cfg.Ordinal]
		if ok && st != StepCompleted {
			return cfg.Ordinal
		}
	}
	return StepCount
}

func averageProgress(ts []*model.Task) int {
	if len(ts) == 0 {
		return 0
	}
	sum := 0
	for _, t := range ts {
		sum += t.ProgressPercentage
	}
	return sum / len(ts)
}
