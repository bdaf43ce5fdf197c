package progress

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"learnboard/internal/models"
)

func task(id int64, progress *models.TaskProgress) models.Task {
	return models.Task{ID: id, Progress: progress}
}

func done() *models.TaskProgress    { return &models.TaskProgress{Completed: true} }
func pending() *models.TaskProgress { return &models.TaskProgress{Completed: false} }

func TestPercent(t *testing.T) {
	tests := []struct {
		name             string
		completed, total int
		want             int
	}{
		{name: "empty", completed: 0, total: 0, want: 0},
		{name: "none done", completed: 0, total: 3, want: 0},
		{name: "all done", completed: 4, total: 4, want: 100},
		{name: "one third", completed: 1, total: 3, want: 33},
		{name: "two thirds", completed: 2, total: 3, want: 67},
		{name: "half rounds to even down", completed: 1, total: 8, want: 12},
		{name: "half rounds to even up", completed: 3, total: 8, want: 38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.completed, tt.total))
		})
	}
}

func TestAggregate(t *testing.T) {
	sections := []models.Section{
		{
			ID: 10,
			Boxes: []models.Box{
				{Tasks: []models.Task{task(1, done()), task(2, pending())}},
				{Tasks: []models.Task{task(3, nil)}},
			},
		},
		{
			ID: 20,
			Boxes: []models.Box{
				{Tasks: []models.Task{task(4, done())}},
			},
		},
		{ID: 30},
	}

	got := Aggregate(sections)
	want := Report{
		Sections: map[int64]Stats{
			10: {Total: 3, Completed: 1, Percent: 33},
			20: {Total: 1, Completed: 1, Percent: 100},
			30: {Total: 0, Completed: 0, Percent: 0},
		},
		Global: Stats{Total: 4, Completed: 2, Percent: 50},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateGlobalEqualsSumOfSections(t *testing.T) {
	sections := []models.Section{
		{ID: 1, Boxes: []models.Box{{Tasks: []models.Task{task(1, done()), task(2, done()), task(3, nil)}}}},
		{ID: 2, Boxes: []models.Box{{Tasks: []models.Task{task(4, pending())}}, {Tasks: []models.Task{task(5, done())}}}},
		{ID: 3, Boxes: []models.Box{{}}},
	}

	report := Aggregate(sections)

	var total, completed int
	for _, s := range report.Sections {
		total += s.Total
		completed += s.Completed
	}
	assert.Equal(t, total, report.Global.Total)
	assert.Equal(t, completed, report.Global.Completed)
	assert.Equal(t, Percent(completed, total), report.Global.Percent)
}

func TestAggregateEmptySheet(t *testing.T) {
	report := Aggregate(nil)

	assert.Empty(t, report.Sections)
	assert.Equal(t, Stats{}, report.Global)
}

func TestAggregateIsDeterministic(t *testing.T) {
	sections := []models.Section{
		{ID: 7, Boxes: []models.Box{{Tasks: []models.Task{task(1, done()), task(2, nil)}}}},
	}

	if diff := cmp.Diff(Aggregate(sections), Aggregate(sections)); diff != "" {
		t.Errorf("same input produced different reports:\n%s", diff)
	}
}
