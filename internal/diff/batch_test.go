package diff

import (
	"context"
	"fmt"
	"testing"

	"github.com/klauern/calsift/internal/model"
)

func batchInputs(n int) []BatchInput {
	inputs := make([]BatchInput, n)
	for i := range inputs {
		uid := fmt.Sprintf("e%d", i)
		inputs[i] = BatchInput{
			Name:   fmt.Sprintf("calendar-%d", i),
			Before: []model.CalendarEvent{holiday(uid, "Before", datePtr(2024, 1, 1), nil)},
			After:  []model.CalendarEvent{holiday(uid, "After", datePtr(2024, 1, 1), nil)},
		}
	}
	return inputs
}

func TestEngine_CompareAll(t *testing.T) {
	inputs := batchInputs(8)

	results, err := NewEngine().CompareAll(context.Background(), inputs, BatchOptions{Workers: 3})
	if err != nil {
		t.Fatalf("CompareAll() error = %v", err)
	}

	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}

	// Results come back in input order regardless of worker scheduling.
	for i, r := range results {
		if r.Name != inputs[i].Name {
			t.Errorf("results[%d].Name = %q, want %q", i, r.Name, inputs[i].Name)
		}
		if r.Result.Statistics.Modified != 1 {
			t.Errorf("results[%d] Modified = %d, want 1", i, r.Result.Statistics.Modified)
		}
	}
}

func TestEngine_CompareAll_DefaultsWorkers(t *testing.T) {
	results, err := NewEngine().CompareAll(context.Background(), batchInputs(2), BatchOptions{})
	if err != nil {
		t.Fatalf("CompareAll() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestEngine_CompareAll_Progress(t *testing.T) {
	var calls int
	var lastDone, lastTotal int

	_, err := NewEngine().CompareAll(context.Background(), batchInputs(5), BatchOptions{
		Workers: 2,
		OnProgress: func(done, total int) {
			calls++
			lastDone, lastTotal = done, total
		},
	})
	if err != nil {
		t.Fatalf("CompareAll() error = %v", err)
	}

	if calls != 5 {
		t.Errorf("OnProgress called %d times, want 5", calls)
	}
	if lastDone != 5 || lastTotal != 5 {
		t.Errorf("final progress = %d/%d, want 5/5", lastDone, lastTotal)
	}
}

func TestEngine_CompareAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().CompareAll(ctx, batchInputs(4), BatchOptions{Workers: 2})
	if err == nil {
		t.Error("CompareAll() with cancelled context returned nil error")
	}
}

func TestEngine_CompareAll_EmptyInput(t *testing.T) {
	results, err := NewEngine().CompareAll(context.Background(), nil, BatchOptions{})
	if err != nil {
		t.Fatalf("CompareAll() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
