package provider

import (
	"math"
	"sync"
	"testing"
)

func TestTokenTrackerAdd(t *testing.T) {
	tracker := NewTokenTracker()

	tracker.Add(100, 50)
	tracker.Add(200, 75)

	in, out := tracker.Total()
	if in != 300 {
		t.Errorf("input tokens = %d, want 300", in)
	}
	if out != 125 {
		t.Errorf("output tokens = %d, want 125", out)
	}
	if tracker.Calls() != 2 {
		t.Errorf("calls = %d, want 2", tracker.Calls())
	}
}

func TestTokenTrackerZero(t *testing.T) {
	tracker := NewTokenTracker()

	in, out := tracker.Total()
	if in != 0 || out != 0 || tracker.Calls() != 0 {
		t.Errorf("fresh tracker = (%d, %d, %d calls), want zeros", in, out, tracker.Calls())
	}
	if tracker.Cost() != 0 {
		t.Errorf("fresh tracker cost = %f, want 0", tracker.Cost())
	}
}

func TestTokenTrackerCost(t *testing.T) {
	tracker := NewTokenTracker()
	tracker.Add(1_000_000, 1_000_000)

	// $3/M input + $15/M output.
	want := 18.0
	if got := tracker.Cost(); math.Abs(got-want) > 0.001 {
		t.Errorf("cost = %f, want %f", got, want)
	}
}

func TestTokenTrackerConcurrent(t *testing.T) {
	tracker := NewTokenTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Add(10, 5)
		}()
	}
	wg.Wait()

	in, out := tracker.Total()
	if in != 500 || out != 250 {
		t.Errorf("totals = (%d, %d), want (500, 250)", in, out)
	}
	if tracker.Calls() != 50 {
		t.Errorf("calls = %d, want 50", tracker.Calls())
	}
}
