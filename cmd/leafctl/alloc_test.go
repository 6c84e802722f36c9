package main

import (
	"testing"
)

func TestAllocCommand_ReportsLeaks(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	allocStrings = 50
	allocMaps = 3
	allocLeak = 2

	output, err := captureOutput(t, runAlloc)
	if err != nil {
		t.Fatalf("runAlloc() error = %v", err)
	}
	var res allocResult
	decodeJSON(t, output, &res)

	if res.Allocator != "heap" {
		t.Errorf("allocator = %q, want heap", res.Allocator)
	}
	if res.Leaks != 2 {
		t.Errorf("leaks = %d, want 2", res.Leaks)
	}
	if res.LeakedBytes <= 0 {
		t.Errorf("leaked bytes = %d", res.LeakedBytes)
	}
	if res.Allocations != res.Frees+uint64(res.Leaks) {
		t.Errorf("allocations %d != frees %d + leaks %d", res.Allocations, res.Frees, res.Leaks)
	}
	if res.Metrics["leaf_mem_allocations_total"] == 0 {
		t.Errorf("metrics missing allocations: %v", res.Metrics)
	}
	if res.Slab != nil {
		t.Error("heap run should not report slab stats")
	}
}

func TestAllocCommand_Slab(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	allocAllocator = "slab"
	allocSizeClasses = "fine"
	allocStrings = 100

	output, err := captureOutput(t, runAlloc)
	if err != nil {
		t.Fatalf("runAlloc() error = %v", err)
	}
	var res allocResult
	decodeJSON(t, output, &res)

	if res.Slab == nil {
		t.Fatal("slab stats missing")
	}
	if res.Slab.Hits == 0 {
		t.Errorf("expected free-list reuse, got %+v", *res.Slab)
	}
	if res.Leaks != 0 {
		t.Errorf("leaks = %d, want 0", res.Leaks)
	}
	if res.Metrics["leaf_mem_slab_hits_total"] != float64(res.Slab.Hits) {
		t.Errorf("metric hits %v != stats hits %d", res.Metrics["leaf_mem_slab_hits_total"], res.Slab.Hits)
	}
}

func TestAllocCommand_Text(t *testing.T) {
	resetFlags(t)
	allocStrings = 10
	allocMaps = 1
	allocLeak = 1

	output, err := captureOutput(t, runAlloc)
	if err != nil {
		t.Fatalf("runAlloc() error = %v", err)
	}
	assertContains(t, output, []string{"allocator: heap", "leaks: 1 blocks"})
}

func TestAllocCommand_BadAllocator(t *testing.T) {
	resetFlags(t)
	allocAllocator = "arena"
	if _, err := captureOutput(t, runAlloc); err == nil {
		t.Error("expected error for unknown allocator")
	}
}
