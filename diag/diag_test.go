package diag

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCountersConcurrent(t *testing.T) {
	var c Counters
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.AddUnmappedRead()
				if j%2 == 0 {
					c.AddUnmappedWrite()
				}
			}
		}()
	}
	wg.Wait()

	want := Snapshot{UnmappedReads: 16000, UnmappedWrites: 8000}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestCountersReset(t *testing.T) {
	var c Counters
	c.AddUnmappedRead()
	c.AddUnmappedWrite()
	c.Reset()
	if c.UnmappedReads() != 0 || c.UnmappedWrites() != 0 {
		t.Errorf("after Reset got %v, want zero counters", c.Snapshot())
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default() returned different instances")
	}
}

func TestSnapshotString(t *testing.T) {
	got := Snapshot{UnmappedReads: 3, UnmappedWrites: 1}.String()
	if want := "unmapped reads: 3; unmapped writes: 1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
