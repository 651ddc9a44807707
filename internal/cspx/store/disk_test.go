package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itdojp/cspx/internal/cspx/lts"
)

func TestDiskStoreInsertContainsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s := NewDiskStore(dir, nil)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	isNew, err := s.Insert(stateA())
	if err != nil || !isNew {
		t.Fatalf("expected new insert, got %v %v", isNew, err)
	}
	isNew, err = s.Insert(stateA())
	if err != nil || isNew {
		t.Fatalf("expected duplicate insert to report isNew=false")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2 := NewDiskStore(dir, nil)
	if err := s2.Open(); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	ok, err := s2.Contains(stateA())
	if err != nil || !ok {
		t.Fatalf("expected recovered store to contain previously inserted state, ok=%v err=%v", ok, err)
	}
	if s2.Len() != 1 {
		t.Fatalf("expected recovered Len()=1, got %d", s2.Len())
	}
}

func TestDiskStoreSecondOpenIsLocked(t *testing.T) {
	dir := t.TempDir()
	s1 := NewDiskStore(dir, nil)
	if err := s1.Open(); err != nil {
		t.Fatal(err)
	}
	defer s1.Close()

	s2 := NewDiskStore(dir, nil)
	if err := s2.Open(); err == nil {
		t.Fatal("expected second Open on the same directory to fail while the first is held")
	}
}

func TestDiskStoreDiscardsTruncatedTrailingRecord(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStore(dir, nil)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(stateA()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Simulate a crash mid-write: a partial hex record with no
	// terminating newline appended after the one durable record.
	logPath := filepath.Join(dir, logFileName)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("07015"); err != nil {
		t.Fatal(err)
	}
	f.Close()
	if err := os.Remove(filepath.Join(dir, idxFileName)); err != nil {
		t.Fatal(err)
	}

	s2 := NewDiskStore(dir, nil)
	if err := s2.Open(); err != nil {
		t.Fatalf("expected truncated trailing record to be recoverable, got: %v", err)
	}
	defer s2.Close()
	if s2.Len() != 1 {
		t.Fatalf("expected only the one complete record to survive, got Len()=%d", s2.Len())
	}
	ok, err := s2.Contains(stateA())
	if err != nil || !ok {
		t.Fatalf("expected the complete record to remain readable, ok=%v err=%v", ok, err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "00\n" {
		t.Fatalf("expected log truncated to the last complete record, got %q", data)
	}
}

func TestDiskStoreDetectsMidLogCorruption(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStore(dir, nil)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(stateA()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(stateB()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	logPath := filepath.Join(dir, logFileName)
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	// Rewrite the first, newline-complete record's hex digits so it no
	// longer decodes to a valid encoding, without touching the file
	// length: the corruption must not be mistaken for a truncated tail.
	if string(data[:2]) != "00" {
		t.Fatalf("test assumption broken, first record was %q", data[:2])
	}
	data[0], data[1] = '0', '1'
	if err := os.WriteFile(logPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, idxFileName)); err != nil {
		t.Fatal(err)
	}

	s2 := NewDiskStore(dir, nil)
	err = s2.Open()
	if err == nil {
		t.Fatal("expected mid-log corruption to be fatal")
	}
	if se, ok := err.(*StoreError); !ok || se.Code != ErrCorrupted {
		t.Fatalf("expected ErrCorrupted, got %v", err)
	}
}

func TestDiskStoreIndexHasLogLenHeader(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStore(dir, nil)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(stateA()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	logInfo, err := os.Stat(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, idxFileName))
	if err != nil {
		t.Fatal(err)
	}
	want := "cspx-disk-index-v1 log_len=" + fmt.Sprintf("%020d", logInfo.Size())
	got := strings.SplitN(string(data), "\n", 2)[0]
	if got != want {
		t.Fatalf("expected header %q, got %q", want, got)
	}
}

func TestDiskStoreRebuildsIndexWhenDeleted(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStore(dir, nil)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(stateA()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(stateB()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, idxFileName)); err != nil {
		t.Fatal(err)
	}

	s2 := NewDiskStore(dir, nil)
	if err := s2.Open(); err != nil {
		t.Fatalf("expected reopen without state.idx to rebuild from state.log, got: %v", err)
	}
	defer s2.Close()
	if s2.Len() != 2 {
		t.Fatalf("expected Len()=2 after rebuild, got %d", s2.Len())
	}
	for _, want := range []lts.State{stateA(), stateB()} {
		ok, err := s2.Contains(want)
		if err != nil || !ok {
			t.Fatalf("expected rebuilt store to contain %x, ok=%v err=%v", want.Bytes(), ok, err)
		}
	}
}

func TestDiskStoreLenCountsDistinctStatesOnly(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStore(dir, nil)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.Insert(stateA())
	s.Insert(stateB())
	s.Insert(stateA())
	if s.Len() != 2 {
		t.Fatalf("expected Len()=2, got %d", s.Len())
	}
}
