package store

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/itdojp/cspx/internal/cspx/lts"
)

// extendedMetrics is the extended metrics bundle beyond the minimal Metrics
// contract: open/lock/index/write timings only the disk backend observes.
// It is checked via type assertion rather than imported, so this package
// never depends on internal/cspx/metrics: that package depends on this one
// for the Metrics interface it extends, and a reverse import would cycle.
type extendedMetrics interface {
	RecordOpen(d time.Duration)
	RecordLockWait(d time.Duration, contended bool)
	RecordIndexLoad(d time.Duration, reused bool)
	RecordIndexRebuild(d time.Duration, entries int)
	RecordWrite(d time.Duration, bytes int)
}

// On-disk layout:
//
//	state.log   append-only; one record per line, each the hexadecimal
//	            encoding of a canonical state (lts.Encode), newline
//	            terminated. Records are immutable once flushed.
//	state.idx   line 1 is the fixed-width header
//	            "cspx-disk-index-v1 log_len=<20-digit n>", n the byte
//	            length of state.log when the index was (re)written.
//	            Subsequent lines mirror the log's hex records, each
//	            followed by a 64-bit FNV-1a hash of the decoded bytes.
//	state.lock  created exclusively at Open; deleted on normal Close. A
//	            lock left behind by a crash must be removed by hand.
const (
	logFileName  = "state.log"
	idxFileName  = "state.idx"
	lockFileName = "state.lock"

	idxHeaderPrefix = "cspx-disk-index-v1 log_len="
	idxHeaderDigits = 20
)

var idxHeaderLen = len(idxHeaderPrefix) + idxHeaderDigits + 1 // +1 for the trailing newline

// DiskStore persists every inserted state to an append-only hex log and
// keeps a full in-memory mirror of the decoded set for O(1) Contains,
// rebuilding that mirror from state.idx (fast path) or state.log (slow
// path) on Open.
type DiskStore struct {
	dir string

	mu            sync.Mutex
	logFile       *os.File
	idxFile       *os.File
	lockF         *os.File
	lockPath      string
	set           map[string]struct{}
	logLen        int64 // current byte length of state.log
	idxAppendAt   int64 // next write offset in state.idx, past the header

	metrics Metrics
	ext     extendedMetrics // non-nil only when metrics also carries the extended bundle
	open    bool
}

// NewDiskStore constructs a DiskStore rooted at dir. dir is created if it
// does not already exist.
func NewDiskStore(dir string, metrics Metrics) *DiskStore {
	if metrics == nil {
		metrics = NullMetrics{}
	}
	d := &DiskStore{dir: dir, metrics: metrics}
	if e, ok := metrics.(extendedMetrics); ok {
		d.ext = e
	}
	return d
}

func (d *DiskStore) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return ErrAlreadyOpenErr
	}

	openStart := time.Now()

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return newIOError(d.dir, err)
	}

	lockPath := filepath.Join(d.dir, lockFileName)
	lockStart := time.Now()
	lockF, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if d.ext != nil {
			d.ext.RecordLockWait(time.Since(lockStart), true)
		}
		return &StoreError{Code: ErrLocked, Path: lockPath,
			Message: "state directory is locked by another process (remove state.lock by hand if the prior process crashed)"}
	}
	if d.ext != nil {
		d.ext.RecordLockWait(time.Since(lockStart), false)
	}
	// Exclusive create is the real gate (it survives a crashed process
	// exactly as documented); the advisory flock on top is best-effort
	// and only makes a live holder additionally observable to tools that
	// inspect locks rather than file existence.
	_ = acquireExclusiveLock(lockF)

	logPath := filepath.Join(d.dir, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		d.abortOpen(lockF, lockPath)
		return newIOError(logPath, err)
	}

	set, logLen, reuseIdx, err := d.load(logFile)
	if err != nil {
		logFile.Close()
		d.abortOpen(lockF, lockPath)
		return err
	}

	idxPath := filepath.Join(d.dir, idxFileName)
	var idxFile *os.File
	var idxAppendAt int64
	if reuseIdx {
		idxFile, err = os.OpenFile(idxPath, os.O_RDWR, 0o644)
		if err == nil {
			info, statErr := idxFile.Stat()
			if statErr != nil {
				err = statErr
			} else {
				idxAppendAt = info.Size()
			}
		}
	}
	if !reuseIdx || err != nil {
		idxFile, err = os.OpenFile(idxPath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
		if err != nil {
			logFile.Close()
			d.abortOpen(lockF, lockPath)
			return newIOError(idxPath, err)
		}
		idxAppendAt, err = writeIndexSnapshot(idxFile, logLen, set)
		if err != nil {
			idxFile.Close()
			logFile.Close()
			d.abortOpen(lockF, lockPath)
			return err
		}
	}

	d.lockF = lockF
	d.lockPath = lockPath
	d.logFile = logFile
	d.idxFile = idxFile
	d.set = set
	d.logLen = logLen
	d.idxAppendAt = idxAppendAt
	d.open = true
	if d.ext != nil {
		d.ext.RecordOpen(time.Since(openStart))
	}
	return nil
}

func (d *DiskStore) abortOpen(lockF *os.File, lockPath string) {
	releaseLock(lockF)
	lockF.Close()
	os.Remove(lockPath)
}

// load implements the open protocol: try the index fast path first,
// falling back to a full log rebuild when the index is missing, stale, or
// any of its records fail to decode.
func (d *DiskStore) load(logFile *os.File) (set map[string]struct{}, logLen int64, reuseIdx bool, err error) {
	info, err := logFile.Stat()
	if err != nil {
		return nil, 0, false, newIOError(logFile.Name(), err)
	}
	logLen = info.Size()

	idxStart := time.Now()
	if set, ok := d.tryLoadFromIndex(logLen); ok {
		if d.ext != nil {
			d.ext.RecordIndexLoad(time.Since(idxStart), true)
		}
		return set, logLen, true, nil
	}
	if d.ext != nil {
		d.ext.RecordIndexLoad(time.Since(idxStart), false)
	}

	rebuildStart := time.Now()
	set, newLen, err := d.rebuildFromLog(logFile, logLen)
	if err == nil && d.ext != nil {
		d.ext.RecordIndexRebuild(time.Since(rebuildStart), len(set))
	}
	return set, newLen, false, err
}

func (d *DiskStore) tryLoadFromIndex(curLen int64) (map[string]struct{}, bool) {
	data, err := os.ReadFile(filepath.Join(d.dir, idxFileName))
	if err != nil {
		return nil, false
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) == 0 {
		return nil, false
	}
	n, ok := parseIdxHeader(lines[0])
	if !ok || n != curLen {
		return nil, false
	}

	set := make(map[string]struct{})
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		raw, err := hex.DecodeString(fields[0])
		if err != nil || !lts.ValidateEncoding(raw) {
			return nil, false
		}
		set[string(raw)] = struct{}{}
	}
	return set, true
}

func parseIdxHeader(line string) (int64, bool) {
	if !strings.HasPrefix(line, idxHeaderPrefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(line, idxHeaderPrefix)), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// rebuildFromLog scans state.log from byte 0, decoding each newline
// terminated record. A record inside the newline-complete region that
// fails to decode is a fatal InvalidData failure (something corrupted
// already-flushed bytes); an incomplete trailing record (no terminating
// newline, left by a crash mid-write) is silently discarded and the log
// truncated to the last complete record.
func (d *DiskStore) rebuildFromLog(logFile *os.File, curLen int64) (map[string]struct{}, int64, error) {
	if _, err := logFile.Seek(0, io.SeekStart); err != nil {
		return nil, 0, newIOError(logFile.Name(), err)
	}
	data := make([]byte, curLen)
	if _, err := io.ReadFull(logFile, data); err != nil && err != io.EOF {
		return nil, 0, newIOError(logFile.Name(), err)
	}

	lastNL := bytes.LastIndexByte(data, '\n')
	complete := data[:lastNL+1]
	trailing := data[lastNL+1:]

	set := make(map[string]struct{})
	if len(complete) > 0 {
		for _, line := range strings.Split(strings.TrimSuffix(string(complete), "\n"), "\n") {
			if line == "" {
				continue
			}
			raw, err := hex.DecodeString(line)
			if err != nil || !lts.ValidateEncoding(raw) {
				return nil, 0, &StoreError{Code: ErrCorrupted, Path: logFile.Name(),
					Message: fmt.Sprintf("state.log: malformed record %q", line)}
			}
			set[string(raw)] = struct{}{}
		}
	}

	newLen := int64(len(complete))
	if len(trailing) > 0 {
		if err := logFile.Truncate(newLen); err != nil {
			return nil, 0, newIOError(logFile.Name(), err)
		}
	}
	if _, err := logFile.Seek(0, io.SeekEnd); err != nil {
		return nil, 0, newIOError(logFile.Name(), err)
	}
	return set, newLen, nil
}

// writeIndexSnapshot rewrites idx from scratch: header first, then one
// record per entry in set. Returns the append offset for future inserts.
func writeIndexSnapshot(idx *os.File, logLen int64, set map[string]struct{}) (int64, error) {
	if err := writeIdxHeader(idx, logLen); err != nil {
		return 0, err
	}
	offset := int64(idxHeaderLen)
	for raw := range set {
		rec := idxRecord(raw)
		if _, err := idx.WriteAt(rec, offset); err != nil {
			return 0, newIOError(idx.Name(), err)
		}
		offset += int64(len(rec))
	}
	if err := idx.Sync(); err != nil {
		return 0, newIOError(idx.Name(), err)
	}
	return offset, nil
}

func writeIdxHeader(idx *os.File, logLen int64) error {
	header := fmt.Sprintf("%s%0*d\n", idxHeaderPrefix, idxHeaderDigits, logLen)
	if _, err := idx.WriteAt([]byte(header), 0); err != nil {
		return newIOError(idx.Name(), err)
	}
	return nil
}

func idxRecord(raw string) []byte {
	h := fnv.New64a()
	h.Write([]byte(raw))
	return []byte(fmt.Sprintf("%s %016x\n", hex.EncodeToString([]byte(raw)), h.Sum64()))
}

func (d *DiskStore) Contains(s lts.State) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.set[string(s.Bytes())]
	d.metrics.RecordContains(ok)
	return ok, nil
}

// containsNoMetrics is Contains without the metrics callback, for
// HybridStore, which attributes the observation to its own combined view
// instead of double-counting at both layers.
func (d *DiskStore) containsNoMetrics(s lts.State) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.set[string(s.Bytes())]
	return ok, nil
}

func (d *DiskStore) Insert(s lts.State) (bool, error) {
	isNew, err := d.insertLocked(s)
	if err == nil {
		d.metrics.RecordInsert(isNew)
		if isNew {
			d.metrics.RecordBytes(len(s.Bytes()))
		}
	}
	return isNew, err
}

// insertNoMetrics is Insert without the metrics callback; see
// containsNoMetrics.
func (d *DiskStore) insertNoMetrics(s lts.State) (bool, error) {
	return d.insertLocked(s)
}

func (d *DiskStore) insertLocked(s lts.State) (bool, error) {
	raw := s.Bytes()
	key := string(raw)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.set[key]; exists {
		return false, nil
	}

	writeStart := time.Now()
	line := hex.EncodeToString(raw) + "\n"
	if _, err := d.logFile.WriteAt([]byte(line), d.logLen); err != nil {
		return false, newIOError(d.logFile.Name(), err)
	}
	d.logLen += int64(len(line))
	d.set[key] = struct{}{}

	if err := writeIdxHeader(d.idxFile, d.logLen); err != nil {
		return false, err
	}
	rec := idxRecord(key)
	if _, err := d.idxFile.WriteAt(rec, d.idxAppendAt); err != nil {
		return false, newIOError(d.idxFile.Name(), err)
	}
	d.idxAppendAt += int64(len(rec))

	if d.ext != nil {
		d.ext.RecordWrite(time.Since(writeStart), len(line))
	}
	return true, nil
}

func (d *DiskStore) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.set)
}

func (d *DiskStore) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return nil
	}
	var firstErr error
	if err := d.logFile.Sync(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.idxFile.Sync(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.idxFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.logFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := releaseLock(d.lockF); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.lockF.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := os.Remove(d.lockPath); err != nil && !os.IsNotExist(err) && firstErr == nil {
		firstErr = err
	}
	d.open = false
	d.set = nil
	return firstErr
}

var _ Store = (*DiskStore)(nil)
