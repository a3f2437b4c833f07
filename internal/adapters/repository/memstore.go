package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/okian/confscore/internal/domain/model"
	"github.com/okian/confscore/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount            = 8
	defaultCapacity              = 100_000
	defaultMetricsUpdateInterval = 5 * time.Second
	compactThreshold             = 64
)

// shard holds a slice of the key space. finished[head:] lists finished ids
// in completion order and drives eviction; pending jobs are never listed.
type shard struct {
	mu       sync.Mutex
	records  map[string]*model.JobRecord
	finished []string
	head     int
}

// evictOldestFinished drops the job that finished first. Reports whether a
// job was removed.
func (sh *shard) evictOldestFinished() bool {
	if sh.head == len(sh.finished) {
		return false
	}
	id := sh.finished[sh.head]
	sh.finished[sh.head] = ""
	sh.head++
	delete(sh.records, id)

	// compact once the consumed prefix dominates the backing array
	if sh.head >= compactThreshold && sh.head*2 >= len(sh.finished) {
		n := copy(sh.finished, sh.finished[sh.head:])
		clear(sh.finished[n:])
		sh.finished = sh.finished[:n]
		sh.head = 0
	}
	return true
}

func (sh *shard) markFinished(id string) {
	sh.finished = append(sh.finished, id)
}

// MemoryStore is a sharded, bounded in-memory Store. When a shard is full the
// job in that shard that finished first is evicted.
type MemoryStore struct {
	shards                []*shard
	shardCount            int
	capacity              int
	perShard              int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a store with configuration options. Background
// metrics updates stop when ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		shardCount:            defaultShardCount,
		capacity:              defaultCapacity,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.perShard = (s.capacity + s.shardCount - 1) / s.shardCount
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]*model.JobRecord)}
	}

	metrics.UpdateStoreShardCount(s.shardCount)
	s.startMetricsUpdater(ctx)
	return s
}

func (s *MemoryStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%uint32(len(s.shards))] //nolint:gosec // shard count is small and positive
}

// Reserve implements Store.
func (s *MemoryStore) Reserve(_ context.Context, job model.Job) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	sh := s.shardFor(job.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.records[job.ID]; ok {
		return false, nil
	}
	if len(sh.records) >= s.perShard {
		if !sh.evictOldestFinished() {
			return false, fmt.Errorf("%w: %d pending jobs in shard", ErrStoreFull, len(sh.records))
		}
		metrics.RecordStoreEviction()
	}

	rec := &model.JobRecord{
		ID:          job.ID,
		Scorer:      job.Scorer,
		Status:      model.StatusPending,
		SubmittedAt: job.SubmittedAt,
	}
	if job.Pred != nil {
		rec.Rows, rec.Classes = job.Pred.Dims()
	}
	sh.records[job.ID] = rec
	return true, nil
}

// Release implements Store. Finished jobs are kept.
func (s *MemoryStore) Release(_ context.Context, id string) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if rec, ok := sh.records[id]; ok && !rec.Finished() {
		delete(sh.records, id)
	}
}

// Complete implements Store.
func (s *MemoryStore) Complete(_ context.Context, id string, res model.Result) error {
	return s.finish(id, func(rec *model.JobRecord) {
		rec.Status = model.StatusDone
		rec.Result = res
	})
}

// Fail implements Store.
func (s *MemoryStore) Fail(_ context.Context, id string, reason string) error {
	return s.finish(id, func(rec *model.JobRecord) {
		rec.Status = model.StatusFailed
		rec.Error = reason
	})
}

func (s *MemoryStore) finish(id string, apply func(*model.JobRecord)) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	wasFinished := rec.Finished()
	apply(rec)
	rec.CompletedAt = time.Now()
	if !wasFinished {
		sh.markFinished(id)
	}
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (model.JobRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[id]
	if !ok {
		return model.JobRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *rec, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += len(sh.records)
		sh.mu.Unlock()
	}
	return total
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// startMetricsUpdater starts a background goroutine that updates store metrics.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics() {
	total := 0
	for i, sh := range s.shards {
		sh.mu.Lock()
		n := len(sh.records)
		sh.mu.Unlock()

		shardID := "shard_" + strconv.Itoa(i)
		metrics.UpdateStoreRecordsPerShard(shardID, n)
		metrics.UpdateStoreShardUtilization(shardID, float64(n)/float64(s.perShard))
		total += n
	}
	metrics.UpdateStoreRecordsTotal(total)
}
