package core

import (
	"encoding/json"
	"fmt"

	"github.com/kairoslabs/headparse/core/pools"
)

// PoolStats reports the state of every pool core/engine.go keeps
// around its poller loop: connection bookkeeping, the read-side byte
// pool, the write-side buffer pool, and the worker pool handlers run on.
type PoolStats struct {
	Connection ConnectionPoolStats `json:"connection"`
	ReadBuf    pools.BytePoolStats `json:"read_buf"`
	WriteBuf   pools.BufferStats   `json:"write_buf"`
	Worker     WorkerPoolStats     `json:"worker"`
}

type ConnectionPoolStats struct {
	Gets    uint64  `json:"gets"`
	Puts    uint64  `json:"puts"`
	HitRate float64 `json:"hit_rate"`
}

type WorkerPoolStats struct {
	NumWorkers     int    `json:"num_workers"`
	TasksSubmitted uint64 `json:"tasks_submitted"`
	TasksCompleted uint64 `json:"tasks_completed"`
}

// GetPoolStats returns statistics for every pool the engine owns.
func (e *Engine) GetPoolStats() PoolStats {
	gets, puts, hitRate := e.connectionPool.Stats()
	ws := e.workerPool.Stats()

	return PoolStats{
		Connection: ConnectionPoolStats{Gets: gets, Puts: puts, HitRate: hitRate},
		ReadBuf:    e.bytePool.Stats(),
		WriteBuf:   e.bufferPool.Stats(),
		Worker: WorkerPoolStats{
			NumWorkers:     ws.NumWorkers,
			TasksSubmitted: ws.TasksSubmitted,
			TasksCompleted: ws.TasksCompleted,
		},
	}
}

// GetPoolStatsJSON returns pool statistics as a JSON string.
func (e *Engine) GetPoolStatsJSON() string {
	data, _ := json.MarshalIndent(e.GetPoolStats(), "", "  ")
	return string(data)
}

// GetPoolStatsText returns pool statistics as human-readable text.
func (e *Engine) GetPoolStatsText() string {
	s := e.GetPoolStats()
	return fmt.Sprintf(`Pool Statistics
===============

Connection Pool:
  Gets:     %d
  Puts:     %d
  Hit Rate: %.2f%%

Read Buffer Pool:
  Gets:        %d
  Puts:        %d
  Active Bufs: %d

Write Buffer Pool:
  Gets:     %d
  Hit Rate: %.2f%%

Worker Pool:
  Workers:         %d
  Tasks Submitted: %d
  Tasks Completed: %d
`,
		s.Connection.Gets, s.Connection.Puts, s.Connection.HitRate*100,
		s.ReadBuf.TotalGets, s.ReadBuf.TotalPuts, s.ReadBuf.ActiveBufs,
		s.WriteBuf.TotalGets, s.WriteBuf.HitRate*100,
		s.Worker.NumWorkers, s.Worker.TasksSubmitted, s.Worker.TasksCompleted,
	)
}
