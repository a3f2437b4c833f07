package metrics

func on() bool { return globalManager.enabled }

// RecordScoring records one successful scoring run over rows prediction rows.
func RecordScoring(scorer string, rows int, latencyMs float64) {
	if !on() {
		return
	}
	globalManager.scoringLatency.WithLabelValues(scorer).Observe(latencyMs)
	globalManager.scoringRows.WithLabelValues(scorer).Add(float64(rows))
}

// RecordScoringError counts a failed scoring run. kind is a short error class
// such as "validation" or "configuration".
func RecordScoringError(scorer, kind string) {
	if !on() {
		return
	}
	globalManager.scoringErrors.WithLabelValues(scorer, kind).Inc()
}

// RecordJobSubmitted increments the accepted jobs counter.
func RecordJobSubmitted() {
	if on() {
		globalManager.jobsSubmitted.Inc()
	}
}

// RecordJobDuplicate increments the duplicate job id counter.
func RecordJobDuplicate() {
	if on() {
		globalManager.jobsDuplicate.Inc()
	}
}

// RecordJobCompleted increments the completed jobs counter.
func RecordJobCompleted() {
	if on() {
		globalManager.jobsCompleted.Inc()
	}
}

// RecordJobFailed increments the failed jobs counter.
func RecordJobFailed() {
	if on() {
		globalManager.jobsFailed.Inc()
	}
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	if on() {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	if on() {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	if on() {
		globalManager.queueUtilization.Set(utilization)
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if on() {
		globalManager.queueEnqueued.Inc()
	}
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	if on() {
		globalManager.queueDequeued.Inc()
	}
}

// RecordQueueEnqueueError increments the rejected enqueue counter.
func RecordQueueEnqueueError() {
	if on() {
		globalManager.queueEnqueueError.Inc()
	}
}

// RecordQueueWaitLatency records how long a job waited in the queue.
func RecordQueueWaitLatency(latencyMs float64) {
	if on() {
		globalManager.queueWaitLatency.Observe(latencyMs)
	}
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	if on() {
		globalManager.workerCount.Set(float64(count))
	}
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	if on() {
		globalManager.workerActiveCount.Set(float64(count))
	}
}

// UpdateWorkerIdleCount sets the number of idle workers.
func UpdateWorkerIdleCount(count int) {
	if on() {
		globalManager.workerIdleCount.Set(float64(count))
	}
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if on() {
		globalManager.workerProcessingLatency.Observe(latencyMs)
	}
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if on() {
		globalManager.workerErrors.Inc()
	}
}

// UpdateStoreShardCount sets the number of store shards.
func UpdateStoreShardCount(count int) {
	if on() {
		globalManager.storeShardCount.Set(float64(count))
	}
}

// UpdateStoreRecordsTotal sets the number of retained jobs.
func UpdateStoreRecordsTotal(count int) {
	if on() {
		globalManager.storeRecordsTotal.Set(float64(count))
	}
}

// UpdateStoreRecordsPerShard sets the number of jobs in one shard.
func UpdateStoreRecordsPerShard(shardID string, count int) {
	if on() {
		globalManager.storeRecordsPerShard.WithLabelValues(shardID).Set(float64(count))
	}
}

// UpdateStoreShardUtilization sets the utilization ratio of one shard.
func UpdateStoreShardUtilization(shardID string, utilization float64) {
	if on() {
		globalManager.storeShardUtilization.WithLabelValues(shardID).Set(utilization)
	}
}

// RecordStoreUpdateLatency records a store write latency.
func RecordStoreUpdateLatency(latencyMs float64) {
	if on() {
		globalManager.storeUpdateLatency.Observe(latencyMs)
	}
}

// RecordStoreQueryLatency records a store read latency.
func RecordStoreQueryLatency(latencyMs float64) {
	if on() {
		globalManager.storeQueryLatency.Observe(latencyMs)
	}
}

// RecordStoreEviction increments the eviction counter.
func RecordStoreEviction() {
	if on() {
		globalManager.storeEvictions.Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if on() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if on() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if on() {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if on() {
		globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint records an error with endpoint, method and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if on() {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if on() {
		globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
	}
}

// UpdateSystemMemoryUsage sets the heap memory in use in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if on() {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if on() {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if on() {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}
