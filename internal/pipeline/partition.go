package pipeline

// Partition slices the candidate id list into contiguous near-equal batches
// sized from the requested parallelism: batchSize = max(1, total/(2*workers)).
// Batch ids are sequential from 0 in slice order. An empty id list produces
// zero batches. Exclusion is applied per element inside the worker, not here,
// so excluded elements still occupy partition slots.
func Partition(ids []int64, path string, workers int, exclude map[string]struct{}) []Batch {
	if len(ids) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	batchSize := len(ids) / (workers * 2)
	if batchSize < 1 {
		batchSize = 1
	}

	var batches []Batch
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		// Each batch owns a private copy of its slice so that nothing is
		// shared across worker boundaries.
		chunk := make([]int64, end-i)
		copy(chunk, ids[i:end])
		batches = append(batches, Batch{
			ID:         len(batches),
			ElementIDs: chunk,
			Path:       path,
			Exclude:    copyExclude(exclude),
		})
	}
	return batches
}

func copyExclude(exclude map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(exclude))
	for k := range exclude {
		out[k] = struct{}{}
	}
	return out
}
