package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name          string
		total         int
		workers       int
		wantBatchSize int
	}{
		{name: "batch size is total over twice the workers", total: 100, workers: 5, wantBatchSize: 10},
		{name: "small input floors at one element per batch", total: 3, workers: 8, wantBatchSize: 1},
		{name: "single worker", total: 10, workers: 1, wantBatchSize: 5},
		{name: "zero workers treated as one", total: 10, workers: 0, wantBatchSize: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]int64, tt.total)
			for i := range ids {
				ids[i] = int64(i + 1)
			}

			batches := Partition(ids, "model.json", tt.workers, nil)

			// Every id lands in exactly one batch, in order.
			var covered []int64
			for i, b := range batches {
				assert.Equal(t, i, b.ID)
				assert.Equal(t, "model.json", b.Path)
				if i < len(batches)-1 {
					assert.Len(t, b.ElementIDs, tt.wantBatchSize)
				}
				covered = append(covered, b.ElementIDs...)
			}
			assert.Equal(t, ids, covered)
		})
	}
}

func TestPartitionEmptyInput(t *testing.T) {
	assert.Nil(t, Partition(nil, "model.json", 4, nil))
}

func TestPartitionBatchesOwnPrivateCopies(t *testing.T) {
	ids := []int64{1, 2, 3, 4}
	exclude := map[string]struct{}{"Wall": {}}

	batches := Partition(ids, "model.json", 1, exclude)
	require.NotEmpty(t, batches)

	ids[0] = 99
	delete(exclude, "Wall")

	assert.Equal(t, int64(1), batches[0].ElementIDs[0])
	assert.Contains(t, batches[0].Exclude, "Wall")
}
