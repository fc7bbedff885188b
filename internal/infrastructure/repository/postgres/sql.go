package postgres

// insertBatchSize caps rows per multi-row insert so the statement stays
// under the driver's placeholder limit.
const insertBatchSize = 500

func chunkRows[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = insertBatchSize
	}
	chunks := make([][]T, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}
