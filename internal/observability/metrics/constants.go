package metrics

// Histogram bucket parameters shared by the duration metrics.
const (
	BucketStart1ms = 0.001
	BucketFactor2  = 2.0
	BucketCount15  = 15
)

// Result size histogram parameters.
const (
	SizeBucketStart  = 1.0
	SizeBucketFactor = 4.0
	SizeBucketCount  = 8
)
