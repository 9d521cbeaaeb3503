package quantization

type options struct {
	bits              int
	policy            Policy
	workers           int
	parallelThreshold int
}

// defaultParallelThreshold is the number of input values below which a batch is
// quantized on the calling goroutine.
const defaultParallelThreshold = 1 << 15

func defaultOptions() options {
	return options{
		bits:              DefaultBits,
		policy:            PolicyNearestRank,
		workers:           0,
		parallelThreshold: defaultParallelThreshold,
	}
}

// Option configures a Quantizer.
type Option func(*options)

// WithBits sets the code width W in [MinBits, MaxBits]. Codes are always stored one per byte.
func WithBits(bits int) Option {
	return func(o *options) {
		o.bits = bits
	}
}

// WithPolicy sets the percentile policy used by the bound estimator.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithWorkers caps the number of goroutines used per Quantize call.
// 0 uses GOMAXPROCS; 1 forces single-threaded quantization.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithParallelThreshold sets the minimum number of input values before a
// Quantize call fans out to multiple goroutines.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		o.parallelThreshold = n
	}
}
