package fvecs

import "golang.org/x/time/rate"

type options struct {
	bytesPerSec int
	compression CompressionType
	autoDetect  bool
}

func defaultOptions() options {
	return options{autoDetect: true}
}

// Option configures Open and NewReader.
type Option func(*options)

// WithRateLimit caps the read throughput at bytesPerSec. 0 disables the limit.
// Whole-object downloads through a blobstore.Downloader are not throttled.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *options) {
		o.bytesPerSec = bytesPerSec
	}
}

// WithCompression overrides compression detection from the file name.
func WithCompression(c CompressionType) Option {
	return func(o *options) {
		o.compression = c
		o.autoDetect = false
	}
}

// newLimiter returns nil when throttling is disabled. The burst is at least one
// record so a single record read never exceeds it.
func newLimiter(bytesPerSec int, recordSize int64) *rate.Limiter {
	if bytesPerSec <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), max(bytesPerSec, int(recordSize)))
}
