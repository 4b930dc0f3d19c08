// Copyright (c) 2018 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package tdigest implements a streaming, mergeable approximate quantile
// summary based on the merging t-digest. Memory stays roughly constant
// regardless of how many samples are observed, and partial digests built
// on different threads, processes or machines can be combined into one.
package tdigest

// Centroid is a (mean, weight) point mass representing one or more
// collapsed samples. Centroids are totally ordered by mean; ties are
// permitted.
type Centroid struct {
	Mean   float64
	Weight int64
}

// CentroidsPool provides a pool for variable-sized centroid slices.
type CentroidsPool interface {
	// Init initializes the pool.
	Init()

	// Get provides a centroid slice from the pool.
	Get(capacity int) []Centroid

	// Put returns a centroid slice to the pool.
	Put(value []Centroid)
}

// TDigest is the t-digest interface. A t-digest assumes single-writer
// access; concurrent use is a caller responsibility.
type TDigest interface {
	// Add adds a sample value with the given count. A zero count is a
	// no-op.
	Add(value float64, count int64)

	// Merge folds every centroid of another t-digest into this one. If
	// this digest's compression is unset, it adopts the compression of
	// the other digest first.
	Merge(other TDigest)

	// Quantile returns the estimated value at quantile q in [0, 1], or
	// NaN if the digest is empty.
	Quantile(q float64) float64

	// CDF returns the estimated fraction of samples at or below value,
	// or NaN if the digest is empty.
	CDF(value float64) float64

	// Min returns the minimum value added.
	Min() float64

	// Max returns the maximum value added.
	Max() float64

	// Sum returns the sum of all values weighted by their counts.
	Sum() float64

	// Count returns the total weight of all samples added.
	Count() int64

	// Compression returns the compression.
	Compression() float64

	// Merged returns the merged centroids.
	Merged() []Centroid

	// Unmerged returns the unmerged centroids.
	Unmerged() []Centroid

	// ToString encodes the digest state in the canonical text format.
	ToString() string

	// FromString resets the digest to the state encoded by str.
	FromString(str string) error

	// MemUsageBytes returns the approximate memory footprint of the
	// digest, for callers doing capacity accounting.
	MemUsageBytes() int

	// Reset resets the t-digest with a new compression, clearing all
	// centroids and aggregates.
	Reset(compression float64)

	// Close closes the t-digest.
	Close()
}

// Options provides a set of t-digest options.
type Options interface {
	// SetCompression sets the compression.
	SetCompression(value float64) Options

	// Compression returns the compression.
	Compression() float64

	// SetCentroidsPool sets the centroids pool.
	SetCentroidsPool(value CentroidsPool) Options

	// CentroidsPool returns the centroids pool.
	CentroidsPool() CentroidsPool

	// Validate validates the options.
	Validate() error
}
