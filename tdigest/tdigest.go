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

package tdigest

import (
	"math"
	"sort"
	"unsafe"
)

const (
	// maxCompression bounds compression so centroid weights cannot
	// overflow an int64 during merges.
	maxCompression = 1e6
)

var (
	nan              = math.NaN()
	positiveInfinity = math.Inf(1)
	negativeInfinity = math.Inf(-1)
)

type centroidsByMeanAsc []Centroid

func (c centroidsByMeanAsc) Len() int           { return len(c) }
func (c centroidsByMeanAsc) Less(i, j int) bool { return c[i].Mean < c[j].Mean }
func (c centroidsByMeanAsc) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }

// boundedCompression returns the minimum of compression and maxCompression.
func boundedCompression(compression float64) float64 {
	return math.Min(maxCompression, compression)
}

// maxNumCentroids returns the maximum number of centroids retained by the
// merging t-digest for a given compression.
func maxNumCentroids(compression float64) int {
	return 2 * int(math.Ceil(boundedCompression(compression)))
}

func linearInterpolate(val1, val2, weight1, weight2 float64) float64 {
	contract(weight1 >= 0, "negative interpolation weight")
	contract(weight2 >= 0, "negative interpolation weight")
	contract(weight1+weight2 > 0, "zero total interpolation weight")
	return (val1*weight1 + val2*weight2) / (weight1 + weight2)
}

// tDigest holds one centroid slice with a merged, sorted prefix followed
// by an unmerged suffix that is folded in by compress once it grows to
// the batch size. The slice capacity is reserved up front so steady-state
// operation does not reallocate.
type tDigest struct {
	compression   float64
	maxCentroids  int
	batchSize     int
	centroidsPool CentroidsPool

	closed    bool
	centroids []Centroid
	merged    int
	unmerged  int
	min       float64
	max       float64
	sum       float64
	count     int64
}

// NewTDigest creates a new t-digest.
func NewTDigest(opts Options) TDigest {
	if opts == nil {
		opts = NewOptions()
	}

	d := &tDigest{
		centroidsPool: opts.CentroidsPool(),
	}
	d.Reset(opts.Compression())
	return d
}

func (d *tDigest) Reset(compression float64) {
	contract(compression >= 0, "compression cannot be negative")

	d.compression = boundedCompression(compression)
	d.maxCentroids = maxNumCentroids(d.compression)
	// Merge once the unmerged suffix grows to four times the retained
	// centroid bound.
	d.batchSize = 4 * d.maxCentroids

	capacity := d.maxCentroids + d.batchSize
	if d.centroids == nil {
		d.centroids = d.centroidsPool.Get(capacity)
	} else if cap(d.centroids) < capacity {
		d.centroidsPool.Put(d.centroids)
		d.centroids = d.centroidsPool.Get(capacity)
	}
	d.closed = false
	d.centroids = d.centroids[:0]
	d.merged = 0
	d.unmerged = 0
	d.min = positiveInfinity
	d.max = negativeInfinity
	d.sum = 0
	d.count = 0
}

func (d *tDigest) Compression() float64 { return d.compression }

func (d *tDigest) Min() float64 { return d.min }

func (d *tDigest) Max() float64 { return d.max }

func (d *tDigest) Sum() float64 { return d.sum }

func (d *tDigest) Count() int64 { return d.count }

func (d *tDigest) Merged() []Centroid {
	return d.centroids[:d.merged]
}

func (d *tDigest) Unmerged() []Centroid {
	return d.centroids[d.merged : d.merged+d.unmerged]
}

func (d *tDigest) Add(value float64, count int64) {
	if count == 0 {
		return
	}
	contract(count > 0, "sample count cannot be negative")

	// A single sample is always treated as discrete.
	d.updateStats(value, value, value*float64(count), count)
	d.addUnmerged(Centroid{Mean: value, Weight: count})
}

func (d *tDigest) Merge(other TDigest) {
	if d.compression == 0 {
		d.Reset(other.Compression())
	}

	d.updateStats(other.Min(), other.Max(), other.Sum(), other.Count())

	for _, c := range other.Merged() {
		d.addUnmerged(c)
	}
	for _, c := range other.Unmerged() {
		d.addUnmerged(c)
	}
}

func (d *tDigest) updateStats(min, max, sum float64, count int64) {
	d.min = math.Min(d.min, min)
	d.max = math.Max(d.max, max)
	d.sum += sum
	d.count += count
}

func (d *tDigest) addUnmerged(c Centroid) {
	contract(d.unmerged < d.batchSize, "unmerged centroids overflow batch size")

	d.centroids = d.appendCentroid(d.centroids, c)
	d.unmerged++
	if d.unmerged == d.batchSize {
		d.compress()
	}
}

func (d *tDigest) appendCentroid(centroids []Centroid, c Centroid) []Centroid {
	if len(centroids) == cap(centroids) && len(centroids) > 0 {
		newCentroids := d.centroidsPool.Get(2 * len(centroids))
		newCentroids = append(newCentroids, centroids...)
		d.centroidsPool.Put(centroids)
		centroids = newCentroids
	}
	return append(centroids, c)
}

// quantileToScale maps a quantile to the scale coordinate that bounds
// centroid sizes. The arcsine form concentrates centroid boundaries near
// the tails of the distribution and spreads them in the middle, keeping
// relative error uniform across the quantile range.
func (d *tDigest) quantileToScale(quantile float64) float64 {
	return d.compression * (math.Asin(2*quantile-1) + math.Pi/2) / math.Pi
}

// scaleToQuantile is the inverse of quantileToScale.
func (d *tDigest) scaleToQuantile(scale float64) float64 {
	scale = math.Min(scale, d.compression)
	return (math.Sin(scale*math.Pi/d.compression-math.Pi/2) + 1) / 2
}

// compress folds the unmerged suffix into the bounded, sorted merged set.
func (d *tDigest) compress() {
	if d.unmerged == 0 {
		return
	}

	// Sort all centroids and treat the first one as merged, the rest as
	// candidates to fold in, in ascending mean order.
	contract(len(d.centroids) > 0, "no centroids to merge")
	sort.Sort(centroidsByMeanAsc(d.centroids))
	d.unmerged += d.merged - 1
	d.merged = 1

	totalCount := float64(d.count)

	q0 := 0.0
	// Keep the limit scaled by the total count so the hot path avoids a
	// division per candidate.
	qLimit := totalCount * d.scaleToQuantile(q0+1)

	// The sum drifts from the centroids with every merge due to floating
	// point error. Recompute it from the merged centroids each time to
	// keep the drift bounded.
	d.sum = 0

	lastMerged := 0
	mergedCount := d.centroids[0].Weight
	for firstUnmerged := 1; d.unmerged > 0; d.unmerged, firstUnmerged = d.unmerged-1, firstUnmerged+1 {
		candidate := d.centroids[firstUnmerged]

		// Fold the candidate in if the last merged centroid still has
		// room for it.
		if float64(mergedCount+candidate.Weight) <= qLimit {
			// Welford's method; weight must be updated before mean.
			last := &d.centroids[lastMerged]
			last.Weight += candidate.Weight
			last.Mean += (candidate.Mean - last.Mean) * float64(candidate.Weight) / float64(last.Weight)
			mergedCount += candidate.Weight
			continue
		}

		// Close out the current centroid, advance the scale boundary and
		// start a new centroid from the candidate.
		q0 = d.quantileToScale(float64(mergedCount) / totalCount)
		qLimit = totalCount * d.scaleToQuantile(q0+1)
		mergedCount += candidate.Weight
		d.sum += d.centroids[lastMerged].Mean * float64(d.centroids[lastMerged].Weight)
		d.merged++
		lastMerged++
		d.centroids[lastMerged] = candidate
	}
	d.sum += d.centroids[lastMerged].Mean * float64(d.centroids[lastMerged].Weight)

	d.unmerged = 0
	d.centroids = d.centroids[:d.merged]
	// Centroids are sorted, so the extremes sit at the ends.
	d.min = math.Min(d.min, d.centroids[0].Mean)
	d.max = math.Max(d.max, d.centroids[len(d.centroids)-1].Mean)

	contract(len(d.centroids) <= d.maxCentroids, "merged centroids overflow maximum")
}

// Quantile and CDF interpolate linearly between mid points of centroids.
// All unmerged centroids are merged first so centroids are strongly
// ordered, then interpolation runs over the knots
//
//	(rank, value) = (0, min), (weight[0]/2, mean[0]), ..
//	                ((weight[i-1]+weight[i])/2, mean[i]), ..
//	                (count, max)
func (d *tDigest) Quantile(quantile float64) float64 {
	contract(quantile >= 0, "quantile cannot be negative")
	contract(quantile <= 1, "quantile cannot exceed one")

	d.compress()

	if d.merged == 0 {
		return nan
	}
	if d.merged == 1 {
		return d.centroids[0].Mean
	}

	quantileCount := quantile * float64(d.count)
	prevCount := 0.0
	prevVal := d.min
	thisCount := float64(d.centroids[0].Weight) / 2
	thisVal := d.centroids[0].Mean

	for i := 0; i < len(d.centroids); i++ {
		if quantileCount < thisCount {
			break
		}

		prevCount = thisCount
		prevVal = thisVal

		if i == len(d.centroids)-1 {
			// Interpolate between the last centroid and max.
			thisCount = float64(d.count)
			thisVal = d.max
		} else {
			thisCount += float64(d.centroids[i].Weight+d.centroids[i+1].Weight) / 2
			thisVal = d.centroids[i+1].Mean
		}
	}

	return linearInterpolate(prevVal, thisVal, thisCount-quantileCount, quantileCount-prevCount)
}

func (d *tDigest) CDF(value float64) float64 {
	d.compress()

	if d.merged == 0 {
		return nan
	}

	if value < d.min {
		return 0
	}

	// The upper end of the range is treated as half-open: any value at or
	// beyond max maps to one, which also covers the point-mass digest
	// where min equals max.
	if value >= d.max {
		return 1
	}
	contract(d.min != d.max, "extrema cannot coincide past boundary checks")

	if d.merged == 1 {
		return (value - d.min) / (d.max - d.min)
	}

	count := float64(d.count)

	if value < d.centroids[0].Mean {
		return linearInterpolate(
			0.0, float64(d.centroids[0].Weight)/count/2.0,
			d.centroids[0].Mean-value, value-d.min)
	}

	last := d.centroids[len(d.centroids)-1]
	if value >= last.Mean {
		return linearInterpolate(
			1.0-float64(last.Weight)/count/2.0, 1,
			d.max-value, value-last.Mean)
	}

	accumCount := float64(d.centroids[0].Weight) / 2.0
	for i := 0; i < len(d.centroids); i++ {
		if d.centroids[i].Mean == value {
			prevAccumCount := accumCount
			// Centroids may share a mean. Sum their weights into a single
			// step before interpolating.
			for d.centroids[i+1].Mean == value {
				accumCount += float64(d.centroids[i].Weight + d.centroids[i+1].Weight)
				i++
			}
			return (prevAccumCount + accumCount) / 2.0 / count
		}
		if d.centroids[i].Mean <= value && value < d.centroids[i+1].Mean {
			mean1 := d.centroids[i].Mean
			mean2 := d.centroids[i+1].Mean
			meanRatio := 1.0
			// Guard against adjacent means colliding after rounding.
			if mean2 > mean1 {
				meanRatio = (value - mean1) / (mean2 - mean1)
			}
			deltaCount := float64(d.centroids[i].Weight+d.centroids[i+1].Weight) / 2.0
			return (accumCount + deltaCount*meanRatio) / count
		}
		accumCount += float64(d.centroids[i].Weight+d.centroids[i+1].Weight) / 2.0
	}

	// Unreachable: the boundary checks above guarantee a bracket exists.
	return nan
}

func (d *tDigest) MemUsageBytes() int {
	var c Centroid
	return int(unsafe.Sizeof(*d)) + cap(d.centroids)*int(unsafe.Sizeof(c))
}

func (d *tDigest) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.centroidsPool.Put(d.centroids)
	d.centroids = nil
}
