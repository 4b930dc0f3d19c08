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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testTDigest(t *testing.T, compression float64) *tDigest {
	opts := NewOptions().SetCompression(compression)
	require.NoError(t, opts.Validate())
	return NewTDigest(opts).(*tDigest)
}

func TestEmptyTDigest(t *testing.T) {
	d := testTDigest(t, 100)
	require.Equal(t, int64(0), d.Count())
	require.Equal(t, 0.0, d.Sum())
	require.True(t, math.IsInf(d.Min(), 1))
	require.True(t, math.IsInf(d.Max(), -1))
	require.True(t, math.IsNaN(d.Quantile(0.5)))
	require.True(t, math.IsNaN(d.CDF(1.0)))
}

func TestTDigestSingleValue(t *testing.T) {
	d := testTDigest(t, 100)
	d.Add(5.0, 1)

	require.Equal(t, int64(1), d.Count())
	require.Equal(t, 5.0, d.Sum())
	require.Equal(t, 5.0, d.Min())
	require.Equal(t, 5.0, d.Max())
	for _, q := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		require.Equal(t, 5.0, d.Quantile(q))
	}
	require.Equal(t, 0.0, d.CDF(4.0))
	require.Equal(t, 1.0, d.CDF(5.0))
	require.Equal(t, 1.0, d.CDF(6.0))
}

func TestTDigestThreeValues(t *testing.T) {
	d := testTDigest(t, 100)
	for _, v := range []float64{3.0, 1.0, 2.0} {
		d.Add(v, 1)
	}

	require.Equal(t, int64(3), d.Count())
	require.Equal(t, 6.0, d.Sum())
	require.Equal(t, 1.0, d.Min())
	require.Equal(t, 3.0, d.Max())
	require.Equal(t, 1.0, d.Quantile(0.0))
	require.Equal(t, 2.0, d.Quantile(0.5))
	require.Equal(t, 3.0, d.Quantile(1.0))
}

func TestTDigestUniformStream(t *testing.T) {
	d := testTDigest(t, 100)
	for i := 1; i <= 1000; i++ {
		d.Add(float64(i), 1)
	}

	require.Equal(t, int64(1000), d.Count())
	require.Equal(t, 1.0, d.Min())
	require.Equal(t, 1000.0, d.Max())
	require.Equal(t, 1.0, d.Quantile(0.0))
	require.Equal(t, 1000.0, d.Quantile(1.0))
	require.InDelta(t, 500.5, d.Quantile(0.5), 2.0)
	require.InDelta(t, 950.5, d.Quantile(0.95), 3.0)
	require.InDelta(t, 990.5, d.Quantile(0.99), 3.0)
	require.InDelta(t, 0.5, d.CDF(500.5), 0.01)
}

func TestTDigestShuffledStream(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	values := rnd.Perm(10000)
	d := testTDigest(t, 100)
	for _, v := range values {
		d.Add(float64(v), 1)
	}

	// Greedy left-to-right merging is known to lose some accuracy at the
	// low tail, so the first percentile gets a looser bound.
	for _, tt := range []struct {
		quantile float64
		epsilon  float64
	}{
		{quantile: 0.01, epsilon: 0.05},
		{quantile: 0.1, epsilon: 0.01},
		{quantile: 0.25, epsilon: 0.01},
		{quantile: 0.5, epsilon: 0.01},
		{quantile: 0.75, epsilon: 0.01},
		{quantile: 0.9, epsilon: 0.01},
		{quantile: 0.99, epsilon: 0.01},
	} {
		expected := tt.quantile * 9999.0
		require.InEpsilon(t, expected+1, d.Quantile(tt.quantile)+1, tt.epsilon,
			"quantile %f", tt.quantile)
	}
}

func TestTDigestWeightedAdd(t *testing.T) {
	weighted := testTDigest(t, 100)
	repeated := testTDigest(t, 100)
	for i := 1; i <= 100; i++ {
		weighted.Add(float64(i), 5)
		for j := 0; j < 5; j++ {
			repeated.Add(float64(i), 1)
		}
	}

	require.Equal(t, repeated.Count(), weighted.Count())
	require.Equal(t, repeated.Sum(), weighted.Sum())
	for _, q := range []float64{0.1, 0.5, 0.9} {
		require.InDelta(t, repeated.Quantile(q), weighted.Quantile(q), 1.0)
	}
}

func TestTDigestAddZeroCount(t *testing.T) {
	d := testTDigest(t, 100)
	d.Add(5.0, 0)
	require.Equal(t, int64(0), d.Count())
	require.True(t, math.IsNaN(d.Quantile(0.5)))
}

func TestTDigestMergeDisjointRanges(t *testing.T) {
	low := testTDigest(t, 100)
	high := testTDigest(t, 100)
	for i := 0; i < 100; i++ {
		low.Add(float64(i), 1)
		high.Add(float64(i+100), 1)
	}

	merged := testTDigest(t, 100)
	merged.Merge(low)
	merged.Merge(high)

	require.Equal(t, int64(200), merged.Count())
	require.Equal(t, 0.0, merged.Min())
	require.Equal(t, 199.0, merged.Max())
	require.InDelta(t, 50.0, merged.Quantile(0.25), 2.0)
	require.InDelta(t, 150.0, merged.Quantile(0.75), 2.0)
}

func TestTDigestMergeShards(t *testing.T) {
	rnd := rand.New(rand.NewSource(1234))
	var (
		whole  = testTDigest(t, 100)
		merged = testTDigest(t, 100)
		shards = make([]*tDigest, 8)
	)
	for i := range shards {
		shards[i] = testTDigest(t, 100)
	}
	for i := 0; i < 8000; i++ {
		v := rnd.Float64() * 1000
		whole.Add(v, 1)
		shards[i%len(shards)].Add(v, 1)
	}
	for _, shard := range shards {
		merged.Merge(shard)
	}

	// Sum is recomputed from the merged centroids, so it transiently
	// understates while unmerged centroids are pending. Fold them in
	// before comparing aggregates.
	whole.compress()
	merged.compress()

	require.Equal(t, whole.Count(), merged.Count())
	require.InEpsilon(t, whole.Sum(), merged.Sum(), 1e-6)
	require.Equal(t, whole.Min(), merged.Min())
	require.Equal(t, whole.Max(), merged.Max())
	for _, q := range []float64{0.1, 0.5, 0.9, 0.99} {
		require.InDelta(t, whole.Quantile(q), merged.Quantile(q), 10.0)
	}
}

func TestTDigestMergeIntoUnsetAdoptsCompression(t *testing.T) {
	src := testTDigest(t, 50)
	for i := 0; i < 100; i++ {
		src.Add(float64(i), 1)
	}

	dst := testTDigest(t, 0)
	require.Equal(t, 0.0, dst.Compression())
	dst.Merge(src)

	require.Equal(t, 50.0, dst.Compression())
	require.Equal(t, int64(100), dst.Count())
	require.InDelta(t, 49.5, dst.Quantile(0.5), 2.0)
}

func TestTDigestMergeEmptyOther(t *testing.T) {
	d := testTDigest(t, 100)
	d.Add(1.0, 1)
	d.Add(2.0, 1)

	d.Merge(testTDigest(t, 100))

	require.Equal(t, int64(2), d.Count())
	require.Equal(t, 1.0, d.Min())
	require.Equal(t, 2.0, d.Max())
}

func TestTDigestCDFMonotone(t *testing.T) {
	d := testTDigest(t, 100)
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		d.Add(rnd.NormFloat64()*10+50, 1)
	}

	prev := 0.0
	for v := d.Min(); v <= d.Max(); v += (d.Max() - d.Min()) / 200 {
		cdf := d.CDF(v)
		require.True(t, cdf >= prev, "cdf regressed at %f: %f < %f", v, cdf, prev)
		require.True(t, cdf >= 0.0 && cdf <= 1.0)
		prev = cdf
	}
	require.Equal(t, 0.0, d.CDF(d.Min()-1))
	require.Equal(t, 1.0, d.CDF(d.Max()))
	require.Equal(t, 1.0, d.CDF(d.Max()+1))
}

func TestTDigestCDFSingleCentroid(t *testing.T) {
	// Compression of one retains so few centroids that three distinct
	// values collapse into a single interior centroid.
	d := testTDigest(t, 1)
	d.Add(1.0, 1)
	d.Add(2.0, 1)
	d.Add(3.0, 1)
	d.compress()

	require.Equal(t, 0.0, d.CDF(0.5))
	require.Equal(t, 0.0, d.CDF(1.0))
	require.InDelta(t, 0.5, d.CDF(2.0), 0.01)
	require.Equal(t, 1.0, d.CDF(3.0))
	require.Equal(t, 1.0, d.CDF(4.0))
}

func TestTDigestBoundedSize(t *testing.T) {
	d := testTDigest(t, 100)
	rnd := rand.New(rand.NewSource(99))
	for i := 0; i < 100000; i++ {
		d.Add(rnd.Float64(), 1)
	}
	d.compress()

	require.True(t, len(d.Merged()) <= d.maxCentroids,
		"merged %d exceeds maximum %d", len(d.Merged()), d.maxCentroids)
	require.Equal(t, 0, len(d.Unmerged()))
}

func TestTDigestReset(t *testing.T) {
	d := testTDigest(t, 100)
	for i := 0; i < 1000; i++ {
		d.Add(float64(i), 1)
	}

	d.Reset(200)

	require.Equal(t, 200.0, d.Compression())
	require.Equal(t, int64(0), d.Count())
	require.Equal(t, 0.0, d.Sum())
	require.True(t, math.IsNaN(d.Quantile(0.5)))
}

func TestTDigestMemUsageBytes(t *testing.T) {
	d := testTDigest(t, 100)
	usage := d.MemUsageBytes()
	require.True(t, usage > 0)

	for i := 0; i < 1000; i++ {
		d.Add(float64(i), 1)
	}
	require.True(t, d.MemUsageBytes() >= usage)
}

func TestTDigestClose(t *testing.T) {
	d := testTDigest(t, 100)
	d.Add(1.0, 1)
	d.Close()
	require.Nil(t, d.centroids)

	// Closing more than once is a no-op.
	d.Close()
	require.Nil(t, d.centroids)
}

func TestMaxNumCentroids(t *testing.T) {
	require.Equal(t, 200, maxNumCentroids(100))
	require.Equal(t, 2, maxNumCentroids(0.5))
	require.Equal(t, 0, maxNumCentroids(0))
	require.Equal(t, 2*int(1e6), maxNumCentroids(2e6))
}
