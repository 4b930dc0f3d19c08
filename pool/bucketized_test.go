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

package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testBucketizedSlicePool(sizes []Bucket) BucketizedObjectPool {
	p := NewBucketizedObjectPool(sizes, NewObjectPoolOptions())
	p.Init(func(capacity int) interface{} {
		return make([]int, 0, capacity)
	})
	return p
}

func TestBucketizedObjectPoolGetSmallestFit(t *testing.T) {
	p := testBucketizedSlicePool([]Bucket{
		{Capacity: 8, Count: 1},
		{Capacity: 2, Count: 1},
		{Capacity: 4, Count: 1},
	})

	v := p.Get(3).([]int)
	require.Equal(t, 4, cap(v))

	v = p.Get(8).([]int)
	require.Equal(t, 8, cap(v))

	v = p.Get(1).([]int)
	require.Equal(t, 2, cap(v))
}

func TestBucketizedObjectPoolGetOversized(t *testing.T) {
	p := testBucketizedSlicePool([]Bucket{
		{Capacity: 4, Count: 1},
	})

	// Requests above the largest bucket allocate outside the pool.
	v := p.Get(100).([]int)
	require.Equal(t, 100, cap(v))
}

func TestBucketizedObjectPoolPut(t *testing.T) {
	p := testBucketizedSlicePool([]Bucket{
		{Capacity: 4, Count: 1},
	})

	v := p.Get(4).([]int)
	v = append(v, 1, 2, 3)
	p.Put(v[:0], cap(v))

	got := p.Get(4).([]int)
	require.Equal(t, 4, cap(got))
	require.Equal(t, 0, len(got))
}

func TestBucketizedObjectPoolPutOversizedDropped(t *testing.T) {
	p := testBucketizedSlicePool([]Bucket{
		{Capacity: 4, Count: 1},
	}).(*bucketizedObjectPool)

	// Slices above the largest bucket are dropped rather than pooled.
	p.Put(make([]int, 0, 100), 100)
	v := p.Get(4).([]int)
	require.Equal(t, 4, cap(v))
}

func TestBucketizedObjectPoolNoBuckets(t *testing.T) {
	p := testBucketizedSlicePool(nil)

	// With no buckets every get allocates.
	v := p.Get(16).([]int)
	require.Equal(t, 16, cap(v))
	p.Put(v, cap(v))
}
