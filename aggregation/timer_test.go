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

package aggregation

import (
	"math"
	"testing"

	"github.com/m3db/m3digest/tdigest"

	"github.com/stretchr/testify/require"
)

func testTimer(t *testing.T) Timer {
	opts := tdigest.NewOptions()
	require.NoError(t, opts.Validate())
	return NewTimer(opts)
}

func TestTimerAdd(t *testing.T) {
	timer := testTimer(t)
	defer timer.Close()

	values := []float64{1.0, 2.0, 3.0, 4.0, 5.0}
	timer.AddBatch(values)

	require.Equal(t, int64(5), timer.Count())
	require.Equal(t, 15.0, timer.Sum())
	require.Equal(t, 55.0, timer.SumSq())
	require.Equal(t, 3.0, timer.Mean())
	require.InDelta(t, math.Sqrt(2.5), timer.Stdev(), 1e-10)
	require.Equal(t, 1.0, timer.Min())
	require.Equal(t, 5.0, timer.Max())
	require.Equal(t, 3.0, timer.Quantile(0.5))
	require.InDelta(t, 0.5, timer.CDF(3.0), 0.01)
}

func TestTimerEmpty(t *testing.T) {
	timer := testTimer(t)
	defer timer.Close()

	require.Equal(t, int64(0), timer.Count())
	require.Equal(t, 0.0, timer.Sum())
	require.Equal(t, 0.0, timer.Mean())
	require.Equal(t, 0.0, timer.Stdev())
	require.True(t, math.IsNaN(timer.Quantile(0.5)))
}

func TestTimerMerge(t *testing.T) {
	first := testTimer(t)
	second := testTimer(t)
	defer first.Close()
	defer second.Close()

	for i := 1; i <= 500; i++ {
		first.Add(float64(i))
		second.Add(float64(i + 500))
	}
	first.Merge(&second)

	require.Equal(t, int64(1000), first.Count())
	require.Equal(t, 500500.0, first.Sum())
	require.Equal(t, 1.0, first.Min())
	require.Equal(t, 1000.0, first.Max())
	require.InDelta(t, 500.5, first.Quantile(0.5), 5.0)
}

func TestLockedTimer(t *testing.T) {
	timer := NewLockedTimer(tdigest.NewOptions())

	timer.Lock()
	timer.Add(5.0)
	timer.Unlock()

	timer.Lock()
	require.Equal(t, int64(1), timer.Count())
	require.Equal(t, 5.0, timer.Quantile(0.5))
	timer.Unlock()

	timer.Close()
}
