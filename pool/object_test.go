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
	"time"

	"github.com/stretchr/testify/require"
)

func TestObjectPoolGetPut(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1))
	p.Init(func() interface{} {
		return 1
	})

	obj := p.Get()
	require.Equal(t, 1, obj)
	p.Put(2)
	require.Equal(t, 2, p.Get())
}

func TestObjectPoolGetOnEmpty(t *testing.T) {
	var allocs int
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1))
	p.Init(func() interface{} {
		allocs++
		return allocs
	})
	require.Equal(t, 1, allocs)

	// Draining the pool falls back to allocating.
	p.Get()
	p.Get()
	require.Equal(t, 2, allocs)
}

func TestObjectPoolPutOnFull(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1)).(*objectPool)
	p.Init(func() interface{} {
		return 0
	})

	// The pool starts full, so another put is dropped.
	p.Put(1)
	require.Equal(t, 1, len(p.values))
}

func TestObjectPoolDoubleInitPanics(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1))
	p.Init(func() interface{} {
		return 0
	})
	require.Panics(t, func() {
		p.Init(func() interface{} {
			return 0
		})
	})
}

func TestObjectPoolAccessBeforeInitPanics(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1))
	require.Panics(t, func() { p.Get() })
	require.Panics(t, func() { p.Put(1) })
}

func TestObjectPoolRefill(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().
		SetSize(8).
		SetRefillLowWatermark(0.5).
		SetRefillHighWatermark(1.0)).(*objectPool)
	p.Init(func() interface{} {
		return 0
	})

	for i := 0; i < 6; i++ {
		p.Get()
	}

	// The background refill kicks in once the free count drops to the
	// low watermark.
	require.Eventually(t, func() bool {
		return len(p.values) >= p.refillHighWatermark
	}, 10*time.Second, 10*time.Millisecond)
}
