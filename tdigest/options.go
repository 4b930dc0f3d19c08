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
	"errors"
	"fmt"
)

const (
	defaultCompression = 100.0
)

var (
	errNoCentroidsPool = errors.New("no centroids pool set")
)

type options struct {
	compression   float64
	centroidsPool CentroidsPool
}

// NewOptions creates a new set of t-digest options.
func NewOptions() Options {
	centroidsPool := NewCentroidsPool(nil, nil)
	centroidsPool.Init()

	return options{
		compression:   defaultCompression,
		centroidsPool: centroidsPool,
	}
}

func (o options) SetCompression(value float64) Options {
	o.compression = value
	return o
}

func (o options) Compression() float64 {
	return o.compression
}

func (o options) SetCentroidsPool(value CentroidsPool) Options {
	o.centroidsPool = value
	return o
}

func (o options) CentroidsPool() CentroidsPool {
	return o.centroidsPool
}

func (o options) Validate() error {
	if o.compression < 0 || o.compression > maxCompression {
		return fmt.Errorf("invalid compression %v: must be between 0 and %v",
			o.compression, float64(maxCompression))
	}
	if o.centroidsPool == nil {
		return errNoCentroidsPool
	}
	return nil
}
