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
	"github.com/m3db/m3digest/instrument"
	"github.com/m3db/m3digest/pool"
)

// Configuration configures a t-digest.
type Configuration struct {
	// Compression controls the accuracy and memory footprint of the digest.
	Compression float64 `yaml:"compression" validate:"min=0.0,max=1000000.0"`

	// CentroidsPool configures the centroids pool.
	CentroidsPool pool.BucketizedPoolConfiguration `yaml:"centroidsPool"`
}

// NewOptions creates t-digest options from the configuration.
func (c *Configuration) NewOptions(instrumentOpts instrument.Options) (Options, error) {
	scope := instrumentOpts.MetricsScope().SubScope("centroids-pool")
	poolOpts := c.CentroidsPool.NewObjectPoolOptions(
		instrumentOpts.SetMetricsScope(scope),
	)
	centroidsPool := NewCentroidsPool(c.CentroidsPool.NewBuckets(), poolOpts)
	centroidsPool.Init()

	opts := NewOptions().SetCentroidsPool(centroidsPool)
	if c.Compression != 0 {
		opts = opts.SetCompression(c.Compression)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}
