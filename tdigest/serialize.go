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
	"math"
	"strconv"
	"strings"
)

const (
	// Floats are encoded with 17 significant digits so decoding
	// recovers the exact same values.
	floatEncodingPrecision = 17

	// sumMismatchTolerance bounds the drift allowed between the encoded
	// sum and the sum recovered by replaying centroids.
	sumMismatchTolerance = 1e-10
)

var (
	errInvalidCompression    = errors.New("invalid compression")
	errUnexpectedEndOfString = errors.New("unexpected end of string")
	errInvalidAggregates     = errors.New("invalid aggregates")
	errNonEmptyAggregates    = errors.New("non-zero aggregates for an empty digest")
	errSumMismatch           = errors.New("sum does not match the decoded centroids")
	errCountMismatch         = errors.New("count does not match the decoded centroids")
)

// ToString encodes the digest into a slash-separated string of the form
//
//	compression/min/max/sum/count/mean:weight/mean:weight..
//
// with the shorter forms compression/0/0/0/0 for an empty digest and
// compression/value for a digest holding a single sample.
func (d *tDigest) ToString() string {
	b := make([]byte, 0, 64)
	b = strconv.AppendFloat(b, d.compression, 'g', -1, 64)

	if d.count == 0 {
		return string(append(b, "/0/0/0/0"...))
	}
	if d.count == 1 {
		b = append(b, '/')
		b = strconv.AppendFloat(b, d.min, 'g', floatEncodingPrecision, 64)
		return string(b)
	}

	d.compress()

	b = append(b, '/')
	b = strconv.AppendFloat(b, d.min, 'g', floatEncodingPrecision, 64)
	b = append(b, '/')
	b = strconv.AppendFloat(b, d.max, 'g', floatEncodingPrecision, 64)
	b = append(b, '/')
	b = strconv.AppendFloat(b, d.sum, 'g', floatEncodingPrecision, 64)
	b = append(b, '/')
	b = strconv.AppendInt(b, d.count, 10)
	for _, c := range d.centroids {
		b = append(b, '/')
		b = strconv.AppendFloat(b, c.Mean, 'g', floatEncodingPrecision, 64)
		b = append(b, ':')
		b = strconv.AppendInt(b, c.Weight, 10)
	}
	return string(b)
}

// FromString resets the digest and replaces its contents with the decoded
// string. An empty string resets the digest to an unset compression, ready
// to adopt the compression of the first digest merged into it. Malformed
// input leaves the digest reset but empty; sum and count validation
// failures are reported after the replayed state has already been applied.
func (d *tDigest) FromString(str string) error {
	if len(str) == 0 {
		d.Reset(0)
		return nil
	}

	tokens := strings.Split(str, "/")

	compression, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil || compression < 0 {
		return fmt.Errorf("%w: %q", errInvalidCompression, tokens[0])
	}
	d.Reset(compression)

	if len(tokens) == 1 {
		return errUnexpectedEndOfString
	}

	if len(tokens) == 2 {
		// Single-sample form.
		value, err := strconv.ParseFloat(tokens[1], 64)
		if err != nil {
			return fmt.Errorf("%w: %q", errInvalidAggregates, tokens[1])
		}
		d.Add(value, 1)
		return nil
	}

	if len(tokens) < 5 {
		return errInvalidAggregates
	}

	min, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return fmt.Errorf("%w: %q", errInvalidAggregates, tokens[1])
	}
	max, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return fmt.Errorf("%w: %q", errInvalidAggregates, tokens[2])
	}
	sum, err := strconv.ParseFloat(tokens[3], 64)
	if err != nil {
		return fmt.Errorf("%w: %q", errInvalidAggregates, tokens[3])
	}
	count, err := strconv.ParseInt(tokens[4], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", errInvalidAggregates, tokens[4])
	}

	if len(tokens) == 5 {
		// Empty form. All aggregates must be zero.
		if min != 0 || max != 0 || sum != 0 || count != 0 {
			return errNonEmptyAggregates
		}
		return nil
	}

	for _, token := range tokens[5:] {
		sep := strings.IndexByte(token, ':')
		if sep < 0 {
			return fmt.Errorf("%w: centroid %q", errInvalidAggregates, token)
		}
		mean, err := strconv.ParseFloat(token[:sep], 64)
		if err != nil {
			return fmt.Errorf("%w: centroid mean %q", errInvalidAggregates, token[:sep])
		}
		weight, err := strconv.ParseInt(token[sep+1:], 10, 64)
		if err != nil || weight <= 0 {
			return fmt.Errorf("%w: centroid weight %q", errInvalidAggregates, token[sep+1:])
		}
		d.Add(mean, weight)
	}

	d.compress()

	// Replaying centroids loses the original extrema, which may lie
	// beyond any centroid mean. Restore the encoded values.
	d.min = min
	d.max = max

	if math.Abs(sum-d.sum) >= sumMismatchTolerance {
		return errSumMismatch
	}
	if count != d.count {
		return errCountMismatch
	}
	return nil
}
