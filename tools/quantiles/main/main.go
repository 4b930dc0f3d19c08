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

// quantiles reads one sample value per line from stdin, aggregates them
// into a t-digest and prints the requested quantiles along with the
// digest in its textual form so it can be merged elsewhere.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/m3db/m3digest/config"
	"github.com/m3db/m3digest/instrument"
	"github.com/m3db/m3digest/tdigest"

	"go.uber.org/zap"
)

var (
	configFileArg = flag.String("config", "", "digest configuration file")
	quantilesArg  = flag.String("quantiles", "0.5,0.95,0.99", "comma-separated quantiles to report")
)

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	quantiles, err := parseQuantiles(*quantilesArg)
	if err != nil {
		logger.Fatal("invalid quantiles", zap.String("quantiles", *quantilesArg), zap.Error(err))
	}

	var cfg tdigest.Configuration
	if *configFileArg != "" {
		if err := config.LoadFile(&cfg, *configFileArg); err != nil {
			logger.Fatal("unable to load configuration", zap.String("file", *configFileArg), zap.Error(err))
		}
	}

	instrumentOpts := instrument.NewOptions().SetLogger(logger)
	opts, err := cfg.NewOptions(instrumentOpts)
	if err != nil {
		logger.Fatal("invalid digest configuration", zap.Error(err))
	}

	digest := tdigest.NewTDigest(opts)
	defer digest.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		value, err := strconv.ParseFloat(line, 64)
		if err != nil {
			logger.Warn("skipping unparseable sample", zap.String("line", line))
			continue
		}
		digest.Add(value, 1)
	}
	if err := scanner.Err(); err != nil {
		logger.Fatal("unable to read samples", zap.Error(err))
	}

	logger.Info("ingested samples",
		zap.Int64("count", digest.Count()),
		zap.Int("memUsageBytes", digest.MemUsageBytes()))

	for _, q := range quantiles {
		fmt.Printf("q%g: %v\n", q, digest.Quantile(q))
	}
	fmt.Printf("digest: %s\n", digest.ToString())
}

func parseQuantiles(str string) ([]float64, error) {
	tokens := strings.Split(str, ",")
	quantiles := make([]float64, 0, len(tokens))
	for _, token := range tokens {
		q, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
		if err != nil {
			return nil, err
		}
		if q < 0 || q > 1 {
			return nil, fmt.Errorf("quantile %f not in [0, 1]", q)
		}
		quantiles = append(quantiles, q)
	}
	return quantiles, nil
}
