// Copyright 2025 go-maccel Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command maccsim runs the quantized classifier pipeline against the
// behavioral accelerator model and reports the tohost-style outcome.
//
// A reproducible random model and labeled dataset are generated from
// -seed; labels come from the pure-software rendition of the same
// integer pipeline, so a correct driver passes with status word 1.
//
// Usage:
//
//	maccsim -proto v2 -samples 100 -seed 7
//	maccsim -proto v1 -inputs 784 -hidden 128 -classes 10 -v
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/ajroetker/go-maccel/macc"
	"github.com/ajroetker/go-maccel/macc/contrib/infer"
	"github.com/ajroetker/go-maccel/macc/contrib/quant"
	"github.com/ajroetker/go-maccel/macc/sim"
)

var (
	proto       = flag.String("proto", "v2", "Protocol generation to drive (v1 or v2)")
	samples     = flag.Int("samples", 100, "Number of test samples")
	seed        = flag.Int64("seed", 1, "Seed for model and dataset generation")
	inputs      = flag.Int("inputs", 64, "Input vector length")
	hidden      = flag.Int("hidden", 32, "Hidden layer width")
	classes     = flag.Int("classes", 10, "Number of output classes")
	doneLatency = flag.Int("done-latency", 2, "Status polls before done reads as set")
	fullLatency = flag.Int("full-latency", 3, "Status polls reporting FIFO full after an issue (v2)")
	verbose     = flag.Bool("v", false, "Print every prediction")
)

func main() {
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	model := genModel(rng, *inputs, *hidden, *classes)
	ds := genDataset(rng, model, *samples)

	mem := sim.NewMemory(1 << 24)
	var (
		version    macc.Version
		rf         macc.RegisterFile
		violations func() []string
		tiles      func() int
	)
	switch *proto {
	case "v1":
		m := sim.NewModelV1(mem)
		m.DoneLatency = *doneLatency
		version, rf, violations, tiles = macc.V1, m, m.Violations, m.Tiles
	case "v2":
		m := sim.NewModelV2(mem)
		m.DoneLatency = *doneLatency
		m.FullLatency = *fullLatency
		version, rf, violations, tiles = macc.V2, m, m.Violations, m.Tiles
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown protocol %q (want v1 or v2)\n", *proto)
		os.Exit(1)
	}

	drv := macc.New(version, rf)

	fmt.Println("===================================")
	fmt.Println("maccsim: accelerated MLP inference")
	fmt.Printf("Model: %d -> %d -> %d, protocol %s\n",
		*inputs, *hidden, *classes, drv.Version())
	fmt.Printf("Dataset: %d samples (seed %d)\n", ds.Len(), *seed)
	fmt.Println("===================================")

	p := infer.New(drv, mem, model, 0x1000)

	var tally infer.Tally
	if *verbose {
		tally = runVerbose(p, ds)
	} else {
		tally = p.Run(ds)
	}

	var status sim.StatusRegister
	word := infer.Reporter{Sink: &status}.Report(tally)

	fmt.Printf("\nResults: %d/%d correct, %d tiles issued\n",
		tally.Correct, tally.Total(), tiles())
	if v := violations(); len(v) != 0 {
		fmt.Fprintf(os.Stderr, "Protocol violations:\n")
		for _, msg := range v {
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
		os.Exit(1)
	}
	if status.Passed() {
		fmt.Printf("*** PASSED *** (tohost = %d)\n", word)
		return
	}
	fmt.Printf("*** FAILED *** (tohost = %d)\n", word)
	os.Exit(1)
}

// runVerbose mirrors Pipeline.Run batch by batch so every prediction
// can be printed alongside its label.
func runVerbose(p *infer.Pipeline, ds *infer.Dataset) infer.Tally {
	var tally infer.Tally
	var batch [infer.BatchLanes][]int8
	var preds [infer.BatchLanes]int

	for i := 0; i < ds.Len(); i += infer.BatchLanes {
		live := ds.Len() - i
		if live > infer.BatchLanes {
			live = infer.BatchLanes
		}
		for lane := 0; lane < infer.BatchLanes; lane++ {
			if lane < live {
				batch[lane] = ds.Images[i+lane]
			} else {
				batch[lane] = ds.Images[i]
			}
		}

		p.Predict(&batch, &preds)

		for lane := 0; lane < live; lane++ {
			mark := "CORRECT"
			if preds[lane] == ds.Labels[i+lane] {
				tally.Correct++
			} else {
				tally.Wrong++
				mark = "WRONG"
			}
			fmt.Printf("Sample %d: predicted=%d expected=%d [%s]\n",
				i+lane, preds[lane], ds.Labels[i+lane], mark)
		}
	}
	return tally
}

func genModel(rng *rand.Rand, inputs, hidden, classes int) *infer.Model {
	layer := func(rows, depth int) infer.Layer {
		l := infer.Layer{
			Weights: make([]int8, rows*depth),
			Bias:    make([]int32, rows),
			Rows:    rows,
			Depth:   depth,
		}
		for i := range l.Weights {
			l.Weights[i] = int8(rng.Intn(256) - 128)
		}
		for i := range l.Bias {
			l.Bias[i] = int32(rng.Intn(2048) - 1024)
		}
		return l
	}
	m := &infer.Model{
		Hidden: layer(hidden, inputs),
		Output: layer(classes, hidden),
	}
	return m
}

// genDataset labels random images with the software rendition of the
// same integer pipeline, making the accelerated run's expected outcome
// fully correct.
func genDataset(rng *rand.Rand, m *infer.Model, n int) *infer.Dataset {
	ds := &infer.Dataset{
		Images: make([][]int8, n),
		Labels: make([]int, n),
	}
	for i := range ds.Images {
		img := make([]int8, m.Hidden.Depth)
		for k := range img {
			img[k] = int8(rng.Intn(256) - 128)
		}
		ds.Images[i] = img
		ds.Labels[i] = softwarePredict(m, img)
	}
	return ds
}

func softwarePredict(m *infer.Model, image []int8) int {
	raw := make([]int32, m.Hidden.Rows)
	for r := 0; r < m.Hidden.Rows; r++ {
		var acc int32
		for k := 0; k < m.Hidden.Depth; k++ {
			acc += int32(m.Hidden.Weights[r*m.Hidden.Depth+k]) * int32(image[k])
		}
		raw[r] = acc
	}
	hiddenQ := make([]int8, m.Hidden.Rows)
	quant.Fuse(raw, m.Hidden.Bias, hiddenQ)

	logits := make([]int32, m.Output.Rows)
	for r := 0; r < m.Output.Rows; r++ {
		var acc int32
		for k := 0; k < m.Output.Depth; k++ {
			acc += int32(m.Output.Weights[r*m.Output.Depth+k]) * int32(hiddenQ[k])
		}
		logits[r] = acc
	}
	quant.AddBias(logits, m.Output.Bias)
	return infer.Argmax(logits)
}
