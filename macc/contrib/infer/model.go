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

// Package infer runs quantized two-layer classifier inference on the
// matmul accelerator: pack weights once, then per 4-sample batch stage
// inputs, drive the hidden layer, fuse bias+ReLU+rescale, restage the
// activations as the next batch of inputs, drive the output layer, and
// take the argmax against ground-truth labels.
//
// The pipeline is protocol-agnostic: it depends on macc.Protocol and
// runs unchanged over either driver generation or any RegisterFile
// backing (hardware MMIO or the sim models).
package infer

// Layer holds one fully-connected layer's externally supplied
// parameters: row-major int8 weights and biases pre-scaled to the int32
// accumulator domain.
type Layer struct {
	Weights []int8 // Rows x Depth, row-major
	Bias    []int32
	Rows    int
	Depth   int
}

// Model is the two-layer MLP: Hidden.Depth inputs, Hidden.Rows hidden
// units (Output.Depth must equal Hidden.Rows), Output.Rows classes.
type Model struct {
	Hidden Layer
	Output Layer
}

// Dataset is a labeled test set. Every image has Hidden.Depth int8
// elements; labels are class indices.
type Dataset struct {
	Images [][]int8
	Labels []int
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Images)
}
