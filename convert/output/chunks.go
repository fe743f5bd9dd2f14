// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package output

import (
	convertModels "github.com/omezarrtools/core/convert/models"
)

// ChunkShape - output chunking derived from the FOV layout: readers almost
// always pull one FOV at a time, so the xy chunk follows the first FOV's
// slice size (scaled, capped), and z/c/t chunks come from options.
func ChunkShape(img *convertModels.TiledImage, opts convertModels.ConverterOptions) []int64 {
	imgShape := img.Shape.AsSlice(img.Axes)

	fovX := img.Shape.X
	fovY := img.Shape.Y
	if len(img.Groups) > 0 && img.Groups[0].Slice != nil {
		fovX = img.Groups[0].Slice.Shape.X
		fovY = img.Groups[0].Slice.Shape.Y
	}

	scale := opts.Chunking.XYScale
	if scale <= 0 {
		scale = 1
	}

	result := make([]int64, len(img.Axes))
	for i, ax := range img.Axes {
		var chunk int64

		switch ax {
		case convertModels.AxisX:
			chunk = capChunk(int64(float64(fovX)*scale), opts.Chunking.MaxXYChunk)
		case convertModels.AxisY:
			chunk = capChunk(int64(float64(fovY)*scale), opts.Chunking.MaxXYChunk)
		case convertModels.AxisZ:
			chunk = opts.Chunking.ZChunk
		case convertModels.AxisC:
			chunk = opts.Chunking.CChunk
		case convertModels.AxisT:
			chunk = opts.Chunking.TChunk
		}

		if chunk < 1 {
			chunk = 1
		}
		if chunk > imgShape[i] && imgShape[i] > 0 {
			chunk = imgShape[i]
		}
		result[i] = chunk
	}

	return result
}

func capChunk(chunk int64, max int64) int64 {
	if max > 0 && chunk > max {
		return max
	}
	return chunk
}
