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

package convertModels

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TilingMode - how overlapping FOVs are resolved into a disjoint layout
type TilingMode string

const (
	// TilingAuto - try grid snapping, fall back to corner snapping
	TilingAuto TilingMode = "auto"

	// TilingSnapToGrid - FOVs must sit on a regular lattice, hard fail otherwise
	TilingSnapToGrid TilingMode = "snap_to_grid"

	// TilingSnapToCorners - greedy nearest-corner assignment, works for any layout
	TilingSnapToCorners TilingMode = "snap_to_corners"

	// TilingInplace - keep original positions, caller accepts overlap
	TilingInplace TilingMode = "inplace"

	// TilingNone - same as inplace, kept as a separate name because callers use
	// it to mean "positions were already made disjoint upstream"
	TilingNone TilingMode = "no_tiling"
)

// WriterMode - load/concurrency strategy when writing a registered image
type WriterMode string

const (
	WriteSequentialByTile WriterMode = "by_tile"
	WriteSequentialByFOV  WriterMode = "by_fov"
	WriteLazyParallelFOV  WriterMode = "by_fov_parallel"
	WriteEagerInMemory    WriterMode = "in_memory"
)

// AlignmentCorrections - which per-FOV drift corrections to run
type AlignmentCorrections struct {
	AlignXY bool `json:"align_xy" yaml:"align_xy"`
	AlignZ  bool `json:"align_z" yaml:"align_z"`
	AlignT  bool `json:"align_t" yaml:"align_t"`
}

// ChunkingOptions - how the output array is chunked. XY chunks follow the FOV
// size scaled by XYScale, capped at MaxXYChunk.
type ChunkingOptions struct {
	XYScale    float64 `json:"xy_scale" yaml:"xy_scale"`
	MaxXYChunk int64   `json:"max_xy_chunk" yaml:"max_xy_chunk"`
	ZChunk     int64   `json:"z_chunk" yaml:"z_chunk"`
	CChunk     int64   `json:"c_chunk" yaml:"c_chunk"`
	TChunk     int64   `json:"t_chunk" yaml:"t_chunk"`
}

// ConverterOptions - everything configurable about a conversion run
type ConverterOptions struct {
	TilingMode TilingMode `json:"tiling_mode" yaml:"tiling_mode"`
	WriterMode WriterMode `json:"writer_mode" yaml:"writer_mode"`

	Alignment AlignmentCorrections `json:"alignment" yaml:"alignment"`
	Chunking  ChunkingOptions      `json:"chunking" yaml:"chunking"`

	// How many FOVs may load concurrently in the parallel writer mode
	MaxParallelLoads int `json:"max_parallel_loads" yaml:"max_parallel_loads"`

	// Where serialized per-image jobs are parked between the init and compute
	// phases. %v is replaced with the collection path.
	TempPathTemplate string `json:"temp_path_template" yaml:"temp_path_template"`
}

// MakeConverterOptions - the recommended defaults
func MakeConverterOptions() ConverterOptions {
	return ConverterOptions{
		TilingMode: TilingAuto,
		WriterMode: WriteSequentialByFOV,
		Chunking: ChunkingOptions{
			XYScale:    1.0,
			MaxXYChunk: 4096,
			ZChunk:     10,
			CChunk:     1,
			TChunk:     1,
		},
		MaxParallelLoads: 4,
		TempPathTemplate: "converter-temp/%v.json",
	}
}

// Validate - checks mode names are ones we know
func (o ConverterOptions) Validate() error {
	switch o.TilingMode {
	case TilingAuto, TilingSnapToGrid, TilingSnapToCorners, TilingInplace, TilingNone:
	default:
		return fmt.Errorf("Unknown tiling mode: %v", o.TilingMode)
	}

	switch o.WriterMode {
	case WriteSequentialByTile, WriteSequentialByFOV, WriteLazyParallelFOV, WriteEagerInMemory:
	default:
		return fmt.Errorf("Unknown writer mode: %v", o.WriterMode)
	}

	return nil
}

// LoadConverterOptionsYAML - reads options from YAML, starting from defaults
// so partial files work
func LoadConverterOptionsYAML(data []byte) (ConverterOptions, error) {
	options := MakeConverterOptions()
	err := yaml.Unmarshal(data, &options)
	if err != nil {
		return options, fmt.Errorf("Failed to parse converter options: %v", err)
	}

	err = options.Validate()
	return options, err
}
