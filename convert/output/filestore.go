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
	"fmt"
	"path"
	"strings"

	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/fileaccess"
)

// FileArrayStore - chunked array storage on a FileAccess root. An array is a
// directory holding a metadata file plus one file per chunk, named by chunk
// indices joined with dots ("0.0", "1.0", ...). Edge chunks are stored full
// size, zero padded, so every chunk file has the same length.
type FileArrayStore struct {
	FS   fileaccess.FileAccess
	Root string
}

const arrayMetaFileName = "array.json"

type arrayMeta struct {
	Axes   []convertModels.Axis `json:"axes"`
	Shape  []int64              `json:"shape"`
	DType  string               `json:"dtype"`
	Chunks []int64              `json:"chunks"`
}

func (s *FileArrayStore) Create(params ArrayParams) (RegionSink, error) {
	if len(params.Path) <= 0 {
		return nil, fmt.Errorf("Array path cannot be empty")
	}
	if len(params.Shape) != len(params.Axes) || len(params.Chunks) != len(params.Axes) {
		return nil, fmt.Errorf("Array shape %v / chunks %v do not match axes %v", params.Shape, params.Chunks, params.Axes)
	}
	if !convertModels.IsValidDType(params.DType) {
		return nil, fmt.Errorf("Unknown data type: %v", params.DType)
	}
	for i := range params.Shape {
		if params.Shape[i] < 1 || params.Chunks[i] < 1 {
			return nil, fmt.Errorf("Invalid array shape %v / chunks %v", params.Shape, params.Chunks)
		}
	}

	meta := arrayMeta{Axes: params.Axes, Shape: params.Shape, DType: params.DType, Chunks: params.Chunks}
	err := s.FS.WriteJSON(s.Root, path.Join(params.Path, arrayMetaFileName), meta)
	if err != nil {
		return nil, fmt.Errorf("Failed to write array metadata for %v: %v", params.Path, err)
	}

	return &fileArraySink{store: s, params: params}, nil
}

type fileArraySink struct {
	store  *FileArrayStore
	params ArrayParams
}

// WriteRegion - splits the region over the chunk grid. Each touched chunk is
// read (or zero-filled if new), updated and written back.
func (a *fileArraySink) WriteRegion(offset []int64, block *convertModels.DataBlock) error {
	numDims := len(a.params.Shape)
	if len(offset) != numDims || len(block.Shape) != numDims {
		return fmt.Errorf("Region offset %v / shape %v do not match array dimensions %v", offset, block.Shape, a.params.Shape)
	}
	for i := 0; i < numDims; i++ {
		if offset[i] < 0 || offset[i]+block.Shape[i] > a.params.Shape[i] {
			return fmt.Errorf("Region out of array bounds: offset %v, shape %v, array %v", offset, block.Shape, a.params.Shape)
		}
	}
	if block.DType != a.params.DType {
		return fmt.Errorf("Region data type %v does not match array %v", block.DType, a.params.DType)
	}

	// First and last chunk index the region touches, per dimension
	firstChunk := make([]int64, numDims)
	lastChunk := make([]int64, numDims)
	for i := 0; i < numDims; i++ {
		firstChunk[i] = offset[i] / a.params.Chunks[i]
		lastChunk[i] = (offset[i] + block.Shape[i] - 1) / a.params.Chunks[i]
	}

	chunkIdx := append([]int64{}, firstChunk...)
	for {
		err := a.updateChunk(chunkIdx, offset, block)
		if err != nil {
			return err
		}

		dim := numDims - 1
		for ; dim >= 0; dim-- {
			chunkIdx[dim]++
			if chunkIdx[dim] <= lastChunk[dim] {
				break
			}
			chunkIdx[dim] = firstChunk[dim]
		}
		if dim < 0 {
			break
		}
	}

	return nil
}

func (a *fileArraySink) updateChunk(chunkIdx []int64, offset []int64, block *convertModels.DataBlock) error {
	numDims := len(a.params.Shape)

	chunkOffset := make([]int64, numDims)
	cropOffset := make([]int64, numDims)
	intersect := make([]int64, numDims)
	placeAt := make([]int64, numDims)

	for i := 0; i < numDims; i++ {
		chunkOffset[i] = chunkIdx[i] * a.params.Chunks[i]

		start := offset[i]
		if chunkOffset[i] > start {
			start = chunkOffset[i]
		}
		end := offset[i] + block.Shape[i]
		if chunkEnd := chunkOffset[i] + a.params.Chunks[i]; chunkEnd < end {
			end = chunkEnd
		}

		cropOffset[i] = start - offset[i]
		intersect[i] = end - start
		placeAt[i] = start - chunkOffset[i]
	}

	part := block
	needCrop := false
	for i := 0; i < numDims; i++ {
		if intersect[i] != block.Shape[i] {
			needCrop = true
		}
	}
	if needCrop {
		var err error
		part, err = block.CropRegion(cropOffset, intersect)
		if err != nil {
			return err
		}
	}

	chunk, err := a.readChunk(chunkIdx)
	if err != nil {
		return err
	}

	err = chunk.CopyRegion(part, placeAt)
	if err != nil {
		return err
	}

	return a.store.FS.WriteObject(a.store.Root, a.chunkPath(chunkIdx), chunk.Data)
}

func (a *fileArraySink) readChunk(chunkIdx []int64) (*convertModels.DataBlock, error) {
	data, err := a.store.FS.ReadObject(a.store.Root, a.chunkPath(chunkIdx))
	if err != nil {
		if a.store.FS.IsNotFoundError(err) {
			return convertModels.MakeDataBlock(a.params.DType, a.params.Chunks)
		}
		return nil, fmt.Errorf("Failed to read chunk %v: %v", a.chunkPath(chunkIdx), err)
	}

	chunk := &convertModels.DataBlock{DType: a.params.DType, Shape: append([]int64{}, a.params.Chunks...), Data: data}
	if int64(len(data)) != chunk.SizeBytes() {
		return nil, fmt.Errorf("Chunk %v is %v bytes, expected %v", a.chunkPath(chunkIdx), len(data), chunk.SizeBytes())
	}
	return chunk, nil
}

func (a *fileArraySink) chunkPath(chunkIdx []int64) string {
	parts := make([]string, len(chunkIdx))
	for i, idx := range chunkIdx {
		parts[i] = fmt.Sprintf("%v", idx)
	}
	return path.Join(a.params.Path, strings.Join(parts, "."))
}
