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
	"sync"

	convertModels "github.com/omezarrtools/core/convert/models"
)

// ArrayParams - everything needed to create the output array
type ArrayParams struct {
	// Where the array lives relative to the store's root
	Path string

	Axes   []convertModels.Axis
	Shape  []int64
	DType  string
	Chunks []int64
}

// RegionSink - write access to one created array. Implementations sit on top
// of whatever chunked store the deployment uses.
type RegionSink interface {
	WriteRegion(offset []int64, block *convertModels.DataBlock) error
}

// ArrayStore - creates arrays to write into
type ArrayStore interface {
	Create(params ArrayParams) (RegionSink, error)
}

// MemoryArrayStore - ArrayStore keeping arrays as in-memory blocks. Used by
// tests and by the eager conversion path when the result is post-processed
// before storage.
type MemoryArrayStore struct {
	mu     sync.Mutex
	arrays map[string]*MemoryArray
}

// MemoryArray - one in-memory array with its region data
type MemoryArray struct {
	Params ArrayParams
	Block  *convertModels.DataBlock

	mu sync.Mutex
}

func MakeMemoryArrayStore() *MemoryArrayStore {
	return &MemoryArrayStore{arrays: map[string]*MemoryArray{}}
}

func (s *MemoryArrayStore) Create(params ArrayParams) (RegionSink, error) {
	if len(params.Shape) != len(params.Axes) {
		return nil, fmt.Errorf("Array shape %v does not match axes %v", params.Shape, params.Axes)
	}

	block, err := convertModels.MakeDataBlock(params.DType, params.Shape)
	if err != nil {
		return nil, err
	}

	array := &MemoryArray{Params: params, Block: block}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.arrays[params.Path]; exists {
		return nil, fmt.Errorf("Array already exists: %v", params.Path)
	}
	s.arrays[params.Path] = array

	return array, nil
}

// Array - looks up a created array by path
func (s *MemoryArrayStore) Array(path string) *MemoryArray {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.arrays[path]
}

func (a *MemoryArray) WriteRegion(offset []int64, block *convertModels.DataBlock) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Block.CopyRegion(block, offset)
}
