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
	"context"
	"fmt"

	"github.com/omezarrtools/core/convert/loader"
	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/logger"
)

var yx = []convertModels.Axis{convertModels.AxisY, convertModels.AxisX}

type recordedWrite struct {
	offset []int64
	shape  []int64
}

// recordingSink - remembers every write, optionally failing at a given call
type recordingSink struct {
	writes  []recordedWrite
	failAt  int
	receive *convertModels.DataBlock
}

func makeRecordingSink() *recordingSink {
	return &recordingSink{failAt: -1}
}

func (s *recordingSink) WriteRegion(offset []int64, block *convertModels.DataBlock) error {
	if s.failAt >= 0 && len(s.writes) == s.failAt {
		return fmt.Errorf("disk full")
	}
	s.writes = append(s.writes, recordedWrite{offset: offset, shape: append([]int64{}, block.Shape...)})
	if s.receive != nil {
		s.receive.CopyRegion(block, offset)
	}
	return nil
}

// makeRegisteredImage - two 2x2 FOVs side by side, one tile each, plus a
// block loader holding their pixels
func makeRegisteredImage() (*convertModels.TiledImage, *loader.BlockImageLoader) {
	img := &convertModels.TiledImage{
		CollectionPath: "run-1/0",
		Axes:           yx,
		DataType:       "uint8",
		Shape:          convertModels.PixelCoord{X: 4, Y: 2, Z: 1, C: 1, T: 1},
		Registered:     true,
	}

	blocks := map[string]*convertModels.DataBlock{}
	for i := int64(0); i < 2; i++ {
		fovID := fmt.Sprintf("fov-%v", i)
		img.Groups = append(img.Groups, &convertModels.TileFOVGroup{
			FOVID: fovID,
			Tiles: []convertModels.Tile{
				{
					SourceRef:      fovID + ".png",
					CollectionPath: img.CollectionPath,
					FOVID:          fovID,
					Start:          convertModels.PixelCoord{X: i * 2},
					Length:         convertModels.PixelCoord{X: 2, Y: 2, Z: 1, C: 1, T: 1},
				},
			},
			Slice: &convertModels.TileSlice{
				Offset: convertModels.PixelCoord{X: i * 2},
				Shape:  convertModels.PixelCoord{X: 2, Y: 2, Z: 1, C: 1, T: 1},
			},
		})

		fill := byte(10 * (i + 1))
		blocks[fovID+".png"] = &convertModels.DataBlock{
			DType: "uint8",
			Shape: []int64{2, 2},
			Data:  []byte{fill, fill + 1, fill + 2, fill + 3},
		}
	}

	return img, &loader.BlockImageLoader{Blocks: blocks}
}

func Example_writeByFOV() {
	img, blockLoader := makeRegisteredImage()
	sink := makeRecordingSink()
	sink.receive, _ = convertModels.MakeDataBlock("uint8", []int64{2, 4})

	result, err := Write(context.Background(), img, sink, blockLoader, convertModels.WriteSequentialByFOV, convertModels.MakeConverterOptions(), &logger.NullLogger{})
	fmt.Printf("%v|%v|%v\n", err, result.RegionsWritten, result.BytesWritten)
	for _, w := range sink.writes {
		fmt.Printf("%v|%v\n", w.offset, w.shape)
	}
	fmt.Printf("%v\n", sink.receive.Data)

	// Output:
	// <nil>|2|8
	// [0 0]|[2 2]
	// [0 2]|[2 2]
	// [10 11 20 21 12 13 22 23]
}

func Example_writeByTile() {
	img, blockLoader := makeRegisteredImage()
	sink := makeRecordingSink()

	result, err := Write(context.Background(), img, sink, blockLoader, convertModels.WriteSequentialByTile, convertModels.MakeConverterOptions(), &logger.NullLogger{})
	fmt.Printf("%v|%v|%v\n", err, result.RegionsWritten, len(sink.writes))

	// Output:
	// <nil>|2|2
}

func Example_writeParallelKeepsFOVOrder() {
	img, blockLoader := makeRegisteredImage()
	sink := makeRecordingSink()

	opts := convertModels.MakeConverterOptions()
	opts.MaxParallelLoads = 2

	result, err := Write(context.Background(), img, sink, blockLoader, convertModels.WriteLazyParallelFOV, opts, &logger.NullLogger{})
	fmt.Printf("%v|%v\n", err, result.RegionsWritten)
	for _, w := range sink.writes {
		fmt.Printf("%v\n", w.offset)
	}

	// Output:
	// <nil>|2
	// [0 0]
	// [0 2]
}

func Example_writeInMemory() {
	img, blockLoader := makeRegisteredImage()
	sink := makeRecordingSink()
	sink.receive, _ = convertModels.MakeDataBlock("uint8", []int64{2, 4})

	result, err := Write(context.Background(), img, sink, blockLoader, convertModels.WriteEagerInMemory, convertModels.MakeConverterOptions(), &logger.NullLogger{})
	fmt.Printf("%v|%v|%v|%v\n", err, result.RegionsWritten, sink.writes[0].offset, sink.writes[0].shape)
	fmt.Printf("%v\n", sink.receive.Data)

	// Output:
	// <nil>|1|[0 0]|[2 4]
	// [10 11 20 21 12 13 22 23]
}

func Example_writeFailureAborts() {
	img, blockLoader := makeRegisteredImage()
	sink := makeRecordingSink()
	sink.failAt = 0

	_, err := Write(context.Background(), img, sink, blockLoader, convertModels.WriteSequentialByFOV, convertModels.MakeConverterOptions(), &logger.NullLogger{})
	fmt.Printf("%v|%v\n", err, len(sink.writes))

	// Output:
	// Write failed for run-1/0 FOV fov-0 at offset [0 0]: disk full|0
}

func Example_writeCancelled() {
	img, blockLoader := makeRegisteredImage()
	sink := makeRecordingSink()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Write(ctx, img, sink, blockLoader, convertModels.WriteSequentialByFOV, convertModels.MakeConverterOptions(), &logger.NullLogger{})
	fmt.Printf("%v|%v\n", err, len(sink.writes))

	// Output:
	// context canceled|0
}

func Example_writeUnregistered() {
	img, blockLoader := makeRegisteredImage()
	img.Registered = false

	_, err := Write(context.Background(), img, makeRecordingSink(), blockLoader, convertModels.WriteSequentialByFOV, convertModels.MakeConverterOptions(), &logger.NullLogger{})
	fmt.Printf("%v\n", err)

	// Output:
	// Image run-1/0 is not registered, cannot write
}

func Example_writeClipsToSlice() {
	// Corner snapping can hand a FOV a cell smaller than its tile, the write
	// must clip instead of spilling into the neighbour
	img, blockLoader := makeRegisteredImage()
	img.Groups[0].Slice.Shape.X = 1
	sink := makeRecordingSink()

	result, err := Write(context.Background(), img, sink, blockLoader, convertModels.WriteSequentialByFOV, convertModels.MakeConverterOptions(), &logger.NullLogger{})
	fmt.Printf("%v|%v|%v|%v\n", err, result.RegionsWritten, sink.writes[0].shape, sink.writes[1].shape)

	// Output:
	// <nil>|2|[2 1]|[2 2]
}

func Example_chunkShape() {
	img, _ := makeRegisteredImage()

	opts := convertModels.MakeConverterOptions()
	fmt.Printf("%v\n", ChunkShape(img, opts))

	// Scaled up beyond the image, capped at the image shape
	opts.Chunking.XYScale = 10
	fmt.Printf("%v\n", ChunkShape(img, opts))

	// Output:
	// [2 2]
	// [2 4]
}

func Example_memoryArrayStore() {
	store := MakeMemoryArrayStore()
	sink, err := store.Create(ArrayParams{Path: "run-1/0", Axes: yx, Shape: []int64{2, 4}, DType: "uint8", Chunks: []int64{2, 2}})
	fmt.Printf("%v\n", err)

	block := &convertModels.DataBlock{DType: "uint8", Shape: []int64{1, 2}, Data: []byte{7, 8}}
	fmt.Printf("%v\n", sink.WriteRegion([]int64{1, 1}, block))

	fmt.Printf("%v\n", store.Array("run-1/0").Block.Data)

	// Output:
	// <nil>
	// <nil>
	// [0 0 0 0 0 7 8 0]
}
