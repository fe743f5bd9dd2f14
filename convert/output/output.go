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
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omezarrtools/core/convert/loader"
	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/logger"
)

// The writer dispatcher turns a registered image into WriteRegion calls.
// Modes differ only in loading and concurrency strategy, the bytes that end
// up in the array are identical.

// WriteResult - what a completed write did
type WriteResult struct {
	RegionsWritten int64
	BytesWritten   int64
	Elapsed        time.Duration
}

// Write - writes all of a registered image's pixel data into the sink
func Write(
	ctx context.Context,
	img *convertModels.TiledImage,
	sink RegionSink,
	imgLoader loader.ImageLoader,
	mode convertModels.WriterMode,
	opts convertModels.ConverterOptions,
	jobLog logger.ILogger) (WriteResult, error) {

	result := WriteResult{}

	if !img.Registered {
		return result, fmt.Errorf("Image %v is not registered, cannot write", img.CollectionPath)
	}
	for _, group := range img.Groups {
		if group.Slice == nil {
			return result, fmt.Errorf("Image %v FOV %v has no resolved slice", img.CollectionPath, group.FOVID)
		}
	}

	start := time.Now()
	var err error

	switch mode {
	case convertModels.WriteSequentialByTile:
		err = writeByTile(ctx, img, sink, imgLoader, &result)
	case convertModels.WriteSequentialByFOV:
		err = writeByFOV(ctx, img, sink, imgLoader, &result)
	case convertModels.WriteLazyParallelFOV:
		err = writeParallelFOV(ctx, img, sink, imgLoader, opts, &result)
	case convertModels.WriteEagerInMemory:
		err = writeInMemory(ctx, img, sink, imgLoader, &result)
	default:
		err = fmt.Errorf("Unknown writer mode: %v", mode)
	}

	result.Elapsed = time.Since(start)
	if err == nil {
		jobLog.Infof("Wrote %v: %v regions, %v bytes in %v", img.CollectionPath, result.RegionsWritten, result.BytesWritten, result.Elapsed)
	}
	return result, err
}

// writeByTile - smallest memory footprint, one tile in flight at a time
func writeByTile(ctx context.Context, img *convertModels.TiledImage, sink RegionSink, imgLoader loader.ImageLoader, result *WriteResult) error {
	for _, group := range img.Groups {
		bounds := group.Bounds()

		for _, tile := range group.Tiles {
			if err := ctx.Err(); err != nil {
				return err
			}

			block, intra, err := loadClippedTile(img, group, bounds, tile, imgLoader)
			if err != nil {
				return err
			}
			if block == nil {
				continue
			}

			offset := make([]int64, len(img.Axes))
			for i, ax := range img.Axes {
				offset[i] = group.Slice.Offset.ValueForAxis(ax) + intra[i]
			}

			err = writeRegion(sink, offset, block, img.CollectionPath, group.FOVID, result)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// writeByFOV - composes each FOV in memory and writes it as one region
func writeByFOV(ctx context.Context, img *convertModels.TiledImage, sink RegionSink, imgLoader loader.ImageLoader, result *WriteResult) error {
	for _, group := range img.Groups {
		if err := ctx.Err(); err != nil {
			return err
		}

		block, err := composeFOV(img, group, imgLoader)
		if err != nil {
			return err
		}

		err = writeRegion(sink, group.Slice.Offset.AsSlice(img.Axes), block, img.CollectionPath, group.FOVID, result)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeParallelFOV - FOVs load and compose concurrently under a bounded
// limit, but writes stay serialized in FOV order so the store never sees
// concurrent region writes
func writeParallelFOV(ctx context.Context, img *convertModels.TiledImage, sink RegionSink, imgLoader loader.ImageLoader, opts convertModels.ConverterOptions, result *WriteResult) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	limit := opts.MaxParallelLoads
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	composed := make([]chan *convertModels.DataBlock, len(img.Groups))
	for i := range composed {
		composed[i] = make(chan *convertModels.DataBlock, 1)
	}

	for i, group := range img.Groups {
		i, group := i, group
		g.Go(func() error {
			block, err := composeFOV(img, group, imgLoader)
			if err != nil {
				return err
			}
			select {
			case composed[i] <- block:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	var writeErr error
writeLoop:
	for i, group := range img.Groups {
		select {
		case block := <-composed[i]:
			writeErr = writeRegion(sink, group.Slice.Offset.AsSlice(img.Axes), block, img.CollectionPath, group.FOVID, result)
			if writeErr != nil {
				cancel()
				break writeLoop
			}
		case <-gctx.Done():
			// A load failed or the caller cancelled, abandon remaining writes
			break writeLoop
		}
	}

	loadErr := g.Wait()
	if writeErr != nil {
		return writeErr
	}
	return loadErr
}

// writeInMemory - composes the entire image and writes it in one call. Only
// sensible when the whole image fits comfortably in memory.
func writeInMemory(ctx context.Context, img *convertModels.TiledImage, sink RegionSink, imgLoader loader.ImageLoader, result *WriteResult) error {
	var composite *convertModels.DataBlock

	for _, group := range img.Groups {
		if err := ctx.Err(); err != nil {
			return err
		}

		block, err := composeFOV(img, group, imgLoader)
		if err != nil {
			return err
		}

		if composite == nil {
			composite, err = convertModels.MakeDataBlock(block.DType, img.Shape.AsSlice(img.Axes))
			if err != nil {
				return err
			}
		}

		err = composite.CopyRegion(block, group.Slice.Offset.AsSlice(img.Axes))
		if err != nil {
			return err
		}
	}

	if composite == nil {
		return nil
	}

	return writeRegion(sink, make([]int64, len(img.Axes)), composite, img.CollectionPath, "", result)
}

// composeFOV - allocates the FOV's slice-shaped block and copies every member
// tile into place
func composeFOV(img *convertModels.TiledImage, group *convertModels.TileFOVGroup, imgLoader loader.ImageLoader) (*convertModels.DataBlock, error) {
	bounds := group.Bounds()

	var composite *convertModels.DataBlock

	for _, tile := range group.Tiles {
		block, intra, err := loadClippedTile(img, group, bounds, tile, imgLoader)
		if err != nil {
			return nil, err
		}
		if block == nil {
			continue
		}

		if composite == nil {
			composite, err = convertModels.MakeDataBlock(block.DType, group.Slice.Shape.AsSlice(img.Axes))
			if err != nil {
				return nil, err
			}
		}

		err = composite.CopyRegion(block, intra)
		if err != nil {
			return nil, err
		}
	}

	if composite == nil {
		return nil, fmt.Errorf("FOV %v of %v has no loadable tiles", group.FOVID, img.CollectionPath)
	}
	return composite, nil
}

// loadClippedTile - loads one tile's pixels and clips them to the FOV's
// resolved slice. Returns the block plus the tile's offset within the slice,
// or a nil block when the slice clipped the tile away entirely.
func loadClippedTile(
	img *convertModels.TiledImage,
	group *convertModels.TileFOVGroup,
	bounds convertModels.TileSlice,
	tile convertModels.Tile,
	imgLoader loader.ImageLoader) (*convertModels.DataBlock, []int64, error) {

	raw, err := imgLoader.Load(tile.SourceRef)
	if err != nil {
		return nil, nil, err
	}

	block, err := expandTileBlock(raw, tile, img.Axes)
	if err != nil {
		return nil, nil, err
	}

	if len(img.DataType) > 0 && block.DType != img.DataType {
		return nil, nil, fmt.Errorf("Tile %v has data type %v, image %v wants %v", tile.SourceRef, block.DType, img.CollectionPath, img.DataType)
	}

	intra := make([]int64, len(img.Axes))
	extent := make([]int64, len(img.Axes))
	clipped := false

	for i, ax := range img.Axes {
		intra[i] = tile.Start.ValueForAxis(ax) - bounds.Offset.ValueForAxis(ax)
		extent[i] = tile.Length.ValueForAxis(ax)

		if room := group.Slice.Shape.ValueForAxis(ax) - intra[i]; extent[i] > room {
			extent[i] = room
			clipped = true
		}
		if extent[i] < 1 {
			// Slice clipped this tile away entirely
			return nil, nil, nil
		}
	}

	if clipped {
		block, err = block.CropRegion(make([]int64, len(img.Axes)), extent)
		if err != nil {
			return nil, nil, err
		}
	}

	return block, intra, nil
}

// expandTileBlock - tile files decode as 2D yx planes, but region writes are
// n-dimensional. Grow the shape with the tile's degenerate leading axes, the
// pixel data doesn't move.
func expandTileBlock(block *convertModels.DataBlock, tile convertModels.Tile, axes []convertModels.Axis) (*convertModels.DataBlock, error) {
	want := tile.Length.AsSlice(axes)

	if len(block.Shape) == len(axes) {
		for i := range want {
			if block.Shape[i] != want[i] {
				return nil, fmt.Errorf("Tile %v block shape %v does not match declared lengths %v", tile.SourceRef, block.Shape, want)
			}
		}
		return block, nil
	}

	if len(block.Shape) != 2 {
		return nil, fmt.Errorf("Tile %v block has %v dimensions, expected 2 or %v", tile.SourceRef, len(block.Shape), len(axes))
	}

	for i, ax := range axes {
		expect := want[i]
		switch ax {
		case convertModels.AxisY:
			if block.Shape[0] != expect {
				return nil, fmt.Errorf("Tile %v is %v pixels high, declared %v", tile.SourceRef, block.Shape[0], expect)
			}
		case convertModels.AxisX:
			if block.Shape[1] != expect {
				return nil, fmt.Errorf("Tile %v is %v pixels wide, declared %v", tile.SourceRef, block.Shape[1], expect)
			}
		default:
			if expect != 1 {
				return nil, fmt.Errorf("Tile %v declares length %v on axis %v but its file holds a single plane", tile.SourceRef, expect, ax)
			}
		}
	}

	return &convertModels.DataBlock{DType: block.DType, Shape: want, Data: block.Data}, nil
}

// writeRegion - the single point where pixels leave this process
func writeRegion(sink RegionSink, offset []int64, block *convertModels.DataBlock, collectionPath string, fovID string, result *WriteResult) error {
	err := sink.WriteRegion(offset, block)
	if err != nil {
		writeFailures.Inc()
		return convertModels.WriteFailure{
			CollectionPath: collectionPath,
			FOVID:          fovID,
			Offset:         offset,
			Err:            err,
		}
	}

	result.RegionsWritten++
	result.BytesWritten += block.SizeBytes()
	regionsWritten.Inc()
	bytesWritten.Add(float64(block.SizeBytes()))
	return nil
}
