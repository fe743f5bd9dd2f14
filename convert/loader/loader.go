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

package loader

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/fileaccess"
)

// ImageLoader - resolves a tile's source reference to its pixel data. The
// writer only sees this interface, so tests and in-memory pipelines can feed
// it blocks directly.
type ImageLoader interface {
	Load(sourceRef string) (*convertModels.DataBlock, error)
}

// FileImageLoader - loads tile files from a resource root (local directory or
// S3 bucket) and decodes them by extension
type FileImageLoader struct {
	FS   fileaccess.FileAccess
	Root string

	// When set, decoded pixels are checked against this data type
	DType string
}

func (l *FileImageLoader) Load(sourceRef string) (*convertModels.DataBlock, error) {
	data, err := l.FS.ReadObject(l.Root, sourceRef)
	if err != nil {
		return nil, fmt.Errorf("Failed to read tile %v: %v", sourceRef, err)
	}

	var decoded image.Image

	ext := strings.ToLower(path.Ext(sourceRef))
	switch ext {
	case ".tif", ".tiff":
		decoded, err = tiff.Decode(bytes.NewReader(data))
	case ".png":
		decoded, err = png.Decode(bytes.NewReader(data))
	case ".jpg", ".jpeg":
		decoded, err = jpeg.Decode(bytes.NewReader(data))
	case ".bmp":
		decoded, err = bmp.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("Unsupported tile image format %v for %v", ext, sourceRef)
	}

	if err != nil {
		return nil, fmt.Errorf("Failed to decode tile %v: %v", sourceRef, err)
	}

	block, err := blockFromImage(decoded)
	if err != nil {
		return nil, fmt.Errorf("Tile %v: %v", sourceRef, err)
	}

	if len(l.DType) > 0 && block.DType != l.DType {
		return nil, fmt.Errorf("Tile %v decoded as %v, expected %v", sourceRef, block.DType, l.DType)
	}

	return block, nil
}

// blockFromImage - converts a decoded image to a yx pixel block. Microscopy
// tiles are grayscale, colour images are collapsed to their first channel.
func blockFromImage(decoded image.Image) (*convertModels.DataBlock, error) {
	b := decoded.Bounds()
	width := int64(b.Dx())
	height := int64(b.Dy())

	switch img := decoded.(type) {
	case *image.Gray:
		block, err := convertModels.MakeDataBlock("uint8", []int64{height, width})
		if err != nil {
			return nil, err
		}
		for y := 0; y < b.Dy(); y++ {
			copy(block.Data[int64(y)*width:], img.Pix[y*img.Stride:y*img.Stride+b.Dx()])
		}
		return block, nil

	case *image.Gray16:
		block, err := convertModels.MakeDataBlock("uint16", []int64{height, width})
		if err != nil {
			return nil, err
		}
		// Gray16 pixels are big-endian in the decoded buffer, blocks are
		// little-endian like the output store expects
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				src := y*img.Stride + x*2
				dst := (int64(y)*width + int64(x)) * 2
				block.Data[dst] = img.Pix[src+1]
				block.Data[dst+1] = img.Pix[src]
			}
		}
		return block, nil
	}

	// Anything else: sample through the generic interface, first channel only
	block, err := convertModels.MakeDataBlock("uint16", []int64{height, width})
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, _, _, _ := decoded.At(b.Min.X+x, b.Min.Y+y).RGBA()
			dst := (int64(y)*width + int64(x)) * 2
			block.Data[dst] = byte(r)
			block.Data[dst+1] = byte(r >> 8)
		}
	}
	return block, nil
}

// BlockImageLoader - hands out pre-made blocks by source ref. Used by tests
// and by callers that already have pixels in memory.
type BlockImageLoader struct {
	Blocks map[string]*convertModels.DataBlock
}

func (l *BlockImageLoader) Load(sourceRef string) (*convertModels.DataBlock, error) {
	block, ok := l.Blocks[sourceRef]
	if !ok {
		return nil, fmt.Errorf("No block for source ref: %v", sourceRef)
	}
	return block, nil
}
