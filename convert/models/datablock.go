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

import "fmt"

// DataBlock - an n-dimensional block of pixels in canonical axis order,
// row-major, last axis contiguous. This is what image loaders produce and
// what region writes to the array store consume.
type DataBlock struct {
	DType string  `json:"dtype"`
	Shape []int64 `json:"shape"`
	Data  []byte  `json:"-"`
}

// Pixel sizes for the data types we accept
var bytesPerPixel = map[string]int64{
	"uint8":   1,
	"uint16":  2,
	"uint32":  4,
	"float32": 4,
}

// IsValidDType - is this a data type we know how to handle
func IsValidDType(dtype string) bool {
	_, ok := bytesPerPixel[dtype]
	return ok
}

// BytesPerPixel - pixel size in bytes for a data type, 0 if unknown
func BytesPerPixel(dtype string) int64 {
	return bytesPerPixel[dtype]
}

// MakeDataBlock - allocates a zeroed block of the given shape and type
func MakeDataBlock(dtype string, shape []int64) (*DataBlock, error) {
	bpp, ok := bytesPerPixel[dtype]
	if !ok {
		return nil, fmt.Errorf("Unknown data type: %v", dtype)
	}

	numPixels := int64(1)
	for _, dim := range shape {
		if dim < 1 {
			return nil, fmt.Errorf("Invalid block shape: %v", shape)
		}
		numPixels *= dim
	}

	return &DataBlock{
		DType: dtype,
		Shape: append([]int64{}, shape...),
		Data:  make([]byte, numPixels*bpp),
	}, nil
}

// NumPixels - total pixel count of the block
func (d *DataBlock) NumPixels() int64 {
	result := int64(1)
	for _, dim := range d.Shape {
		result *= dim
	}
	return result
}

// SizeBytes - total byte size of the block's pixel data
func (d *DataBlock) SizeBytes() int64 {
	return d.NumPixels() * bytesPerPixel[d.DType]
}

// strides - byte stride per dimension for row-major layout
func (d *DataBlock) strides() []int64 {
	bpp := bytesPerPixel[d.DType]
	result := make([]int64, len(d.Shape))
	stride := bpp
	for i := len(d.Shape) - 1; i >= 0; i-- {
		result[i] = stride
		stride *= d.Shape[i]
	}
	return result
}

// CropRegion - extracts a sub-block of the given shape starting at offset
func (d *DataBlock) CropRegion(offset []int64, shape []int64) (*DataBlock, error) {
	if len(offset) != len(d.Shape) || len(shape) != len(d.Shape) {
		return nil, fmt.Errorf("Dimension mismatch cropping region: block %v, offset %v, shape %v", d.Shape, offset, shape)
	}
	for i := range d.Shape {
		if offset[i] < 0 || shape[i] < 1 || offset[i]+shape[i] > d.Shape[i] {
			return nil, fmt.Errorf("Crop out of bounds: offset %v, shape %v, block %v", offset, shape, d.Shape)
		}
	}

	result, err := MakeDataBlock(d.DType, shape)
	if err != nil {
		return nil, err
	}

	numDims := len(d.Shape)
	bpp := bytesPerPixel[d.DType]
	srcStrides := d.strides()
	dstStrides := result.strides()
	rowBytes := shape[numDims-1] * bpp

	index := make([]int64, numDims-1)
	for {
		srcPos := offset[numDims-1] * bpp
		dstPos := int64(0)
		for i := 0; i < numDims-1; i++ {
			srcPos += (offset[i] + index[i]) * srcStrides[i]
			dstPos += index[i] * dstStrides[i]
		}

		copy(result.Data[dstPos:dstPos+rowBytes], d.Data[srcPos:srcPos+rowBytes])

		dim := numDims - 2
		for ; dim >= 0; dim-- {
			index[dim]++
			if index[dim] < shape[dim] {
				break
			}
			index[dim] = 0
		}
		if dim < 0 {
			break
		}
	}

	return result, nil
}

// CopyRegion - copies src into this block with its origin at the given offset.
// Both blocks must have the same data type and dimensionality, and src must
// fit inside this block at that offset. Copies are done one contiguous
// last-axis run at a time, the same way hyperslab reads walk a chunked array.
func (d *DataBlock) CopyRegion(src *DataBlock, offset []int64) error {
	if d.DType != src.DType {
		return fmt.Errorf("Data type mismatch copying region: %v vs %v", d.DType, src.DType)
	}
	if len(d.Shape) != len(src.Shape) || len(offset) != len(d.Shape) {
		return fmt.Errorf("Dimension mismatch copying region: dst %v, src %v, offset %v", d.Shape, src.Shape, offset)
	}

	numDims := len(d.Shape)
	for i := 0; i < numDims; i++ {
		if offset[i] < 0 || offset[i]+src.Shape[i] > d.Shape[i] {
			return fmt.Errorf("Region out of bounds: offset %v, src shape %v, dst shape %v", offset, src.Shape, d.Shape)
		}
	}

	bpp := bytesPerPixel[d.DType]
	dstStrides := d.strides()
	srcStrides := src.strides()
	rowBytes := src.Shape[numDims-1] * bpp

	// Walk every row of the source (a row being a contiguous run along the
	// last axis) and copy it into place
	index := make([]int64, numDims-1)
	for {
		srcPos := int64(0)
		dstPos := offset[numDims-1] * bpp
		for i := 0; i < numDims-1; i++ {
			srcPos += index[i] * srcStrides[i]
			dstPos += (offset[i] + index[i]) * dstStrides[i]
		}

		copy(d.Data[dstPos:dstPos+rowBytes], src.Data[srcPos:srcPos+rowBytes])

		// Advance the odometer over the leading dimensions
		dim := numDims - 2
		for ; dim >= 0; dim-- {
			index[dim]++
			if index[dim] < src.Shape[dim] {
				break
			}
			index[dim] = 0
		}
		if dim < 0 {
			break
		}
	}

	return nil
}
