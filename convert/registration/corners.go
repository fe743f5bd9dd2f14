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

package registration

import (
	"fmt"

	convertModels "github.com/omezarrtools/core/convert/models"
)

// Corner snapping: the fallback when FOVs aren't on a lattice. Lay out a
// candidate lattice of min-FOV-size cells big enough to hold every FOV, then
// give each FOV the free lattice corner nearest its original position, in
// insertion order. Slices are clipped to the cell so the result is disjoint
// no matter how the originals overlapped.

type latticePoint struct {
	x        int64
	y        int64
	consumed bool
}

// snapToCorners - resolves all FOV groups onto nearest free lattice corners
func snapToCorners(img *convertModels.TiledImage) error {
	if len(img.Groups) <= 0 {
		return nil
	}

	cellWidth := minCellSize(img, convertModels.AxisX)
	cellHeight := minCellSize(img, convertModels.AxisY)
	if cellWidth < 1 || cellHeight < 1 {
		return convertModels.OverlapUnresolvedError{
			CollectionPath: img.CollectionPath,
			Reason:         "zero-size FOV cannot be placed",
		}
	}

	// n*n corners is always enough for n FOVs
	n := int64(len(img.Groups))
	points := make([]latticePoint, 0, n*n)
	for row := int64(0); row < n; row++ {
		for col := int64(0); col < n; col++ {
			points = append(points, latticePoint{x: col * cellWidth, y: row * cellHeight})
		}
	}

	for _, group := range img.Groups {
		bounds := group.Bounds()

		// Nearest free corner to the original, unshifted position. The
		// strictly-less comparison keeps ties on the earliest point in scan order.
		bestIdx := -1
		bestDist := float64(0)
		for i, point := range points {
			if point.consumed {
				continue
			}
			dx := float64(point.x - bounds.Offset.X)
			dy := float64(point.y - bounds.Offset.Y)
			dist := dx*dx + dy*dy
			if bestIdx < 0 || dist < bestDist {
				bestIdx = i
				bestDist = dist
			}
		}

		if bestIdx < 0 {
			return convertModels.OverlapUnresolvedError{
				CollectionPath: img.CollectionPath,
				FOVID:          group.FOVID,
				Reason:         fmt.Sprintf("no free lattice corner among %v candidates", len(points)),
			}
		}
		points[bestIdx].consumed = true

		shapeX := bounds.Shape.X
		if shapeX > cellWidth {
			shapeX = cellWidth
		}
		shapeY := bounds.Shape.Y
		if shapeY > cellHeight {
			shapeY = cellHeight
		}

		group.Slice = &convertModels.TileSlice{
			Offset: convertModels.PixelCoord{
				X: points[bestIdx].x,
				Y: points[bestIdx].y,
				Z: bounds.Offset.Z,
				C: bounds.Offset.C,
				T: bounds.Offset.T,
			},
			Shape: convertModels.PixelCoord{
				X: shapeX,
				Y: shapeY,
				Z: bounds.Shape.Z,
				C: bounds.Shape.C,
				T: bounds.Shape.T,
			},
		}
	}

	return nil
}
