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
	"sort"

	"gonum.org/v1/gonum/stat"

	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/utils"
)

// Grid snapping: FOV positions are expected to lie on a regular lattice,
// possibly with small stage jitter. Positions cluster into rows and columns,
// and each FOV is placed at (col*cellWidth, row*cellHeight). Anything that
// doesn't cleanly cluster is an IrregularGridError, which the auto mode turns
// into a corner-snap retry.

// axisClusters - the lattice positions found along one axis, plus the jitter
// tolerance used to assign values to them
type axisClusters struct {
	centers   []int64
	tolerance int64
}

// snapToGrid - resolves all FOV groups onto a packed regular grid
func snapToGrid(img *convertModels.TiledImage) error {
	if len(img.Groups) <= 0 {
		return nil
	}

	cellWidth := minCellSize(img, convertModels.AxisX)
	cellHeight := minCellSize(img, convertModels.AxisY)
	if cellWidth < 1 || cellHeight < 1 {
		return convertModels.IrregularGridError{
			CollectionPath: img.CollectionPath,
			Reason:         "zero-size FOV",
		}
	}

	startsX := []int64{}
	startsY := []int64{}
	for _, group := range img.Groups {
		bounds := group.Bounds()
		startsX = append(startsX, bounds.Offset.X)
		startsY = append(startsY, bounds.Offset.Y)
	}

	cols := clusterStarts(startsX, cellWidth)
	rows := clusterStarts(startsY, cellHeight)

	// A consistent lattice means every cell is occupied. Raster and snake
	// scans always satisfy this, sparse or ad-hoc layouts don't.
	if len(cols.centers)*len(rows.centers) != len(img.Groups) {
		return convertModels.IrregularGridError{
			CollectionPath: img.CollectionPath,
			Reason:         fmt.Sprintf("%v FOVs do not fill a %vx%v lattice", len(img.Groups), len(rows.centers), len(cols.centers)),
		}
	}

	occupied := map[string]string{}

	for _, group := range img.Groups {
		bounds := group.Bounds()

		colIdx, err := assignToCluster(bounds.Offset.X, cols, img.CollectionPath, group.FOVID, convertModels.AxisX)
		if err != nil {
			return err
		}
		rowIdx, err := assignToCluster(bounds.Offset.Y, rows, img.CollectionPath, group.FOVID, convertModels.AxisY)
		if err != nil {
			return err
		}

		cell := fmt.Sprintf("%v,%v", rowIdx, colIdx)
		if prevFOV, taken := occupied[cell]; taken {
			return convertModels.IrregularGridError{
				CollectionPath: img.CollectionPath,
				Reason:         fmt.Sprintf("FOVs %v and %v land in the same grid cell %v", prevFOV, group.FOVID, cell),
			}
		}
		occupied[cell] = group.FOVID

		group.Slice = &convertModels.TileSlice{
			Offset: convertModels.PixelCoord{
				X: int64(colIdx) * cellWidth,
				Y: int64(rowIdx) * cellHeight,
				Z: bounds.Offset.Z,
				C: bounds.Offset.C,
				T: bounds.Offset.T,
			},
			Shape: convertModels.PixelCoord{
				X: cellWidth,
				Y: cellHeight,
				Z: bounds.Shape.Z,
				C: bounds.Shape.C,
				T: bounds.Shape.T,
			},
		}
	}

	return nil
}

// clusterStarts - groups the distinct start positions along one axis into
// lattice rows/columns. Gaps between distinct positions split into stage
// jitter (small against the FOV size) and real lattice steps. The clustering
// tolerance is half the median lattice step, so jitter collapses into one
// cluster while genuine rows and columns stay separate.
func clusterStarts(starts []int64, cellSize int64) axisClusters {
	unique := utils.UniqueSorted(starts)
	if len(unique) <= 1 {
		return axisClusters{centers: unique}
	}

	pitchGaps := []float64{}
	for i := 1; i < len(unique); i++ {
		gap := unique[i] - unique[i-1]
		if gap > cellSize/2 {
			pitchGaps = append(pitchGaps, float64(gap))
		}
	}
	if len(pitchGaps) <= 0 {
		// Everything within jitter range of everything else, one cluster
		return axisClusters{centers: unique[:1], tolerance: cellSize / 2}
	}

	// Quantile needs the gaps in ascending order
	sort.Float64s(pitchGaps)
	median := stat.Quantile(0.5, stat.Empirical, pitchGaps, nil)
	tolerance := int64(median / 2)

	result := axisClusters{tolerance: tolerance}
	clusterStart := unique[0]
	result.centers = append(result.centers, clusterStart)

	for _, v := range unique[1:] {
		if v-clusterStart > tolerance {
			clusterStart = v
			result.centers = append(result.centers, clusterStart)
		}
	}

	return result
}

// assignToCluster - finds which lattice position a start belongs to
func assignToCluster(value int64, clusters axisClusters, collectionPath string, fovID string, ax convertModels.Axis) (int, error) {
	bestIdx := -1
	bestDist := int64(0)
	nearTolerance := 0

	for i, center := range clusters.centers {
		dist := utils.AbsI64(value - center)
		if dist <= clusters.tolerance {
			nearTolerance++
		}
		if bestIdx < 0 || dist < bestDist {
			bestIdx = i
			bestDist = dist
		}
	}

	if bestIdx < 0 || bestDist > clusters.tolerance {
		return 0, convertModels.IrregularGridError{
			CollectionPath: collectionPath,
			Reason:         fmt.Sprintf("FOV %v start %v on axis %v is not on the lattice", fovID, value, ax),
		}
	}
	if nearTolerance > 1 {
		return 0, convertModels.IrregularGridError{
			CollectionPath: collectionPath,
			Reason:         fmt.Sprintf("FOV %v start %v on axis %v is ambiguous between lattice positions", fovID, value, ax),
		}
	}

	return bestIdx, nil
}
