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

package aggregator

import (
	"fmt"

	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/utils"
)

// Groups a flat tile list into one TiledImage per collection path, with tiles
// sharing a FOV collected into groups. Ordering is first-seen throughout,
// which later decides which FOV acts as the alignment reference.

// Aggregate - pure function from tiles to images. Tiles within one collection
// path must agree on axis usage and channel count.
func Aggregate(tiles []convertModels.Tile, defaults convertModels.AcquisitionDefaults) (map[string]*convertModels.TiledImage, error) {
	err := convertModels.ValidateAxes(defaults.Axes)
	if err != nil {
		return nil, err
	}

	result := map[string]*convertModels.TiledImage{}

	for _, tile := range tiles {
		err = tile.Validate()
		if err != nil {
			return nil, err
		}

		err = checkAxisUsage(tile, defaults.Axes)
		if err != nil {
			return nil, err
		}

		img, ok := result[tile.CollectionPath]
		if !ok {
			img = &convertModels.TiledImage{
				CollectionPath: tile.CollectionPath,
				Axes:           append([]convertModels.Axis{}, defaults.Axes...),
				PixelSize:      defaults.PixelSize,
				ZSpacing:       defaults.ZSpacing,
				TSpacing:       defaults.TSpacing,
				ChannelNames:   append([]string{}, defaults.ChannelNames...),
				Wavelengths:    append([]float64{}, defaults.Wavelengths...),
				DataType:       defaults.DataType,
			}
			result[tile.CollectionPath] = img
		}

		group := img.FindGroup(tile.FOVID)
		if group == nil {
			group = &convertModels.TileFOVGroup{FOVID: tile.FOVID}
			img.Groups = append(img.Groups, group)
		}
		group.Tiles = append(group.Tiles, tile)
	}

	for _, img := range result {
		err = checkChannelConsistency(img)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// OrderedPaths - collection paths in first-seen tile order, so batch runs
// process images deterministically
func OrderedPaths(tiles []convertModels.Tile) []string {
	result := []string{}
	for _, tile := range tiles {
		if !utils.ItemInSlice(tile.CollectionPath, result) {
			result = append(result, tile.CollectionPath)
		}
	}
	return result
}

// checkAxisUsage - a tile may only extend along axes the image has. Axes
// outside the set must sit at the degenerate start 0, length 1.
func checkAxisUsage(tile convertModels.Tile, axes []convertModels.Axis) error {
	for _, ax := range convertModels.CanonicalAxes {
		if utils.ItemInSlice(ax, axes) {
			continue
		}
		if tile.Start.ValueForAxis(ax) != 0 || tile.Length.ValueForAxis(ax) != 1 {
			return convertModels.InconsistentImageError{
				CollectionPath: tile.CollectionPath,
				FOVID:          tile.FOVID,
				Message:        fmt.Sprintf("tile extends along axis %v which the image does not have", ax),
			}
		}
	}
	return nil
}

// checkChannelConsistency - every FOV group must cover the same channel range.
// The shared channel count becomes the image's.
func checkChannelConsistency(img *convertModels.TiledImage) error {
	channelCount := int64(-1)

	for _, group := range img.Groups {
		groupChannels := int64(0)
		for _, tile := range group.Tiles {
			end := tile.Start.C + tile.Length.C
			if end > groupChannels {
				groupChannels = end
			}
		}

		if channelCount < 0 {
			channelCount = groupChannels
		} else if groupChannels != channelCount {
			return convertModels.InconsistentImageError{
				CollectionPath: img.CollectionPath,
				FOVID:          group.FOVID,
				Message:        fmt.Sprintf("FOV has %v channels, image has %v", groupChannels, channelCount),
			}
		}
	}

	if channelCount < 0 {
		channelCount = 0
	}
	img.ChannelCount = channelCount
	return nil
}
