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

package collection

import (
	"fmt"
	"path"

	"github.com/omezarrtools/core/core/fileaccess"
	"github.com/omezarrtools/core/core/logger"
	"github.com/omezarrtools/core/core/utils"
)

// Plate output layout:
//   <plate>/plate.json              - rows/columns/acquisitions seen so far
//   <plate>/<row>/<col>/well.json   - acquisitions written into this well
//   <plate>/<row>/<col>/<acq>/      - the image data itself
//
// Several conversions can target the same plate, so setup merges into any
// existing metadata rather than overwriting it.

const plateMetaFileName = "plate.json"
const wellMetaFileName = "well.json"

type plateMeta struct {
	Name         string   `json:"name"`
	Rows         []string `json:"rows"`
	Columns      []int    `json:"columns"`
	Acquisitions []int    `json:"acquisitions"`
}

type wellMeta struct {
	Row          string `json:"row"`
	Column       int    `json:"column"`
	Acquisitions []int  `json:"acquisitions"`
}

// SetupCollection - prepares the output location for a collection and returns
// its relative path. For plates this records the well in the plate metadata.
func SetupCollection(fs fileaccess.FileAccess, root string, col Collection, jobLog logger.ILogger) (string, error) {
	err := col.Validate()
	if err != nil {
		return "", err
	}

	plate, ok := col.(PlateImage)
	if !ok {
		// Single images have no surrounding metadata to maintain
		return col.Path(), nil
	}

	err = mergePlateMeta(fs, root, plate)
	if err != nil {
		return "", err
	}

	err = mergeWellMeta(fs, root, plate)
	if err != nil {
		return "", err
	}

	jobLog.Infof("Prepared well %v%v acquisition %v in plate %v", plate.Row, plate.Column, plate.Acquisition, plate.Plate)
	return plate.Path(), nil
}

func mergePlateMeta(fs fileaccess.FileAccess, root string, plate PlateImage) error {
	metaPath := path.Join(plate.Plate, plateMetaFileName)

	meta := plateMeta{}
	err := fs.ReadJSON(root, metaPath, &meta, true)
	if err != nil {
		return fmt.Errorf("Failed to read plate metadata %v: %v", metaPath, err)
	}

	if len(meta.Name) > 0 && meta.Name != plate.Plate {
		return fmt.Errorf("Plate metadata at %v is for plate %v", metaPath, meta.Name)
	}

	meta.Name = plate.Plate
	meta.Rows = utils.UniqueSorted(append(meta.Rows, plate.Row))
	meta.Columns = utils.UniqueSorted(append(meta.Columns, plate.Column))
	meta.Acquisitions = utils.UniqueSorted(append(meta.Acquisitions, plate.Acquisition))

	return fs.WriteJSON(root, metaPath, meta)
}

func mergeWellMeta(fs fileaccess.FileAccess, root string, plate PlateImage) error {
	metaPath := path.Join(plate.Plate, plate.Row, fmt.Sprintf("%v", plate.Column), wellMetaFileName)

	meta := wellMeta{}
	err := fs.ReadJSON(root, metaPath, &meta, true)
	if err != nil {
		return fmt.Errorf("Failed to read well metadata %v: %v", metaPath, err)
	}

	meta.Row = plate.Row
	meta.Column = plate.Column
	meta.Acquisitions = utils.UniqueSorted(append(meta.Acquisitions, plate.Acquisition))

	return fs.WriteJSON(root, metaPath, meta)
}
