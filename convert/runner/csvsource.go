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

package runner

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/omezarrtools/core/convert/collection"
	"github.com/omezarrtools/core/convert/tilebuilder"
)

// CSV tile tables: one row per tile, columns identified by a header line.
// Required: source_ref, fov_id, plus either image_path or plate/row/column.
// Optional: acquisition, start_x..start_t, length_x..length_t. Any other
// column is carried through as tile metadata.

var coordinateColumns = map[string]bool{
	"start_x": true, "start_y": true, "start_z": true, "start_c": true, "start_t": true,
	"length_x": true, "length_y": true, "length_z": true, "length_c": true, "length_t": true,
}

var identityColumns = map[string]bool{
	"source_ref": true, "fov_id": true, "image_path": true,
	"plate": true, "row": true, "column": true, "acquisition": true,
}

// CSVRowSource - tilebuilder.RowSource over a CSV tile table
type CSVRowSource struct {
	reader  *csv.Reader
	columns []string
	line    int
}

// MakeCSVRowSource - parses the header line and prepares to stream rows
func MakeCSVRowSource(data []byte) (*CSVRowSource, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("Failed to read tile table header: %v", err)
	}

	columns := make([]string, len(header))
	seen := map[string]bool{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if seen[name] {
			return nil, fmt.Errorf("Duplicate tile table column: %v", name)
		}
		seen[name] = true
		columns[i] = name
	}

	if !seen["source_ref"] || !seen["fov_id"] {
		return nil, fmt.Errorf("Tile table must have source_ref and fov_id columns, got: %v", columns)
	}

	return &CSVRowSource{reader: reader, columns: columns, line: 1}, nil
}

// Next - returns the next tile row, false when the table is exhausted
func (s *CSVRowSource) Next() (tilebuilder.TileRow, bool, error) {
	row := tilebuilder.TileRow{}

	record, err := s.reader.Read()
	if err == io.EOF {
		return row, false, nil
	}
	if err != nil {
		return row, false, fmt.Errorf("Failed to read tile table row: %v", err)
	}
	s.line++

	values := map[string]string{}
	for i, v := range record {
		if i < len(s.columns) {
			values[s.columns[i]] = strings.TrimSpace(v)
		}
	}

	row.SourceRef = values["source_ref"]
	row.FOVID = values["fov_id"]

	row.Collection, err = s.parseCollection(values)
	if err != nil {
		return row, false, err
	}

	coords := map[string]**float64{
		"start_x": &row.StartX, "start_y": &row.StartY, "start_z": &row.StartZ,
		"start_c": &row.StartC, "start_t": &row.StartT,
		"length_x": &row.LengthX, "length_y": &row.LengthY, "length_z": &row.LengthZ,
		"length_c": &row.LengthC, "length_t": &row.LengthT,
	}
	for column, dest := range coords {
		text, ok := values[column]
		if !ok || len(text) <= 0 {
			continue
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return row, false, fmt.Errorf("Tile table line %v: bad %v value %v", s.line, column, text)
		}
		*dest = &parsed
	}

	for column, value := range values {
		if identityColumns[column] || coordinateColumns[column] || len(value) <= 0 {
			continue
		}
		if row.Meta == nil {
			row.Meta = map[string]string{}
		}
		row.Meta[column] = value
	}

	return row, true, nil
}

func (s *CSVRowSource) parseCollection(values map[string]string) (collection.Collection, error) {
	if imagePath := values["image_path"]; len(imagePath) > 0 {
		return collection.SingleImage{ImagePath: imagePath}, nil
	}

	plate := values["plate"]
	if len(plate) <= 0 {
		return nil, fmt.Errorf("Tile table line %v: no image_path or plate", s.line)
	}

	column, err := strconv.Atoi(values["column"])
	if err != nil {
		return nil, fmt.Errorf("Tile table line %v: bad column value %v", s.line, values["column"])
	}

	acquisition := 0
	if text := values["acquisition"]; len(text) > 0 {
		acquisition, err = strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("Tile table line %v: bad acquisition value %v", s.line, text)
		}
	}

	return collection.PlateImage{
		Plate:       plate,
		Row:         values["row"],
		Column:      column,
		Acquisition: acquisition,
	}, nil
}
