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
	"context"
	"fmt"

	"github.com/omezarrtools/core/convert/loader"
	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/convert/output"
	"github.com/omezarrtools/core/core/fileaccess"
	"github.com/omezarrtools/core/core/logger"
)

const testTable = `source_ref,fov_id,plate,row,column,acquisition,start_x,start_y,length_x,length_y,stain
fov-0.png,fov-0,plate-01,A,1,0,0,0,2,2,DAPI
fov-1.png,fov-1,plate-01,A,1,0,2,0,2,2,DAPI
`

func makeTestJob() ConversionJob {
	job := ConversionJob{
		TableRoot:    "drop",
		TablePath:    "tiles.csv",
		ResourceRoot: "tiles",
		OutputRoot:   "out",
	}
	job.normalize()
	job.Defaults.DataType = "uint8"
	return job
}

func makeTestLoader() *loader.BlockImageLoader {
	blocks := map[string]*convertModels.DataBlock{}
	for i := byte(0); i < 2; i++ {
		fill := 10 * (i + 1)
		blocks[fmt.Sprintf("fov-%v.png", i)] = &convertModels.DataBlock{
			DType: "uint8",
			Shape: []int64{2, 2},
			Data:  []byte{fill, fill + 1, fill + 2, fill + 3},
		}
	}
	return &loader.BlockImageLoader{Blocks: blocks}
}

func Example_csvRowSource() {
	source, err := MakeCSVRowSource([]byte(testTable))
	fmt.Printf("%v\n", err)

	row, more, err := source.Next()
	fmt.Printf("%v|%v|%v\n", err, more, row.SourceRef)
	fmt.Printf("%v|%v|%v|%v\n", row.Collection.Path(), *row.StartX, *row.LengthY, row.Meta["stain"])

	_, err = MakeCSVRowSource([]byte("source_ref,plate\nx.png,p"))
	fmt.Printf("%v\n", err)

	// Output:
	// <nil>
	// <nil>|true|fov-0.png
	// plate-01/A/1/0|0|2|DAPI
	// Tile table must have source_ref and fov_id columns, got: [source_ref plate]
}

func Example_decodeConvertTrigger() {
	direct := `{"tableroot": "drop", "tablepath": "tiles.csv", "resourceroot": "tiles", "outputroot": "out"}`
	job, err := DecodeConvertTrigger([]byte(direct), &logger.NullLogger{})
	fmt.Printf("%v|%v|%v|%v\n", err, job.TablePath, job.Options.TilingMode, job.Defaults.PixelSize)

	s3Event := `{"Records": [{"eventSource": "aws:s3", "awsRegion": "us-east-1",
		"s3": {"bucket": {"name": "acquisition-drop"}, "object": {"key": "plate-001/tiles.csv"}}}]}`
	job, err = DecodeConvertTrigger([]byte(s3Event), &logger.NullLogger{})
	fmt.Printf("%v|%v|%v|%v\n", err, job.TableRoot, job.TablePath, job.ResourceRoot)

	_, err = DecodeConvertTrigger([]byte(`{"hello": "world"}`), &logger.NullLogger{})
	fmt.Printf("%v\n", err)

	// Output:
	// <nil>|tiles.csv|auto|1
	// <nil>|acquisition-drop|plate-001/tiles.csv|acquisition-drop
	// Failed to decode conversion trigger: Unrecognised trigger event type
}

func Example_initConversion() {
	fs := fileaccess.MakeMemoryAccess()
	fs.WriteObject("drop", "tiles.csv", []byte(testTable))

	tempPaths, err := InitConversion(fs, makeTestJob(), &logger.NullLogger{})
	fmt.Printf("%v|%v\n", err, tempPaths)

	unit := conversionUnit{}
	fs.ReadJSON("out", tempPaths[0], &unit, false)
	fmt.Printf("%v|%v|%v\n", unit.Collection.Kind, unit.Image.CollectionPath, len(unit.Image.Groups))

	// Output:
	// <nil>|[converter-temp/plate-01_A_1_0.json]
	// plate|plate-01/A/1/0|2
}

func Example_runConversion() {
	fs := fileaccess.MakeMemoryAccess()
	fs.WriteObject("drop", "tiles.csv", []byte(testTable))

	store := output.MakeMemoryArrayStore()
	results, err := RunConversion(context.Background(), fs, makeTestJob(), store, makeTestLoader(), &logger.NullLogger{})
	fmt.Printf("%v|%v|%v\n", err, len(results), results[0].RegionsWritten)

	array := store.Array("plate-01/A/1/0")
	fmt.Printf("%v|%v\n", array.Params.Shape, array.Block.Data)

	// Temp job file cleaned up, plate metadata written
	exists, _ := fs.ObjectExists("out", "converter-temp/plate-01_A_1_0.json")
	plateExists, _ := fs.ObjectExists("out", "plate-01/plate.json")
	fmt.Printf("%v|%v\n", exists, plateExists)

	// Output:
	// <nil>|1|2
	// [1 1 1 2 4]|[10 11 20 21 12 13 22 23]
	// false|true
}
