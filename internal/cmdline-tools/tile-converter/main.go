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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/omezarrtools/core/convert/loader"
	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/convert/output"
	"github.com/omezarrtools/core/convert/runner"
	"github.com/omezarrtools/core/core/fileaccess"
	"github.com/omezarrtools/core/core/logger"
)

func main() {
	fmt.Println("================================")
	fmt.Println("=  Tile to array converter     =")
	fmt.Println("================================")

	var argTable = flag.String("table", "", "Path to the CSV tile table")
	var argResourcePath = flag.String("resourcepath", "", "Directory the tile image files live in")
	var argOutPath = flag.String("outpath", "", "Output directory")
	var argOptions = flag.String("options", "", "Optional YAML converter options file")
	var argPixelSize = flag.Float64("pixelsize", 1, "Pixel size in micrometers")
	var argZSpacing = flag.Float64("zspacing", 1, "Z slice spacing in micrometers")
	var argTSpacing = flag.Float64("tspacing", 1, "Frame spacing in seconds")
	var argAxes = flag.String("axes", "t,c,z,y,x", "Output axes, comma separated subset of t,c,z,y,x")
	var argDataType = flag.String("datatype", "uint16", "Pixel data type: uint8, uint16, uint32 or float32")

	flag.Parse()

	jobLog := &logger.StdOutLogger{}

	if len(*argTable) <= 0 || len(*argResourcePath) <= 0 || len(*argOutPath) <= 0 {
		jobLog.Errorf("Need -table, -resourcepath and -outpath")
		printFail()
		return
	}

	job := runner.ConversionJob{
		TableRoot:    filepath.Dir(*argTable),
		TablePath:    filepath.Base(*argTable),
		ResourceRoot: *argResourcePath,
		OutputRoot:   *argOutPath,
	}

	job.Defaults = convertModels.MakeAcquisitionDefaults()
	job.Defaults.PixelSize = *argPixelSize
	job.Defaults.ZSpacing = *argZSpacing
	job.Defaults.TSpacing = *argTSpacing
	job.Defaults.DataType = *argDataType

	job.Defaults.Axes = []convertModels.Axis{}
	for _, ax := range strings.Split(*argAxes, ",") {
		job.Defaults.Axes = append(job.Defaults.Axes, convertModels.Axis(strings.TrimSpace(ax)))
	}

	job.Options = convertModels.MakeConverterOptions()
	if len(*argOptions) > 0 {
		optionsData, err := os.ReadFile(*argOptions)
		if err == nil {
			job.Options, err = convertModels.LoadConverterOptionsYAML(optionsData)
		}
		if err != nil {
			jobLog.Errorf("Failed to load options %v: %v", *argOptions, err)
			printFail()
			return
		}
	}

	fs := &fileaccess.FSAccess{}

	jobLog.Infof("----- Converting tile table: %v -----", *argTable)

	results, err := runner.RunConversion(
		context.Background(),
		fs,
		job,
		&output.FileArrayStore{FS: fs, Root: *argOutPath},
		&loader.FileImageLoader{FS: fs, Root: *argResourcePath},
		jobLog,
	)
	if err != nil {
		jobLog.Errorf("CONVERT ERROR: %v", err)
		printFail()
		return
	}

	for _, result := range results {
		jobLog.Infof("Image done: %v regions, %v bytes, %v", result.RegionsWritten, result.BytesWritten, result.Elapsed)
	}

	jobLog.Infof("\n--------  SUCCESS  --------\n\n")
}

func printFail() {
	fmt.Printf("\n****************************\n")
	fmt.Printf("**  FAIL    FAIL    FAIL  **\n")
	fmt.Printf("****************************\n\n\n")
}
