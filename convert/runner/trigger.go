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
	"encoding/json"
	"fmt"

	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/awsutil"
	"github.com/omezarrtools/core/core/logger"
)

// ConversionJob - one conversion request: where the tile table is, where the
// tile files are, where output goes, and how to convert
type ConversionJob struct {
	// Root (bucket or directory) and path of the tile metadata table
	TableRoot string `json:"tableroot"`
	TablePath string `json:"tablepath"`

	// Root the tiles' source refs resolve against
	ResourceRoot string `json:"resourceroot"`

	// Root converted arrays and temp job files are written under
	OutputRoot string `json:"outputroot"`

	Defaults convertModels.AcquisitionDefaults `json:"defaults"`
	Options  convertModels.ConverterOptions    `json:"options"`
}

// Validate - checks the job names all its locations
func (j ConversionJob) Validate() error {
	if len(j.TableRoot) <= 0 || len(j.TablePath) <= 0 {
		return fmt.Errorf("Conversion job does not say where the tile table is")
	}
	if len(j.ResourceRoot) <= 0 {
		return fmt.Errorf("Conversion job does not say where tile data lives")
	}
	if len(j.OutputRoot) <= 0 {
		return fmt.Errorf("Conversion job does not say where output goes")
	}
	return j.Options.Validate()
}

// DecodeConvertTrigger - a conversion can be requested two ways: a direct
// JSON job message, or an S3 upload notification (optionally via SNS/SQS) for
// a freshly dropped tile table. Returns a normalized job either way. S3
// triggered jobs get default conversion settings and leave OutputRoot for the
// caller's configuration to fill in.
func DecodeConvertTrigger(data []byte, jobLog logger.ILogger) (ConversionJob, error) {
	job := ConversionJob{}

	directErr := json.Unmarshal(data, &job)
	if directErr == nil && len(job.TablePath) > 0 {
		job.normalize()
		jobLog.Infof("Direct conversion trigger for table %v/%v", job.TableRoot, job.TablePath)
		return job, nil
	}

	var event awsutil.Event
	err := event.UnmarshalJSON(data)
	if err != nil {
		return job, fmt.Errorf("Failed to decode conversion trigger: %v", err)
	}
	if len(event.Records) <= 0 || len(event.Records[0].S3.Object.Key) <= 0 {
		return job, fmt.Errorf("Conversion trigger contains no S3 object")
	}

	record := event.Records[0]
	job = ConversionJob{
		TableRoot:    record.S3.Bucket.Name,
		TablePath:    record.S3.Object.Key,
		ResourceRoot: record.S3.Bucket.Name,
	}
	job.normalize()

	jobLog.Infof("S3 conversion trigger for table %v/%v", job.TableRoot, job.TablePath)
	return job, nil
}

// normalize - fills in defaults a sparse trigger message left out
func (j *ConversionJob) normalize() {
	if j.Defaults.PixelSize <= 0 {
		j.Defaults.PixelSize = 1
	}
	if j.Defaults.ZSpacing <= 0 {
		j.Defaults.ZSpacing = 1
	}
	if j.Defaults.TSpacing <= 0 {
		j.Defaults.TSpacing = 1
	}
	if len(j.Defaults.Axes) <= 0 {
		j.Defaults.Axes = append([]convertModels.Axis{}, convertModels.CanonicalAxes...)
	}
	if len(j.Defaults.DataType) <= 0 {
		j.Defaults.DataType = "uint16"
	}

	empty := convertModels.CooFlags{}
	if j.Defaults.CooFlags == empty {
		j.Defaults.CooFlags = convertModels.DefaultCooFlags()
	}

	if len(j.Options.TilingMode) <= 0 {
		j.Options.TilingMode = convertModels.TilingAuto
	}
	if len(j.Options.WriterMode) <= 0 {
		j.Options.WriterMode = convertModels.WriteSequentialByFOV
	}
	if j.Options.MaxParallelLoads < 1 {
		j.Options.MaxParallelLoads = 4
	}
	if j.Options.Chunking.XYScale <= 0 {
		j.Options.Chunking.XYScale = 1
	}
	if j.Options.Chunking.MaxXYChunk < 1 {
		j.Options.Chunking.MaxXYChunk = 4096
	}
	if j.Options.Chunking.ZChunk < 1 {
		j.Options.Chunking.ZChunk = 10
	}
	if j.Options.Chunking.CChunk < 1 {
		j.Options.Chunking.CChunk = 1
	}
	if j.Options.Chunking.TChunk < 1 {
		j.Options.Chunking.TChunk = 1
	}
	if len(j.Options.TempPathTemplate) <= 0 {
		j.Options.TempPathTemplate = "converter-temp/%v.json"
	}
}
