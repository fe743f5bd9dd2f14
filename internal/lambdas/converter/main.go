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
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/omezarrtools/core/convert/loader"
	"github.com/omezarrtools/core/convert/output"
	"github.com/omezarrtools/core/convert/runner"
	"github.com/omezarrtools/core/core/awsutil"
	"github.com/omezarrtools/core/core/fileaccess"
	"github.com/omezarrtools/core/core/logger"
)

// Converts tile tables dropped into the acquisition bucket. Triggered either
// by the S3 upload notification itself or by a direct job message.

func getOutputBucket() string {
	return os.Getenv("OUTPUT_BUCKET")
}

func getResourceBucket() string {
	return os.Getenv("RESOURCE_BUCKET")
}

func HandleRequest(ctx context.Context, event json.RawMessage) (string, error) {
	jobLog := &logger.StdOutLogger{}

	job, err := runner.DecodeConvertTrigger(event, jobLog)
	if err != nil {
		return "", err
	}

	// S3 triggers don't say where output goes, that comes from the stack config
	if len(job.OutputRoot) <= 0 {
		job.OutputRoot = getOutputBucket()
	}
	if bucket := getResourceBucket(); len(bucket) > 0 && job.ResourceRoot == job.TableRoot {
		job.ResourceRoot = bucket
	}

	sess, err := awsutil.GetSession()
	if err != nil {
		return "", err
	}
	s3Api, err := awsutil.GetS3(sess)
	if err != nil {
		return "", err
	}

	fs := fileaccess.MakeS3Access(s3Api)

	results, err := runner.RunConversion(
		ctx,
		fs,
		job,
		&output.FileArrayStore{FS: fs, Root: job.OutputRoot},
		&loader.FileImageLoader{FS: fs, Root: job.ResourceRoot},
		jobLog,
	)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("----- DONE: %v images -----\n", len(results)), nil
}

func main() {
	lambda.Start(HandleRequest)
}
