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

package awsutil

import "fmt"

func Example_decodeS3Event() {
	var e Event

	s := `{
    "Records": [
        {
            "eventVersion": "2.1",
            "eventSource": "aws:s3",
            "awsRegion": "us-east-1",
            "eventTime": "2024-03-11T14:36:07.988Z",
            "eventName": "ObjectCreated:Put",
            "s3": {
                "s3SchemaVersion": "1.0",
                "bucket": {
                    "name": "acquisition-drop",
                    "arn": "arn:aws:s3:::acquisition-drop"
                },
                "object": {
                    "key": "plate-001/tiles.csv",
                    "size": 12345
                }
            }
        }
    ]
}`

	err := e.UnmarshalJSON([]byte(s))
	fmt.Printf("%v\n", err)
	fmt.Printf("%v|%v|%v\n", e.Records[0].EventSource, e.Records[0].S3.Bucket.Name, e.Records[0].S3.Object.Key)

	// Output:
	// <nil>
	// aws:s3|acquisition-drop|plate-001/tiles.csv
}

func Example_decodeUnknownEvent() {
	var e Event

	err := e.UnmarshalJSON([]byte(`{"hello": "world"}`))
	fmt.Printf("%v|%v\n", err, len(e.Records))

	// Output:
	// Unrecognised trigger event type|0
}
