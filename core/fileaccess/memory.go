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

package fileaccess

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/omezarrtools/core/core/utils"
)

// MemoryAccess - in-memory implementation of FileAccess for unit tests and for
// holding intermediate files when a conversion runs entirely in one process
type MemoryAccess struct {
	mu    sync.Mutex
	files map[string][]byte
}

func MakeMemoryAccess() *MemoryAccess {
	return &MemoryAccess{files: map[string][]byte{}}
}

type memNotFoundError struct {
	fullPath string
}

func (e memNotFoundError) Error() string {
	return fmt.Sprintf("%v does not exist", e.fullPath)
}

func memPath(root string, path string) string {
	return root + "/" + path
}

func (m *MemoryAccess) ListObjects(root string, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []string{}
	match := memPath(root, prefix)
	for fullPath := range m.files {
		if strings.HasPrefix(fullPath, match) {
			result = append(result, fullPath[len(root)+1:])
		}
	}
	sort.Strings(result)
	return result, nil
}

func (m *MemoryAccess) ObjectExists(root string, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.files[memPath(root, path)]
	return ok, nil
}

func (m *MemoryAccess) ReadObject(root string, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[memPath(root, path)]
	if !ok {
		return nil, memNotFoundError{fullPath: memPath(root, path)}
	}
	return data, nil
}

func (m *MemoryAccess) WriteObject(root string, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make([]byte, len(data))
	copy(saved, data)
	m.files[memPath(root, path)] = saved
	return nil
}

func (m *MemoryAccess) ReadJSON(root string, path string, itemsPtr interface{}, emptyIfNotFound bool) error {
	fileData, err := m.ReadObject(root, path)

	if err != nil {
		if emptyIfNotFound && m.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	return json.Unmarshal(fileData, itemsPtr)
}

func (m *MemoryAccess) WriteJSON(root string, path string, itemsPtr interface{}) error {
	fileData, err := json.MarshalIndent(itemsPtr, "", utils.PrettyPrintIndentForJSON)
	if err != nil {
		return err
	}

	return m.WriteObject(root, path, fileData)
}

func (m *MemoryAccess) DeleteObject(root string, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fullPath := memPath(root, path)
	if _, ok := m.files[fullPath]; !ok {
		return memNotFoundError{fullPath: fullPath}
	}
	delete(m.files, fullPath)
	return nil
}

func (m *MemoryAccess) IsNotFoundError(err error) bool {
	_, ok := err.(memNotFoundError)
	return ok
}
