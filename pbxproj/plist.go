/**
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
'License'); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at
http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
'AS IS' BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/

package pbxproj

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"howett.net/plist"
)

var (
	ErrInvalidResource = errors.New("invalid resource file")
	ErrMissingResource = errors.New("resource file not found")
)

// ServiceInfo holds the keys of a GoogleService-Info.plist worth reporting.
// Any other property list with a dictionary root decodes to an empty value.
type ServiceInfo struct {
	BundleID    string `plist:"BUNDLE_ID"`
	GoogleAppID string `plist:"GOOGLE_APP_ID"`
	ProjectID   string `plist:"PROJECT_ID"`
	Format      string `plist:"-"`
}

// ReadServiceInfo checks that filePath holds a property list with a
// dictionary root.
func ReadServiceInfo(filePath string) (ServiceInfo, error) {
	var info ServiceInfo
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return info, fmt.Errorf("%w: %w", ErrMissingResource, err)
	}
	if err != nil {
		return info, err
	}

	var root map[string]interface{}
	format, err := plist.Unmarshal(data, &root)
	if err != nil {
		return info, fmt.Errorf("%w %s: %v", ErrInvalidResource, filePath, err)
	}
	if len(root) == 0 {
		return info, fmt.Errorf("%w %s: empty property list", ErrInvalidResource, filePath)
	}

	if _, err := plist.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("%w %s: %v", ErrInvalidResource, filePath, err)
	}
	info.Format = plist.FormatNames[format]
	return info, nil
}
