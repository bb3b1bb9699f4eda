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
	"regexp"
	"strings"

	"github.com/gofrs/uuid"
)

const UUID_LENGTH = 24

var uuidRegex = regexp.MustCompile(`\b[0-9A-F]{24}\b`)

// IdentifierGenerator hands out 24 character object identifiers. It never
// returns an identifier it already issued or was told to reserve.
type IdentifierGenerator struct {
	uuids map[string]struct{}
}

func NewIdentifierGenerator() *IdentifierGenerator {
	return &IdentifierGenerator{
		uuids: make(map[string]struct{}),
	}
}

func (g *IdentifierGenerator) Reserve(uuids ...string) {
	for _, u := range uuids {
		g.uuids[u] = struct{}{}
	}
}

// ReserveFrom reserves every object identifier found in contents and returns
// how many distinct ones it saw.
func (g *IdentifierGenerator) ReserveFrom(contents string) int {
	before := len(g.uuids)
	g.Reserve(uuidRegex.FindAllString(contents, -1)...)
	return len(g.uuids) - before
}

func (g *IdentifierGenerator) Generate() string {
	u := uuid.Must(uuid.NewV4())
	newUUID := strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[0:UUID_LENGTH])

	_, found := g.uuids[newUUID]
	if found {
		return g.Generate()
	} else {
		g.uuids[newUUID] = struct{}{}
		return newUUID
	}
}

// IsIdentifier reports whether s has the shape of a generated identifier.
func IsIdentifier(s string) bool {
	if len(s) != UUID_LENGTH {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
