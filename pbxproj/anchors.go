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
	"fmt"
	"regexp"
	"strings"
)

// Object identifiers of the Flutter iOS template that every generated
// Runner project shares.
const (
	RUNNER_GROUP_UUID          = "97C146F01CF9000F007C117D"
	BRIDGING_HEADER_UUID       = "74858FAD1ED2DC5600515810"
	RESOURCES_BUILD_PHASE_UUID = "97C146EC1CF9000F007C117D"
	MAIN_STORYBOARD_BUILD_UUID = "97C146FC1CF9000F007C117D"
)

func sectionComment(name string, begin bool) string {
	if begin {
		return fmt.Sprintf("/* Begin %s section */", name)
	}
	return fmt.Sprintf("/* End %s section */", name)
}

// SectionAnchor delimits a `/* Begin X section */ ... /* End X section */`
// span. New entries go right before End.
type SectionAnchor struct {
	Begin string `koanf:"begin"`
	End   string `koanf:"end"`
}

func NewSectionAnchor(isa string) SectionAnchor {
	return SectionAnchor{
		Begin: sectionComment(isa, true),
		End:   sectionComment(isa, false),
	}
}

func (a SectionAnchor) pattern() *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(a.Begin) + `.*?(` + regexp.QuoteMeta(a.End) + `)`)
}

// ListAnchor locates the object opened by Header, then its `List = ( ... );`
// value. New entries go right before the Before entry inside that list.
// Name is the object's display name, used in `<file> in <Name>` comments.
type ListAnchor struct {
	Header string `koanf:"header"`
	List   string `koanf:"list"`
	Before string `koanf:"before"`
	Name   string `koanf:"name"`
}

var headerCommentRegex = regexp.MustCompile(`/\*\s*(.+?)\s*\*/`)

// phaseName is Name, or else the comment of Header, or else empty.
func (a ListAnchor) phaseName() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	if m := headerCommentRegex.FindStringSubmatch(a.Header); m != nil {
		return m[1]
	}
	return ""
}

func (a ListAnchor) pattern() *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(a.Header) + `.*?` +
		regexp.QuoteMeta(a.List+" = (") + `(.*?)\);`)
}

type Anchors struct {
	FileReferences SectionAnchor `koanf:"file_references"`
	BuildFiles     SectionAnchor `koanf:"build_files"`
	Group          ListAnchor    `koanf:"group"`
	BuildPhase     ListAnchor    `koanf:"build_phase"`
}

// DefaultAnchors matches the Runner target of a Flutter generated iOS project.
func DefaultAnchors() Anchors {
	return Anchors{
		FileReferences: NewSectionAnchor("PBXFileReference"),
		BuildFiles:     NewSectionAnchor("PBXBuildFile"),
		Group: ListAnchor{
			Header: RUNNER_GROUP_UUID + " /* Runner */ = {",
			List:   "children",
			Before: BRIDGING_HEADER_UUID + " /* Runner-Bridging-Header.h */,",
		},
		BuildPhase: ListAnchor{
			Header: RESOURCES_BUILD_PHASE_UUID + " /* Resources */ = {",
			List:   "files",
			Before: MAIN_STORYBOARD_BUILD_UUID + " /* Main.storyboard in Resources */,",
			Name:   DEFAULT_GROUP,
		},
	}
}

func (a Anchors) Validate() error {
	missing := []string{}
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("file_references.begin", a.FileReferences.Begin)
	check("file_references.end", a.FileReferences.End)
	check("build_files.begin", a.BuildFiles.Begin)
	check("build_files.end", a.BuildFiles.End)
	check("group.header", a.Group.Header)
	check("group.list", a.Group.List)
	check("group.before", a.Group.Before)
	check("build_phase.header", a.BuildPhase.Header)
	check("build_phase.list", a.BuildPhase.List)
	check("build_phase.before", a.BuildPhase.Before)
	if len(missing) > 0 {
		return fmt.Errorf("empty anchors: %s", strings.Join(missing, ", "))
	}
	return nil
}
