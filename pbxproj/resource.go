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
	"path/filepath"
	"regexp"
	"strings"
)

const (
	DEFAULT_SOURCETREE = "\"<group>\""
	DEFAULT_GROUP      = "Resources"
	DEFAULT_FILETYPE   = "unknown"
	DEFAULT_RESOURCE   = "GoogleService-Info.plist"
)

var FILETYPE_BY_EXTENSION = map[string]string{
	"bundle":       "wrapper.plug-in",
	"entitlements": "text.plist.entitlements",
	"gif":          "image.gif",
	"jpg":          "image.jpeg",
	"json":         "text.json",
	"markdown":     "text",
	"md":           "net.daringfireball.markdown",
	"plist":        "text.plist.xml",
	"png":          "image.png",
	"sh":           "text.script.sh",
	"storyboard":   "file.storyboard",
	"strings":      "text.plist.strings",
	"ttf":          "file",
	"txt":          "text",
	"xcassets":     "folder.assetcatalog",
	"xcconfig":     "text.xcconfig",
	"xcprivacy":    "text.xml",
	"xib":          "file.xib",
}

var GROUP_BY_FILETYPE = map[string]string{
	"sourcecode.c.h":    "Resources",
	"sourcecode.c.objc": "Sources",
	"sourcecode.swift":  "Sources",
}

const DEFAULT_ENCODING_VALUE = 4

var ENCODING_BY_FILETYPE = map[string]int{
	"net.daringfireball.markdown": DEFAULT_ENCODING_VALUE,
	"text":                        DEFAULT_ENCODING_VALUE,
	"text.json":                   DEFAULT_ENCODING_VALUE,
	"text.plist.entitlements":     DEFAULT_ENCODING_VALUE,
	"text.plist.strings":          DEFAULT_ENCODING_VALUE,
	"text.plist.xml":              DEFAULT_ENCODING_VALUE,
	"text.script.sh":              DEFAULT_ENCODING_VALUE,
	"text.xcconfig":               DEFAULT_ENCODING_VALUE,
	"text.xml":                    DEFAULT_ENCODING_VALUE,
}

var unquotedRegex = regexp.MustCompile(`(^")|("$)`)

func unquoted(text string) string {
	if text == "" {
		return text
	}
	return unquotedRegex.ReplaceAllString(text, "")
}

func quoted(text string) string {
	return `"` + unquoted(text) + `"`
}

type PbxResourceOptions struct {
	LastKnownFileType string
	SourceTree        string
	Group             string
}

// PbxResource describes the file registered into the project: the same path
// is written into the file reference and every comment naming it.
type PbxResource struct {
	Basename          string
	Path              string
	LastKnownFileType string
	FileEncoding      int
	SourceTree        string
	Group             string
}

func NewPbxResource(filePath string, options PbxResourceOptions) *PbxResource {
	resource := PbxResource{}
	resource.Path = filepath.ToSlash(filePath)
	resource.Basename = filepath.Base(filePath)

	if options.LastKnownFileType != "" {
		resource.LastKnownFileType = options.LastKnownFileType
	} else {
		resource.LastKnownFileType = resource.detectType()
	}
	resource.FileEncoding = ENCODING_BY_FILETYPE[unquoted(resource.LastKnownFileType)]

	if options.SourceTree != "" {
		resource.SourceTree = quoted(options.SourceTree)
	} else {
		resource.SourceTree = DEFAULT_SOURCETREE
	}

	if options.Group != "" {
		resource.Group = options.Group
	} else {
		resource.Group = resource.detectGroup()
	}
	return &resource
}

func (r *PbxResource) detectType() string {
	extension := strings.TrimPrefix(filepath.Ext(r.Basename), ".")
	filetype, found := FILETYPE_BY_EXTENSION[strings.ToLower(unquoted(extension))]
	if !found {
		return DEFAULT_FILETYPE
	}
	return filetype
}

func (r *PbxResource) detectGroup() string {
	groupName, ok := GROUP_BY_FILETYPE[unquoted(r.LastKnownFileType)]
	if !ok {
		return DEFAULT_GROUP
	}
	return groupName
}

func (r *PbxResource) fileReferenceComment() string {
	return r.Basename
}

// buildFileComment names the build phase the resource is copied in; an empty
// phase falls back to the resource's own group.
func (r *PbxResource) buildFileComment(phase string) string {
	return longComment(r, phase)
}

func longComment(r *PbxResource, phase string) string {
	if phase == "" {
		phase = r.Group
	}
	return fmt.Sprintf("%s in %s", r.Basename, phase)
}

func (r *PbxResource) fileReferenceObj(fileRef string) inlineObject {
	obj := inlineObject{
		id:      fileRef,
		comment: r.fileReferenceComment(),
	}
	obj.set("isa", "PBXFileReference", "")
	if r.FileEncoding != 0 {
		obj.set("fileEncoding", fmt.Sprint(r.FileEncoding), "")
	}
	obj.set("lastKnownFileType", r.LastKnownFileType, "")
	obj.set("path", quoted(r.Path), "")
	obj.set("sourceTree", r.SourceTree, "")
	return obj
}

func (r *PbxResource) buildFileObj(uuid, fileRef, phase string) inlineObject {
	obj := inlineObject{
		id:      uuid,
		comment: r.buildFileComment(phase),
	}
	obj.set("isa", "PBXBuildFile", "")
	obj.set("fileRef", fileRef, r.fileReferenceComment())
	return obj
}

func (r *PbxResource) groupChild(fileRef string) string {
	return listEntry(fileRef, r.fileReferenceComment())
}

func (r *PbxResource) buildPhaseFile(uuid, phase string) string {
	return listEntry(uuid, r.buildFileComment(phase))
}
