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
	"io"
	"io/fs"
	"os"
	"strings"
)

const (
	INDENT = "\t"

	// section entries sit two levels deep inside `objects = {`
	SECTION_INDENT_LEVEL = 2
	DEFAULT_FILE_MODE    = 0644
)

func indent(x int) string {
	if x <= 0 {
		return ""
	} else {
		return INDENT + indent(x-1)
	}
}

type inlineField struct {
	key     string
	value   string
	comment string
}

// inlineObject renders the one-line object form Xcode uses for
// PBXBuildFile and PBXFileReference entries.
type inlineObject struct {
	id      string
	comment string
	fields  []inlineField
}

func (o *inlineObject) set(key, value, comment string) {
	o.fields = append(o.fields, inlineField{key: key, value: value, comment: comment})
}

func (o inlineObject) String() string {
	output := []string{}
	if o.comment != "" {
		output = append(output, fmt.Sprintf("%s /* %s */ = {", o.id, o.comment))
	} else {
		output = append(output, fmt.Sprintf("%s = {", o.id))
	}
	for _, field := range o.fields {
		if field.comment != "" {
			output = append(output, fmt.Sprintf("%s = %s /* %s */; ", field.key, field.value, field.comment))
		} else {
			output = append(output, fmt.Sprintf("%s = %s; ", field.key, field.value))
		}
	}
	output = append(output, "};")
	return strings.TrimSpace(strings.Join(output, ""))
}

// sectionLine is a complete section entry, indented and newline terminated.
func sectionLine(obj inlineObject) string {
	return indent(SECTION_INDENT_LEVEL) + obj.String() + "\n"
}

func listEntry(value, comment string) string {
	return fmt.Sprintf("%s /* %s */,", value, comment)
}

type PbxWriterOption func(w *PbxWriter)

// WithOutput sends the document to out instead of the project file.
func WithOutput(out io.Writer) PbxWriterOption {
	return func(w *PbxWriter) {
		w.output = out
	}
}

func WithFileMode(mode fs.FileMode) PbxWriterOption {
	return func(w *PbxWriter) {
		w.mode = mode
	}
}

type PbxWriter struct {
	output io.Writer
	mode   fs.FileMode
}

func NewPbxWriter(options ...PbxWriterOption) *PbxWriter {
	w := &PbxWriter{}
	for _, option := range options {
		option(w)
	}
	return w
}

// Write replaces the whole file at filePath with contents. The file keeps its
// current permissions when it already exists.
func (w *PbxWriter) Write(filePath string, contents string) error {
	if w.output != nil {
		_, err := io.WriteString(w.output, contents)
		return err
	}

	mode := w.mode
	if mode == 0 {
		mode = DEFAULT_FILE_MODE
		if info, err := os.Stat(filePath); err == nil {
			mode = info.Mode().Perm()
		}
	}
	return os.WriteFile(filePath, []byte(contents), mode)
}
