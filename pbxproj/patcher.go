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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const DEFAULT_PROJECT_PATH = "ios/Runner.xcodeproj/project.pbxproj"

var ErrAnchorNotFound = errors.New("anchor not found")

type Step int

const (
	StepFileReference Step = iota
	StepBuildFile
	StepGroupChild
	StepBuildPhaseFile
)

var Steps = []Step{StepFileReference, StepBuildFile, StepGroupChild, StepBuildPhaseFile}

func (s Step) String() string {
	switch s {
	case StepFileReference:
		return "PBXFileReference"
	case StepBuildFile:
		return "PBXBuildFile"
	case StepGroupChild:
		return "PBXGroup"
	case StepBuildPhaseFile:
		return "PBXResourcesBuildPhase"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Identifiers struct {
	FileRef   string
	BuildFile string
}

type Result struct {
	Identifiers
	Applied []Step
	Skipped []Step
}

func (r Result) Complete() bool {
	return len(r.Skipped) == 0
}

func (r Result) Has(step Step) bool {
	for _, s := range r.Applied {
		if s == step {
			return true
		}
	}
	return false
}

func (r Result) skippedNames() string {
	names := make([]string, len(r.Skipped))
	for i, s := range r.Skipped {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

func Load(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Apply registers resource into the four lists located by anchors. Each step
// works on the output of the previous one; a step whose anchors are missing
// leaves the document untouched and is reported in Result.Skipped.
func Apply(contents string, resource *PbxResource, ids Identifiers, anchors Anchors) (string, Result) {
	result := Result{Identifiers: ids}
	phase := anchors.BuildPhase.phaseName()

	for _, step := range Steps {
		var ok bool
		switch step {
		case StepFileReference:
			contents, ok = insertInSection(contents, anchors.FileReferences, sectionLine(resource.fileReferenceObj(ids.FileRef)))
		case StepBuildFile:
			contents, ok = insertInSection(contents, anchors.BuildFiles, sectionLine(resource.buildFileObj(ids.BuildFile, ids.FileRef, phase)))
		case StepGroupChild:
			contents, ok = insertInList(contents, anchors.Group, resource.groupChild(ids.FileRef))
		case StepBuildPhaseFile:
			contents, ok = insertInList(contents, anchors.BuildPhase, resource.buildPhaseFile(ids.BuildFile, phase))
		}
		if ok {
			result.Applied = append(result.Applied, step)
		} else {
			result.Skipped = append(result.Skipped, step)
		}
	}
	return contents, result
}

func insertInSection(contents string, anchor SectionAnchor, line string) (string, bool) {
	loc := anchor.pattern().FindStringSubmatchIndex(contents)
	if loc == nil {
		return contents, false
	}
	end := loc[2]
	return contents[:end] + line + contents[end:], true
}

func insertInList(contents string, anchor ListAnchor, entry string) (string, bool) {
	loc := anchor.pattern().FindStringSubmatchIndex(contents)
	if loc == nil {
		return contents, false
	}
	idx := strings.Index(contents[loc[2]:loc[3]], anchor.Before)
	if idx < 0 {
		return contents, false
	}
	pos := loc[2] + idx

	// keep the new entry on its own line, indented like the one it precedes
	lineStart := strings.LastIndex(contents[:pos], "\n") + 1
	leading := contents[lineStart:pos]
	separator := " "
	if strings.TrimLeft(leading, " \t") == "" {
		separator = "\n" + leading
	}
	return contents[:pos] + entry + separator + contents[pos:], true
}

type PbxPatcherOption func(p *PbxPatcher)

func WithAnchors(anchors Anchors) PbxPatcherOption {
	return func(p *PbxPatcher) {
		p.anchors = anchors
	}
}

func WithResource(resource *PbxResource) PbxPatcherOption {
	return func(p *PbxPatcher) {
		p.resource = resource
	}
}

// WithResourceFile makes Patch refuse to register a resource whose file on
// disk is not a property list.
func WithResourceFile(filePath string) PbxPatcherOption {
	return func(p *PbxPatcher) {
		p.resourceFile = filePath
	}
}

func WithStrict(strict bool) PbxPatcherOption {
	return func(p *PbxPatcher) {
		p.strict = strict
	}
}

func WithAvoidCollisions(avoid bool) PbxPatcherOption {
	return func(p *PbxPatcher) {
		p.avoidCollisions = avoid
	}
}

// WithDryRun writes the patched document to out and leaves the project file
// alone.
func WithDryRun(out io.Writer) PbxPatcherOption {
	return func(p *PbxPatcher) {
		p.writer = NewPbxWriter(WithOutput(out))
	}
}

func WithIdentifierGenerator(generator *IdentifierGenerator) PbxPatcherOption {
	return func(p *PbxPatcher) {
		p.generator = generator
	}
}

func WithLogger(logger *slog.Logger) PbxPatcherOption {
	return func(p *PbxPatcher) {
		p.logger = logger
	}
}

type PbxPatcher struct {
	filePath        string
	anchors         Anchors
	resource        *PbxResource
	resourceFile    string
	strict          bool
	avoidCollisions bool
	writer          *PbxWriter
	generator       *IdentifierGenerator
	logger          *slog.Logger
}

func NewPbxPatcher(filePath string, options ...PbxPatcherOption) *PbxPatcher {
	p := &PbxPatcher{
		filePath:  filePath,
		anchors:   DefaultAnchors(),
		resource:  NewPbxResource(DEFAULT_RESOURCE, PbxResourceOptions{}),
		writer:    NewPbxWriter(),
		generator: NewIdentifierGenerator(),
		logger:    slog.Default(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *PbxPatcher) FilePath() string {
	return p.filePath
}

func (p *PbxPatcher) Resource() *PbxResource {
	return p.resource
}

// Patch loads the project, inserts the resource and writes the whole file
// back. Nothing is written when loading fails, the resource file is invalid,
// ctx is done, or strict mode finds a missing anchor.
func (p *PbxPatcher) Patch(ctx context.Context) (Result, error) {
	if p.resourceFile != "" {
		info, err := ReadServiceInfo(p.resourceFile)
		if err != nil {
			return Result{}, err
		}
		p.logger.Debug("resource file checked",
			"path", p.resourceFile, "format", info.Format, "bundle_id", info.BundleID, "project_id", info.ProjectID)
	}

	contents, result, err := p.apply()
	if err != nil {
		return result, err
	}

	if p.strict && !result.Complete() {
		return result, fmt.Errorf("%w in %s: %s", ErrAnchorNotFound, p.filePath, result.skippedNames())
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if err := p.writer.Write(p.filePath, contents); err != nil {
		return result, err
	}
	p.logger.Info("project patched",
		"path", p.filePath, "resource", p.resource.Basename, "applied", len(result.Applied), "skipped", len(result.Skipped))
	return result, nil
}

// Check runs every step against the project in memory and never writes.
func (p *PbxPatcher) Check() (Result, error) {
	_, result, err := p.apply()
	return result, err
}

func (p *PbxPatcher) apply() (string, Result, error) {
	contents, err := Load(p.filePath)
	if err != nil {
		return "", Result{}, err
	}

	if p.avoidCollisions {
		n := p.generator.ReserveFrom(contents)
		p.logger.Debug("reserved existing identifiers", "count", n)
	}
	ids := Identifiers{
		FileRef:   p.generator.Generate(),
		BuildFile: p.generator.Generate(),
	}

	contents, result := Apply(contents, p.resource, ids, p.anchors)
	for _, step := range result.Applied {
		p.logger.Debug("inserted entry", "step", step.String())
	}
	for _, step := range result.Skipped {
		p.logger.Warn("anchor not found, entry skipped", "step", step.String(), "path", p.filePath)
	}
	return contents, result, nil
}
