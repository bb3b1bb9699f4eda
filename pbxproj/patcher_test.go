package pbxproj

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFileRef   = "AAAAAAAAAAAAAAAAAAAAAAAA"
	testBuildFile = "BBBBBBBBBBBBBBBBBBBBBBBB"
)

var testIDs = Identifiers{FileRef: testFileRef, BuildFile: testBuildFile}

const minimalProject = "/* Begin PBXFileReference section */\n" +
	"/* End PBXFileReference section */\n" +
	"/* Begin PBXBuildFile section */\n" +
	"/* End PBXBuildFile section */\n" +
	"97C146F01CF9000F007C117D /* Runner */ = {\n" +
	"children = (\n" +
	"74858FAD1ED2DC5600515810 /* Runner-Bridging-Header.h */,\n" +
	");\n" +
	"};\n" +
	"97C146EC1CF9000F007C117D /* Resources */ = {\n" +
	"files = (\n" +
	"97C146FC1CF9000F007C117D /* Main.storyboard in Resources */,\n" +
	");\n" +
	"};\n"

const (
	wantFileReferenceLine = "\t\tAAAAAAAAAAAAAAAAAAAAAAAA /* GoogleService-Info.plist */ = {isa = PBXFileReference; fileEncoding = 4; lastKnownFileType = text.plist.xml; path = \"GoogleService-Info.plist\"; sourceTree = \"<group>\"; };\n"
	wantBuildFileLine     = "\t\tBBBBBBBBBBBBBBBBBBBBBBBB /* GoogleService-Info.plist in Resources */ = {isa = PBXBuildFile; fileRef = AAAAAAAAAAAAAAAAAAAAAAAA /* GoogleService-Info.plist */; };\n"
	wantGroupChild        = "AAAAAAAAAAAAAAAAAAAAAAAA /* GoogleService-Info.plist */,"
	wantPhaseFile         = "BBBBBBBBBBBBBBBBBBBBBBBB /* GoogleService-Info.plist in Resources */,"
)

func defaultResource() *PbxResource {
	return NewPbxResource(DEFAULT_RESOURCE, PbxResourceOptions{})
}

func readFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "project.pbxproj"))
	require.NoError(t, err)
	return string(data)
}

func copyFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.pbxproj")
	require.NoError(t, os.WriteFile(path, []byte(readFixture(t)), 0600))
	return path
}

func TestApply_MinimalProject(t *testing.T) {
	t.Parallel()

	got, result := Apply(minimalProject, defaultResource(), testIDs, DefaultAnchors())

	want := "/* Begin PBXFileReference section */\n" +
		wantFileReferenceLine +
		"/* End PBXFileReference section */\n" +
		"/* Begin PBXBuildFile section */\n" +
		wantBuildFileLine +
		"/* End PBXBuildFile section */\n" +
		"97C146F01CF9000F007C117D /* Runner */ = {\n" +
		"children = (\n" +
		wantGroupChild + "\n" +
		"74858FAD1ED2DC5600515810 /* Runner-Bridging-Header.h */,\n" +
		");\n" +
		"};\n" +
		"97C146EC1CF9000F007C117D /* Resources */ = {\n" +
		"files = (\n" +
		wantPhaseFile + "\n" +
		"97C146FC1CF9000F007C117D /* Main.storyboard in Resources */,\n" +
		");\n" +
		"};\n"

	assert.Equal(t, want, got)
	assert.True(t, result.Complete())
	assert.Equal(t, Steps, result.Applied)
	assert.Equal(t, testIDs, result.Identifiers)
}

func TestApply_FlutterProject(t *testing.T) {
	t.Parallel()

	original := readFixture(t)
	got, result := Apply(original, defaultResource(), testIDs, DefaultAnchors())
	require.True(t, result.Complete())

	assert.Equal(t, 1, strings.Count(got, wantFileReferenceLine))
	assert.Equal(t, 1, strings.Count(got, wantBuildFileLine))
	assert.Equal(t, 3, strings.Count(got, testFileRef), "file reference, build file and group child")
	assert.Equal(t, 2, strings.Count(got, testBuildFile), "build file and build phase entry")

	assert.Contains(t, got, wantFileReferenceLine+"/* End PBXFileReference section */")
	assert.Contains(t, got, wantBuildFileLine+"/* End PBXBuildFile section */")
	assert.Contains(t, got, "\t\t\t\t"+wantGroupChild+"\n\t\t\t\t74858FAD1ED2DC5600515810 /* Runner-Bridging-Header.h */,")
	assert.Contains(t, got, "\t\t\t\t"+wantPhaseFile+"\n\t\t\t\t97C146FC1CF9000F007C117D /* Main.storyboard in Resources */,")

	// everything else is left byte for byte
	stripped := strings.Replace(got, wantFileReferenceLine, "", 1)
	stripped = strings.Replace(stripped, wantBuildFileLine, "", 1)
	stripped = strings.Replace(stripped, wantGroupChild+"\n\t\t\t\t", "", 1)
	stripped = strings.Replace(stripped, wantPhaseFile+"\n\t\t\t\t", "", 1)
	assert.Equal(t, original, stripped)
}

func TestApply_MissingAnchor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		remove  string
		skipped Step
	}{
		"no file reference section": {
			remove:  "/* End PBXFileReference section */\n",
			skipped: StepFileReference,
		},
		"no build file section": {
			remove:  "/* Begin PBXBuildFile section */\n",
			skipped: StepBuildFile,
		},
		"no group entry": {
			remove:  "74858FAD1ED2DC5600515810 /* Runner-Bridging-Header.h */,\n",
			skipped: StepGroupChild,
		},
		"no build phase": {
			remove:  "97C146EC1CF9000F007C117D /* Resources */ = {\n",
			skipped: StepBuildPhaseFile,
		},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := strings.Replace(minimalProject, tt.remove, "", 1)
			got, result := Apply(doc, defaultResource(), testIDs, DefaultAnchors())

			assert.False(t, result.Complete())
			assert.Equal(t, []Step{tt.skipped}, result.Skipped)
			assert.Len(t, result.Applied, len(Steps)-1)
			for _, step := range result.Applied {
				assert.NotEqual(t, tt.skipped, step)
			}
			assert.Greater(t, len(got), len(doc))
		})
	}
}

func TestApply_NoAnchorsLeavesDocumentUnchanged(t *testing.T) {
	t.Parallel()

	doc := "// !$*UTF8*$!\n{\n\tobjects = {\n\t};\n}\n"
	got, result := Apply(doc, defaultResource(), testIDs, DefaultAnchors())

	assert.Equal(t, doc, got)
	assert.Empty(t, result.Applied)
	assert.Equal(t, Steps, result.Skipped)
}

func TestApply_EntryOutsideListIsNotUsed(t *testing.T) {
	t.Parallel()

	// the bridging header belongs to a later group, not to Runner
	doc := "97C146F01CF9000F007C117D /* Runner */ = {\n" +
		"\tchildren = (\n" +
		"\t\t97C147021CF9000F007C117D /* Info.plist */,\n" +
		"\t);\n" +
		"};\n" +
		"99999999999999999999999A /* Other */ = {\n" +
		"\tchildren = (\n" +
		"\t\t74858FAD1ED2DC5600515810 /* Runner-Bridging-Header.h */,\n" +
		"\t);\n" +
		"};\n"

	got, result := Apply(doc, defaultResource(), testIDs, DefaultAnchors())

	assert.Equal(t, doc, got)
	assert.False(t, result.Has(StepGroupChild))
}

func TestApply_TwiceAddsTwoSets(t *testing.T) {
	t.Parallel()

	second := Identifiers{FileRef: "CCCCCCCCCCCCCCCCCCCCCCCC", BuildFile: "DDDDDDDDDDDDDDDDDDDDDDDD"}
	once, _ := Apply(readFixture(t), defaultResource(), testIDs, DefaultAnchors())
	twice, result := Apply(once, defaultResource(), second, DefaultAnchors())

	require.True(t, result.Complete())
	assert.Equal(t, 2, strings.Count(twice, "/* GoogleService-Info.plist */ = {isa = PBXFileReference;"))
	assert.Equal(t, 2, strings.Count(twice, "/* GoogleService-Info.plist in Resources */ = {isa = PBXBuildFile;"))
	assert.Equal(t, 3, strings.Count(twice, second.FileRef))
	assert.Equal(t, 3, strings.Count(twice, testFileRef))
}

func TestApply_CustomAnchors(t *testing.T) {
	t.Parallel()

	anchors := DefaultAnchors()
	anchors.Group = ListAnchor{
		Header: "9740EEB11CF90186004384FC /* Flutter */ = {",
		List:   "children",
		Before: "9740EEB21CF90195004384FC /* Debug.xcconfig */,",
	}
	resource := NewPbxResource("Flutter/Custom.xcconfig", PbxResourceOptions{})

	got, result := Apply(readFixture(t), resource, testIDs, anchors)

	require.True(t, result.Complete())
	assert.Contains(t, got, "\t\t\t\t3B3967151E833CAA004F5970 /* AppFrameworkInfo.plist */,\n"+
		"\t\t\t\tAAAAAAAAAAAAAAAAAAAAAAAA /* Custom.xcconfig */,\n"+
		"\t\t\t\t9740EEB21CF90195004384FC /* Debug.xcconfig */,")
	assert.Contains(t, got, `path = "Flutter/Custom.xcconfig"`)
	assert.Contains(t, got, "lastKnownFileType = text.xcconfig;")
}

func TestPbxPatcher_Patch(t *testing.T) {
	t.Parallel()

	path := copyFixture(t)
	patcher := NewPbxPatcher(path)

	result, err := patcher.Patch(context.Background())
	require.NoError(t, err)
	require.True(t, result.Complete())

	assert.True(t, IsIdentifier(result.FileRef))
	assert.True(t, IsIdentifier(result.BuildFile))
	assert.NotEqual(t, result.FileRef, result.BuildFile)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)
	assert.Equal(t, 3, strings.Count(contents, result.FileRef))
	assert.Equal(t, 2, strings.Count(contents, result.BuildFile))
	assert.Contains(t, contents, result.BuildFile+" /* GoogleService-Info.plist in Resources */ = {isa = PBXBuildFile; fileRef = "+result.FileRef+" /* GoogleService-Info.plist */; };")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())
}

func TestPbxPatcher_PatchMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ios", "Runner.xcodeproj", "project.pbxproj")
	_, err := NewPbxPatcher(path).Patch(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "nothing must be written")
}

func TestPbxPatcher_Strict(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "project.pbxproj")
	doc := strings.Replace(minimalProject, "/* Begin PBXBuildFile section */\n", "", 1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	result, err := NewPbxPatcher(path, WithStrict(true)).Patch(context.Background())

	require.ErrorIs(t, err, ErrAnchorNotFound)
	assert.Contains(t, err.Error(), "PBXBuildFile")
	assert.Equal(t, []Step{StepBuildFile}, result.Skipped)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, string(data))
}

func TestPbxPatcher_NotStrictWritesPartialResult(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "project.pbxproj")
	doc := strings.Replace(minimalProject, "/* Begin PBXBuildFile section */\n", "", 1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	result, err := NewPbxPatcher(path).Patch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []Step{StepBuildFile}, result.Skipped)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), result.FileRef+" /* GoogleService-Info.plist */ = {isa = PBXFileReference;")
}

func TestPbxPatcher_DryRun(t *testing.T) {
	t.Parallel()

	path := copyFixture(t)
	var out bytes.Buffer

	result, err := NewPbxPatcher(path, WithDryRun(&out)).Patch(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), result.FileRef)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, readFixture(t), string(data))
}

func TestPbxPatcher_ResourceFile(t *testing.T) {
	t.Parallel()

	t.Run("valid plist", func(t *testing.T) {
		t.Parallel()
		path := copyFixture(t)
		_, err := NewPbxPatcher(path,
			WithResourceFile(filepath.Join("testdata", "GoogleService-Info.plist")),
		).Patch(context.Background())
		require.NoError(t, err)
	})

	t.Run("not a plist", func(t *testing.T) {
		t.Parallel()
		path := copyFixture(t)
		bogus := filepath.Join(t.TempDir(), "GoogleService-Info.plist")
		require.NoError(t, os.WriteFile(bogus, []byte("<plist><dict><key>"), 0644))

		_, err := NewPbxPatcher(path, WithResourceFile(bogus)).Patch(context.Background())

		require.ErrorIs(t, err, ErrInvalidResource)
		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, readFixture(t), string(data))
	})
}

func TestPbxPatcher_CancelledContext(t *testing.T) {
	t.Parallel()

	path := copyFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPbxPatcher(path).Patch(ctx)

	require.ErrorIs(t, err, context.Canceled)
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, readFixture(t), string(data))
}

func TestPbxPatcher_AvoidCollisions(t *testing.T) {
	t.Parallel()

	path := copyFixture(t)
	generator := NewIdentifierGenerator()

	result, err := NewPbxPatcher(path,
		WithAvoidCollisions(true),
		WithIdentifierGenerator(generator),
	).Patch(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, readFixture(t), result.FileRef)
	assert.NotContains(t, readFixture(t), result.BuildFile)
	_, reserved := generator.uuids["97C146F01CF9000F007C117D"]
	assert.True(t, reserved)
}

func TestPbxPatcher_Check(t *testing.T) {
	t.Parallel()

	path := copyFixture(t)
	result, err := NewPbxPatcher(path).Check()

	require.NoError(t, err)
	assert.True(t, result.Complete())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, readFixture(t), string(data))
}

func TestStep_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PBXFileReference", StepFileReference.String())
	assert.Equal(t, "PBXBuildFile", StepBuildFile.String())
	assert.Equal(t, "PBXGroup", StepGroupChild.String())
	assert.Equal(t, "PBXResourcesBuildPhase", StepBuildPhaseFile.String())
	assert.Equal(t, "Step(9)", Step(9).String())
}

func TestResult_JSON(t *testing.T) {
	t.Parallel()

	result := Result{
		Identifiers: testIDs,
		Applied:     []Step{StepFileReference, StepBuildFile, StepGroupChild},
		Skipped:     []Step{StepBuildPhaseFile},
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"FileRef": "AAAAAAAAAAAAAAAAAAAAAAAA",
		"BuildFile": "BBBBBBBBBBBBBBBBBBBBBBBB",
		"Applied": ["PBXFileReference", "PBXBuildFile", "PBXGroup"],
		"Skipped": ["PBXResourcesBuildPhase"]
	}`, string(data))
}
