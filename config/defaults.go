package config

import (
	"github.com/soapywu/pbxpatch/pbxproj"
)

// GetDefaults returns the built-in values, keyed by koanf path. The anchors
// match the Runner target of a Flutter generated iOS project.
func GetDefaults() map[string]interface{} {
	anchors := pbxproj.DefaultAnchors()
	return map[string]interface{}{
		"project": pbxproj.DEFAULT_PROJECT_PATH,
		"resource": map[string]interface{}{
			"name":        pbxproj.DEFAULT_RESOURCE,
			"file_type":   "",
			"source_tree": "",
			"file":        "",
		},
		"anchors": map[string]interface{}{
			"file_references": map[string]interface{}{
				"begin": anchors.FileReferences.Begin,
				"end":   anchors.FileReferences.End,
			},
			"build_files": map[string]interface{}{
				"begin": anchors.BuildFiles.Begin,
				"end":   anchors.BuildFiles.End,
			},
			"group": map[string]interface{}{
				"header": anchors.Group.Header,
				"list":   anchors.Group.List,
				"before": anchors.Group.Before,
			},
			"build_phase": map[string]interface{}{
				"header": anchors.BuildPhase.Header,
				"list":   anchors.BuildPhase.List,
				"before": anchors.BuildPhase.Before,
				"name":   anchors.BuildPhase.Name,
			},
		},
		"strict":           false,
		"dry_run":          false,
		"avoid_collisions": false,
		"log": map[string]interface{}{
			"dir":   "",
			"debug": false,
			"json":  false,
		},
	}
}
