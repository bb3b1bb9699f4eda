package config

import (
	"strings"

	clierrors "github.com/soapywu/pbxpatch/errors"
)

// Validate reports the first setting that would make patching impossible.
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.Project) == "" {
		return clierrors.NewConfigError("project path is empty",
			"set 'project' in .pbxpatch.yml, PBXPATCH_PROJECT or --project")
	}
	if strings.TrimSpace(c.Resource.Name) == "" {
		return clierrors.NewConfigError("resource name is empty",
			"set 'resource.name' in .pbxpatch.yml, PBXPATCH_RESOURCE__NAME or --resource")
	}
	if err := c.Anchors.Validate(); err != nil {
		return clierrors.Wrap(err, clierrors.Configuration,
			"remove the empty keys under 'anchors' to fall back to the Flutter defaults")
	}
	return nil
}
