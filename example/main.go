package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/soapywu/pbxpatch/pbxproj"
)

func main() {
	projectPath := "project.pbxproj"
	ctx := context.Background()

	out, err := os.OpenFile("new"+projectPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	dumpToFile := func(name string, result pbxproj.Result) {
		file, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()

		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			log.Fatal(err)
		}
	}

	patcher := pbxproj.NewPbxPatcher(projectPath,
		pbxproj.WithAvoidCollisions(true),
		pbxproj.WithDryRun(out),
	)
	result, err := patcher.Check()
	if err != nil {
		log.Fatal(err)
	}
	dumpToFile("CheckResult.json", result)

	result, err = patcher.Patch(ctx)
	if err != nil {
		log.Println(err)
	}
	dumpToFile("PatchResult.json", result)

	// register an extra xcconfig inside the Flutter group instead of Runner
	anchors := pbxproj.DefaultAnchors()
	anchors.Group = pbxproj.ListAnchor{
		Header: "9740EEB11CF90186004384FC /* Flutter */ = {",
		List:   "children",
		Before: "9740EEB21CF90195004384FC /* Debug.xcconfig */,",
	}
	config := pbxproj.NewPbxPatcher("new"+projectPath,
		pbxproj.WithResource(pbxproj.NewPbxResource("Flutter/Custom.xcconfig", pbxproj.PbxResourceOptions{})),
		pbxproj.WithAnchors(anchors),
		pbxproj.WithStrict(true),
	)
	if err := out.Sync(); err != nil {
		log.Fatal(err)
	}
	if _, err := config.Patch(ctx); err != nil {
		log.Println(err)
	}
}
