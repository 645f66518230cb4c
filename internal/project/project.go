// Package project detects lightweight project metadata recorded in dump headers.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

const (
	goModFileName       = "go.mod"
	packageJSONFileName = "package.json"
)

// Metadata describes what could be learned about the project at the dump root.
type Metadata struct {
	GoModulePath string
	GoVersion    string
	NodePackage  string
}

// Detect inspects rootPath for known project manifests. Missing manifests are
// not an error; parse failures are.
func Detect(rootPath string) (Metadata, error) {
	var metadata Metadata

	goModPath := filepath.Join(rootPath, goModFileName)
	goModBytes, readErr := os.ReadFile(goModPath)
	if readErr == nil {
		modFile, parseErr := modfile.Parse(goModFileName, goModBytes, nil)
		if parseErr != nil {
			return Metadata{}, fmt.Errorf("parse %s: %w", goModFileName, parseErr)
		}
		if modFile.Module != nil {
			metadata.GoModulePath = modFile.Module.Mod.Path
		}
		if modFile.Go != nil {
			metadata.GoVersion = modFile.Go.Version
		}
	} else if !os.IsNotExist(readErr) {
		return Metadata{}, fmt.Errorf("read %s: %w", goModFileName, readErr)
	}

	packageJSONPath := filepath.Join(rootPath, packageJSONFileName)
	packageJSONBytes, readErr := os.ReadFile(packageJSONPath)
	if readErr == nil {
		var manifest struct {
			Name string `json:"name"`
		}
		if decodeErr := json.Unmarshal(packageJSONBytes, &manifest); decodeErr != nil {
			return Metadata{}, fmt.Errorf("parse %s: %w", packageJSONFileName, decodeErr)
		}
		metadata.NodePackage = manifest.Name
	} else if !os.IsNotExist(readErr) {
		return Metadata{}, fmt.Errorf("read %s: %w", packageJSONFileName, readErr)
	}

	return metadata, nil
}

// IsEmpty reports whether no manifest information was found.
func (metadata Metadata) IsEmpty() bool {
	return metadata.GoModulePath == "" && metadata.NodePackage == ""
}
