package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spboyer/ipsbench/internal/projectconfig"
)

// loadProject reads .ipsbench.yaml starting from the working directory.
func loadProject() (*projectconfig.ProjectConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return projectconfig.Load(wd)
}

// projectFiles lists the files in dir whose names end with one of suffixes,
// sorted by name. A relative dir resolves against the project root.
func projectFiles(project *projectconfig.ProjectConfig, dir string, suffixes ...string) ([]string, error) {
	dir = project.Resolve(dir)
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var files []string
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		if slices.ContainsFunc(suffixes, func(s string) bool { return strings.HasSuffix(de.Name(), s) }) {
			files = append(files, filepath.Join(dir, de.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files in %s", strings.Join(suffixes, " or "), dir)
	}
	return files, nil
}
