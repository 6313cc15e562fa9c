// Package catalog holds the built-in wizard descriptors.
package catalog

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/commonsos/commons/internal/descriptor"
)

//go:embed descriptors/*.yaml
var files embed.FS

// Default is the wizard used when none is configured.
const Default = "proposal"

// Names returns the built-in wizard names, sorted.
func Names() []string {
	entries, err := files.ReadDir("descriptors")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Load parses the built-in descriptor called name.
func Load(name string) (*descriptor.Descriptor, error) {
	data, err := files.ReadFile(path.Join("descriptors", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown wizard %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return descriptor.Parse(data)
}

// Resolve returns the descriptor at path when set, else the built-in name.
func Resolve(name, descriptorPath string) (*descriptor.Descriptor, error) {
	if descriptorPath != "" {
		return descriptor.Load(descriptorPath)
	}
	if name == "" {
		name = Default
	}
	return Load(name)
}
