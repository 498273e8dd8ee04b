package detector

import (
	"encoding/xml"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// xmlNode is a generic element tree used to search project files for target
// framework entries wherever they nest.
type xmlNode struct {
	XMLName xml.Name
	Text    string    `xml:",chardata"`
	Nodes   []xmlNode `xml:",any"`
}

var (
	lettersOnly   = regexp.MustCompile(`[^a-zA-Z\s]+`)
	majorMinor    = regexp.MustCompile(`\d+\.\d+`)
	nonDigitOrDot = regexp.MustCompile(`[^\d.]+`)
)

// parseProjectFile decodes a .csproj into an element tree.
func parseProjectFile(path string) (*xmlNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read '%s': %w", path, err)
	}
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid project file '%s': %w", path, err)
	}
	return &root, nil
}

// elementsNamed collects the text of every element with the given local name,
// in document order.
func (n *xmlNode) elementsNamed(name string) []string {
	var values []string
	if n.XMLName.Local == name {
		values = append(values, n.Text)
	}
	for i := range n.Nodes {
		values = append(values, n.Nodes[i].elementsNamed(name)...)
	}
	return values
}

// parseDotnetFamily reads the TargetFramework identifier from a project file
// and classifies it. When multiple entries exist, only the last one counts.
func parseDotnetFamily(path string) (Language, error) {
	root, err := parseProjectFile(path)
	if err != nil {
		return LanguageUnknown, err
	}

	framework := ""
	for _, value := range root.elementsNamed("TargetFramework") {
		framework = lettersOnly.ReplaceAllString(value, "")
	}
	if strings.Contains(strings.ToLower(framework), "netcore") {
		return LanguageNetcore, nil
	}
	return LanguageDotnet, nil
}

// parseNetcoreVersion extracts the highest major.minor pattern from the last
// TargetFramework entry of a project file. "0.0" when no pattern matches.
func parseNetcoreVersion(path string) (string, error) {
	root, err := parseProjectFile(path)
	if err != nil {
		return "", err
	}

	var versions []string
	for _, value := range root.elementsNamed("TargetFramework") {
		versions = majorMinor.FindAllString(value, -1)
	}
	if len(versions) == 0 {
		versions = []string{"0.0"}
	}

	sort.Slice(versions, func(i, j int) bool {
		return versionValue(versions[i]) > versionValue(versions[j])
	})
	return versions[0], nil
}

// parseDotnetVersion extracts the framework version from a legacy project
// file, reduced to at most three characters ("4.7" from "v4.7.2"). Any parse
// failure falls back to the fixed default rather than surfacing an error.
func parseDotnetVersion(path string) string {
	root, err := parseProjectFile(path)
	if err != nil {
		return DotnetVersionDefault
	}

	entries := root.elementsNamed("TargetFrameworkVersion")
	if len(entries) == 0 {
		return DotnetVersionDefault
	}

	version := nonDigitOrDot.ReplaceAllString(entries[0], "")
	if version == "" {
		return DotnetVersionDefault
	}
	if len(version) > 3 {
		version = version[:3]
	}
	return version
}

// versionValue parses a major.minor string for numeric ordering.
func versionValue(version string) float64 {
	v, err := strconv.ParseFloat(version, 64)
	if err != nil {
		return 0
	}
	return v
}
