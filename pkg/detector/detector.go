package detector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Evidence files checked at the source root, in precedence order.
const (
	pythonManifest = "requirements.txt"
	nodeManifest   = "package.json"
)

// nodeEntrypoints are conventional entry-point files that mark a Node app
// even when no package.json exists.
var nodeEntrypoints = []string{"server.js", "index.js"}

// Detect inspects a source directory and returns the runtime profile for it.
// Detection is a pure function of on-disk content: first matching language in
// precedence order (python manifest > node manifest/entrypoint > .NET project
// file > static HTML) wins, and an empty profile is returned when nothing
// matches. All recursive searches are scoped to root.
func Detect(root string) (Profile, error) {
	if fileExists(root, pythonManifest) {
		return Profile{
			Language:         LanguagePython,
			EvidencePath:     filepath.Join(root, pythonManifest),
			DetectedVersion:  VersionNotApplicable,
			ProvisionVersion: PythonVersionDefault,
			DefaultSKU:       LinuxSKUDefault,
		}, nil
	}

	if fileExists(root, nodeManifest) || anyFileExists(root, nodeEntrypoints) {
		return detectNode(root)
	}

	if csproj := findFirst(root, ".csproj"); csproj != "" {
		return detectDotnet(csproj)
	}

	if html := findFirst(root, ".html"); html != "" {
		return Profile{
			Language:         LanguageStatic,
			EvidencePath:     html,
			DetectedVersion:  VersionNotApplicable,
			ProvisionVersion: VersionNotApplicable,
			DefaultSKU:       WindowsSKUDefault,
		}, nil
	}

	return Profile{}, nil
}

// detectNode builds the profile for a Node app. The manifest is optional;
// without one the detected version is not applicable and the default is
// provisioned.
func detectNode(root string) (Profile, error) {
	profile := Profile{
		Language:   LanguageNode,
		DefaultSKU: LinuxSKUDefault,
	}

	manifest := filepath.Join(root, nodeManifest)
	if !fileExists(root, nodeManifest) {
		profile.DetectedVersion = VersionNotApplicable
		profile.ProvisionVersion = NodeVersionDefault
		return profile, nil
	}

	detected, err := parseNodeVersion(manifest)
	if err != nil {
		return Profile{}, err
	}

	profile.EvidencePath = manifest
	profile.DetectedVersion = detected
	profile.ProvisionVersion = nodeVersionToProvision(detected)
	return profile, nil
}

// detectDotnet classifies a .NET project file into the netcore or legacy
// dotnet family and resolves versions for it.
func detectDotnet(csprojPath string) (Profile, error) {
	lang, err := parseDotnetFamily(csprojPath)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{
		Language:     lang,
		EvidencePath: csprojPath,
		DefaultSKU:   WindowsSKUDefault,
	}

	if lang == LanguageNetcore {
		detected, err := parseNetcoreVersion(csprojPath)
		if err != nil {
			return Profile{}, err
		}
		profile.DetectedVersion = detected
		profile.ProvisionVersion = netcoreVersionToProvision(detected)
		return profile, nil
	}

	// The legacy path downgrades every parse failure to the fixed default
	// instead of failing.
	profile.DetectedVersion = parseDotnetVersion(csprojPath)
	profile.ProvisionVersion = dotnetVersionToProvision(profile.DetectedVersion)
	return profile, nil
}

var nonVersionChars = regexp.MustCompile(`[^\d.]+`)

// parseNodeVersion extracts the engines.node constraint from package.json,
// reduced to major.minor. A manifest without the field (or with one that has
// no usable major.minor pair) yields "0.0"; a malformed manifest is an error.
func parseNodeVersion(manifestPath string) (string, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", fmt.Errorf("cannot read '%s': %w", manifestPath, err)
	}

	var manifest struct {
		Engines struct {
			Node string `json:"node"`
		} `json:"engines"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("invalid JSON in '%s': %w", manifestPath, err)
	}

	if manifest.Engines.Node == "" {
		return "0.0", nil
	}

	// Strip range operators like ">=" or "~" from the constraint value.
	numeric := nonVersionChars.ReplaceAllString(manifest.Engines.Node, "")
	parts := strings.Split(numeric, ".")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "0.0", nil
	}
	return parts[0] + "." + parts[1], nil
}

// fileExists checks if a file exists at the given relative path
func fileExists(root, rel string) bool {
	info, err := os.Stat(filepath.Join(root, rel))
	return err == nil && !info.IsDir()
}

// anyFileExists checks whether any of the given relative paths exists
func anyFileExists(root string, rels []string) bool {
	for _, rel := range rels {
		if fileExists(root, rel) {
			return true
		}
	}
	return false
}

// findFirst walks the tree under root and returns the first file carrying the
// extension, in walk order. Returns "" when none is found.
func findFirst(root, ext string) string {
	var match string
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(p), ext) {
			match = p
			return filepath.SkipAll
		}
		return nil
	})
	return match
}
