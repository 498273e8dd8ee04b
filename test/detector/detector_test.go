package detector_test

import (
	"os"
	"path/filepath"
	"testing"

	"azup/pkg/detector"
)

// Test helper to create temporary source directories
func createSourceDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tmpDir, path)
		dir := filepath.Dir(fullPath)

		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}

		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", fullPath, err)
		}
	}

	return tmpDir
}

func TestPythonDetection(t *testing.T) {
	root := createSourceDir(t, map[string]string{
		"requirements.txt": "flask==1.0.2\n",
		"app.py":           "print('hi')",
	})

	profile, err := detector.Detect(root)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if profile.Language != detector.LanguagePython {
		t.Errorf("Expected language python, got %q", profile.Language)
	}
	if profile.EvidencePath != filepath.Join(root, "requirements.txt") {
		t.Errorf("Unexpected evidence path %q", profile.EvidencePath)
	}
	if profile.DetectedVersion != detector.VersionNotApplicable {
		t.Errorf("Expected detected version %q, got %q", detector.VersionNotApplicable, profile.DetectedVersion)
	}
	if profile.ProvisionVersion != detector.PythonVersionDefault {
		t.Errorf("Expected provision version %q, got %q", detector.PythonVersionDefault, profile.ProvisionVersion)
	}
	if profile.DefaultSKU != detector.LinuxSKUDefault {
		t.Errorf("Expected default SKU %q, got %q", detector.LinuxSKUDefault, profile.DefaultSKU)
	}
}

func TestPythonPrecedenceOverNode(t *testing.T) {
	// Both manifests present: python wins.
	root := createSourceDir(t, map[string]string{
		"requirements.txt": "django\n",
		"package.json":     `{"name": "mixed"}`,
	})

	profile, err := detector.Detect(root)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if profile.Language != detector.LanguagePython {
		t.Errorf("Expected python to win precedence, got %q", profile.Language)
	}
}

func TestNodeDetection(t *testing.T) {
	tests := []struct {
		name             string
		files            map[string]string
		expectedDetected string
		expectedVersion  string
		expectedEvidence bool
	}{
		{
			name: "engines.node with range operator",
			files: map[string]string{
				"package.json": `{"name": "app", "engines": {"node": ">=10.6.0"}}`,
			},
			expectedDetected: "10.6",
			expectedVersion:  "10.14",
			expectedEvidence: true,
		},
		{
			name: "engines.node tilde constraint",
			files: map[string]string{
				"package.json": `{"engines": {"node": "~8.11.2"}}`,
			},
			expectedDetected: "8.11",
			expectedVersion:  "8.11",
			expectedEvidence: true,
		},
		{
			name: "no engines field",
			files: map[string]string{
				"package.json": `{"name": "app"}`,
			},
			expectedDetected: "0.0",
			expectedVersion:  detector.NodeVersionDefault,
			expectedEvidence: true,
		},
		{
			name: "engines.node without minor version",
			files: map[string]string{
				"package.json": `{"engines": {"node": ">=10"}}`,
			},
			expectedDetected: "0.0",
			expectedVersion:  detector.NodeVersionDefault,
			expectedEvidence: true,
		},
		{
			name: "entrypoint only, no manifest",
			files: map[string]string{
				"server.js": "require('http')",
			},
			expectedDetected: detector.VersionNotApplicable,
			expectedVersion:  detector.NodeVersionDefault,
			expectedEvidence: false,
		},
		{
			name: "index.js entrypoint",
			files: map[string]string{
				"index.js": "console.log('hi')",
			},
			expectedDetected: detector.VersionNotApplicable,
			expectedVersion:  detector.NodeVersionDefault,
			expectedEvidence: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := createSourceDir(t, tt.files)

			profile, err := detector.Detect(root)
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}

			if profile.Language != detector.LanguageNode {
				t.Fatalf("Expected language node, got %q", profile.Language)
			}
			if profile.DetectedVersion != tt.expectedDetected {
				t.Errorf("Expected detected version %q, got %q", tt.expectedDetected, profile.DetectedVersion)
			}
			if profile.ProvisionVersion != tt.expectedVersion {
				t.Errorf("Expected provision version %q, got %q", tt.expectedVersion, profile.ProvisionVersion)
			}
			if tt.expectedEvidence && profile.EvidencePath == "" {
				t.Error("Expected evidence path to be set")
			}
			if !tt.expectedEvidence && profile.EvidencePath != "" {
				t.Errorf("Expected no evidence path, got %q", profile.EvidencePath)
			}
		})
	}
}

func TestNodeMalformedManifestFails(t *testing.T) {
	root := createSourceDir(t, map[string]string{
		"package.json": `{"engines": {`,
	})

	if _, err := detector.Detect(root); err == nil {
		t.Fatal("Expected malformed package.json to fail detection")
	}
}

func TestNetcoreDetection(t *testing.T) {
	root := createSourceDir(t, map[string]string{
		"web/app.csproj": `<Project Sdk="Microsoft.NET.Sdk.Web">
  <PropertyGroup>
    <TargetFramework>netcoreapp2.1</TargetFramework>
  </PropertyGroup>
</Project>`,
	})

	profile, err := detector.Detect(root)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if profile.Language != detector.LanguageNetcore {
		t.Fatalf("Expected language netcore, got %q", profile.Language)
	}
	if profile.DetectedVersion != "2.1" {
		t.Errorf("Expected detected version 2.1, got %q", profile.DetectedVersion)
	}
	if profile.ProvisionVersion != "2.1" {
		t.Errorf("Expected provision version 2.1, got %q", profile.ProvisionVersion)
	}
	if profile.DefaultSKU != detector.WindowsSKUDefault {
		t.Errorf("Expected default SKU %q, got %q", detector.WindowsSKUDefault, profile.DefaultSKU)
	}
}

func TestNetcoreLastTargetFrameworkWins(t *testing.T) {
	// Two entries: only the last one encountered counts, no union.
	root := createSourceDir(t, map[string]string{
		"app.csproj": `<Project>
  <PropertyGroup>
    <TargetFramework>netcoreapp3.1</TargetFramework>
  </PropertyGroup>
  <PropertyGroup>
    <TargetFramework>netcoreapp2.0</TargetFramework>
  </PropertyGroup>
</Project>`,
	})

	profile, err := detector.Detect(root)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if profile.DetectedVersion != "2.0" {
		t.Errorf("Expected last entry's version 2.0, got %q", profile.DetectedVersion)
	}
	if profile.ProvisionVersion != detector.NetcoreVersionDefault {
		t.Errorf("Expected default provision for unsupported 2.0, got %q", profile.ProvisionVersion)
	}
}

func TestNetcoreVersionlessLastEntry(t *testing.T) {
	// A versioned entry followed by a versionless one: the last entry still
	// wins, leaving no detected version.
	root := createSourceDir(t, map[string]string{
		"app.csproj": `<Project>
  <PropertyGroup>
    <TargetFramework>netcoreapp2.1</TargetFramework>
  </PropertyGroup>
  <PropertyGroup>
    <TargetFramework>netcoreapp</TargetFramework>
  </PropertyGroup>
</Project>`,
	})

	profile, err := detector.Detect(root)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if profile.Language != detector.LanguageNetcore {
		t.Fatalf("Expected language netcore, got %q", profile.Language)
	}
	if profile.DetectedVersion != "0.0" {
		t.Errorf("Expected detected version 0.0, got %q", profile.DetectedVersion)
	}
	if profile.ProvisionVersion != detector.NetcoreVersionDefault {
		t.Errorf("Expected default provision, got %q", profile.ProvisionVersion)
	}
}

func TestNetcoreMalformedProjectFails(t *testing.T) {
	root := createSourceDir(t, map[string]string{
		"app.csproj": `<Project><TargetFramework>netcoreapp2.1`,
	})

	if _, err := detector.Detect(root); err == nil {
		t.Fatal("Expected malformed project file to fail detection")
	}
}

func TestLegacyDotnetDetection(t *testing.T) {
	root := createSourceDir(t, map[string]string{
		"app.csproj": `<Project>
  <PropertyGroup>
    <TargetFrameworkVersion>v4.7.2</TargetFrameworkVersion>
  </PropertyGroup>
</Project>`,
	})

	profile, err := detector.Detect(root)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if profile.Language != detector.LanguageDotnet {
		t.Fatalf("Expected language dotnet, got %q", profile.Language)
	}
	if profile.DetectedVersion != "4.7" {
		t.Errorf("Expected detected version 4.7, got %q", profile.DetectedVersion)
	}
	if profile.ProvisionVersion != "4.7" {
		t.Errorf("Expected provision version 4.7, got %q", profile.ProvisionVersion)
	}
}

func TestLegacyDotnetParseFailureDowngrades(t *testing.T) {
	// Missing TargetFrameworkVersion downgrades to the default instead of
	// failing.
	root := createSourceDir(t, map[string]string{
		"app.csproj": `<Project>
  <PropertyGroup>
    <OutputType>Exe</OutputType>
  </PropertyGroup>
</Project>`,
	})

	profile, err := detector.Detect(root)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if profile.Language != detector.LanguageDotnet {
		t.Fatalf("Expected language dotnet, got %q", profile.Language)
	}
	if profile.DetectedVersion != detector.DotnetVersionDefault {
		t.Errorf("Expected default detected version %q, got %q", detector.DotnetVersionDefault, profile.DetectedVersion)
	}
}

func TestStaticDetection(t *testing.T) {
	root := createSourceDir(t, map[string]string{
		"site/index.html": "<html></html>",
		"site/style.css":  "body {}",
	})

	profile, err := detector.Detect(root)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if profile.Language != detector.LanguageStatic {
		t.Fatalf("Expected language static, got %q", profile.Language)
	}
	if profile.DetectedVersion != detector.VersionNotApplicable {
		t.Errorf("Expected detected version %q, got %q", detector.VersionNotApplicable, profile.DetectedVersion)
	}
	if profile.ProvisionVersion != detector.VersionNotApplicable {
		t.Errorf("Expected provision version %q, got %q", detector.VersionNotApplicable, profile.ProvisionVersion)
	}
}

func TestNoEvidenceReturnsEmptyProfile(t *testing.T) {
	root := createSourceDir(t, map[string]string{
		"README.md": "# nothing to see",
	})

	profile, err := detector.Detect(root)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if profile.Detected() {
		t.Errorf("Expected empty profile, got language %q", profile.Language)
	}
}

func TestDetectionScopedToSourceDir(t *testing.T) {
	// Evidence in a sibling directory must not leak into detection.
	base := t.TempDir()
	src := filepath.Join(base, "src")
	sibling := filepath.Join(base, "sibling")
	for _, dir := range []string{src, sibling} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(sibling, "index.html"), []byte("<html/>"), 0644); err != nil {
		t.Fatalf("Failed to write sibling file: %v", err)
	}

	profile, err := detector.Detect(src)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if profile.Detected() {
		t.Errorf("Expected no detection for empty source dir, got %q", profile.Language)
	}
}
