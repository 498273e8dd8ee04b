package detector

// Language identifies the runtime family inferred from a source tree.
type Language string

const (
	LanguageUnknown Language = ""
	LanguagePython  Language = "python"
	LanguageNode    Language = "node"
	LanguageNetcore Language = "netcore"
	LanguageDotnet  Language = "dotnet"
	LanguageStatic  Language = "static"
)

// VersionNotApplicable marks a version slot that has no meaning for the
// detected language (python and static apps carry no manifest version).
const VersionNotApplicable = "-"

// Profile represents the result of runtime detection for a source directory
type Profile struct {
	Language         Language `json:"language"`
	EvidencePath     string   `json:"evidence_path,omitempty"`
	DetectedVersion  string   `json:"detected_version,omitempty"`
	ProvisionVersion string   `json:"provision_version,omitempty"`
	DefaultSKU       string   `json:"default_sku,omitempty"`
}

// Detected reports whether any language evidence was found.
func (p Profile) Detected() bool {
	return p.Language != LanguageUnknown
}
