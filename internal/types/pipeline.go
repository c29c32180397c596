//nolint:revive // types is a standard Go package name pattern
package types

// PipelineResult is the outcome of one resume-generation run. The generated
// LaTeX source is always populated once rendering succeeds, even when the
// compile step produced no PDF, so callers retain a usable fallback.
type PipelineResult struct {
	Success           bool           `json:"success"`
	DocumentSource    string         `json:"document_source"`
	ArtifactBase64    string         `json:"artifact_base64,omitempty"`
	ArtifactAvailable bool           `json:"artifact_available"`
	Reason            string         `json:"reason,omitempty"`
	Metadata          ResumeMetadata `json:"metadata"`
}

// ResumeMetadata counts the entries that were actually rendered.
type ResumeMetadata struct {
	ExperienceCount     int `json:"experience_count"`
	EducationCount      int `json:"education_count"`
	SkillsCount         int `json:"skills_count"`
	LanguagesCount      int `json:"languages_count"`
	CertificationsCount int `json:"certifications_count"`
}

// MetadataFor derives rendering metadata from a canonical resume.
func MetadataFor(resume CanonicalResume) ResumeMetadata {
	return ResumeMetadata{
		ExperienceCount:     len(resume.Experience),
		EducationCount:      len(resume.Education),
		SkillsCount:         len(resume.Skills),
		LanguagesCount:      len(resume.Languages),
		CertificationsCount: len(resume.Certifications),
	}
}
