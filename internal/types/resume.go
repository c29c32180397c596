// Package types provides type definitions for structured data used throughout the career-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ParsedResume is the raw shape returned by the external resume-parsing
// service. Every field may be absent or null; list fields tolerate both
// plain strings and object entries. Nothing downstream consumes this type
// directly except the formatter, which produces a CanonicalResume.
type ParsedResume struct {
	Name              string             `json:"name"`
	Title             string             `json:"title"`
	Brief             string             `json:"brief"`
	Contact           ParsedContact      `json:"contact"`
	EmploymentHistory []ParsedEmployment `json:"employment_history"`
	Education         []ParsedEducation  `json:"education"`
	Skills            StringList         `json:"skills"`
	Languages         StringList         `json:"languages"`
	Courses           StringList         `json:"courses"`
	Certifications    StringList         `json:"certifications"`
	Projects          []ParsedProject    `json:"projects"`
}

// ParsedContact holds contact fields as the parsing service reports them.
type ParsedContact struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	LocationCity    string `json:"location_city"`
	LocationState   string `json:"location_state"`
	LocationCountry string `json:"location_country"`
}

// ParsedEmployment is a single employment entry from the parsing service.
// Responsibilities tolerates nested role objects and flattens their bullets.
type ParsedEmployment struct {
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Location         string     `json:"location"`
	StartDate        string     `json:"start_date"`
	EndDate          string     `json:"end_date"`
	Responsibilities BulletList `json:"responsibilities"`
}

// ParsedEducation is a single education entry from the parsing service.
type ParsedEducation struct {
	Degree             string     `json:"degree"`
	InstitutionName    string     `json:"institution_name"`
	InstitutionCountry string     `json:"institution_country"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date"`
	FieldOfStudy       string     `json:"field_of_study"`
	GPA                FlexString `json:"gpa"`
}

// ParsedProject is a single project entry from the parsing service.
type ParsedProject struct {
	Title        string     `json:"title"`
	Technologies string     `json:"technologies"`
	Description  string     `json:"description"`
	Achievements StringList `json:"achievements"`
}

// DecodeParsedResume decodes raw parsed-resume JSON without ever failing.
// Unknown fields are ignored, nulls become zero values, and syntactically
// broken input degrades to an empty resume rather than an error.
func DecodeParsedResume(data []byte) ParsedResume {
	var resume ParsedResume
	if len(bytes.TrimSpace(data)) == 0 {
		return resume
	}
	if err := json.Unmarshal(data, &resume); err == nil {
		return resume
	}

	// Strict decode failed; salvage the fields that do parse.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ParsedResume{}
	}
	salvaged := ParsedResume{}
	decodeField(fields, "name", &salvaged.Name)
	decodeField(fields, "title", &salvaged.Title)
	decodeField(fields, "brief", &salvaged.Brief)
	decodeField(fields, "contact", &salvaged.Contact)
	decodeField(fields, "employment_history", &salvaged.EmploymentHistory)
	decodeField(fields, "education", &salvaged.Education)
	decodeField(fields, "skills", &salvaged.Skills)
	decodeField(fields, "languages", &salvaged.Languages)
	decodeField(fields, "courses", &salvaged.Courses)
	decodeField(fields, "certifications", &salvaged.Certifications)
	decodeField(fields, "projects", &salvaged.Projects)
	return salvaged
}

func decodeField(fields map[string]json.RawMessage, key string, dst interface{}) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

// StringList decodes a JSON array whose entries may be strings, numbers, or
// objects carrying a "name" field. Nulls and unrecognized entries are dropped.
type StringList []string

// UnmarshalJSON implements tolerant decoding for StringList.
func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	// A bare string is treated as a single-element list.
	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		if single != "" {
			*s = StringList{single}
		} else {
			*s = nil
		}
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		*s = nil
		return nil
	}

	out := make(StringList, 0, len(entries))
	for _, entry := range entries {
		if value := coerceString(entry); value != "" {
			out = append(out, value)
		}
	}
	*s = out
	return nil
}

// coerceString extracts a usable string from a raw JSON value: plain strings
// and numbers pass through, objects contribute their "name" or "title" field.
func coerceString(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return strconv.FormatFloat(num, 'f', -1, 64)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"name", "title", "value"} {
			if nested, ok := obj[key]; ok {
				var nestedStr string
				if err := json.Unmarshal(nested, &nestedStr); err == nil {
					return strings.TrimSpace(nestedStr)
				}
			}
		}
	}
	return ""
}

// BulletList decodes responsibility arrays where entries are either plain
// strings or nested role objects with their own "responsibilities" array.
// Nested bullets are flattened in order.
type BulletList []string

// UnmarshalJSON implements tolerant decoding for BulletList.
func (b *BulletList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*b = nil
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		var single string
		if err := json.Unmarshal(trimmed, &single); err == nil && single != "" {
			*b = BulletList{single}
		} else {
			*b = nil
		}
		return nil
	}

	out := make(BulletList, 0, len(entries))
	for _, entry := range entries {
		var str string
		if err := json.Unmarshal(entry, &str); err == nil {
			if str != "" {
				out = append(out, str)
			}
			continue
		}
		var nested struct {
			Responsibilities []string `json:"responsibilities"`
		}
		if err := json.Unmarshal(entry, &nested); err == nil {
			for _, r := range nested.Responsibilities {
				if r != "" {
					out = append(out, r)
				}
			}
		}
	}
	*b = out
	return nil
}

// FlexString decodes a JSON value that may arrive as a string or a number.
type FlexString string

// UnmarshalJSON implements tolerant decoding for FlexString.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		*f = FlexString(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(trimmed, &num); err == nil {
		*f = FlexString(strconv.FormatFloat(num, 'f', -1, 64))
		return nil
	}
	*f = ""
	return nil
}

// String returns the underlying string value.
func (f FlexString) String() string {
	return string(f)
}

// CanonicalResume is the normalized resume record every generator consumes.
// Every string field is present (possibly empty) and every list field is
// present (possibly empty); nothing downstream needs to nil-check.
type CanonicalResume struct {
	Name           string            `json:"name"`
	Title          string            `json:"title"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Location       string            `json:"location"`
	Summary        string            `json:"summary"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Skills         []string          `json:"skills"`
	Languages      []string          `json:"languages"`
	Certifications []string          `json:"certifications"`
	Projects       []ProjectEntry    `json:"projects"`
}

// ExperienceEntry is a normalized employment entry. Bullets are preserved
// verbatim with no truncation and no deduplication.
type ExperienceEntry struct {
	Position  string   `json:"position"`
	Company   string   `json:"company"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Bullets   []string `json:"description"`
}

// EducationEntry is a normalized education entry.
type EducationEntry struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Dates       string   `json:"dates"`
	Location    string   `json:"location"`
	Details     []string `json:"details"`
}

// ProjectEntry is a normalized project entry.
type ProjectEntry struct {
	Title        string   `json:"title"`
	Technologies string   `json:"technologies"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}
