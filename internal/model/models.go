package model

import (
	"encoding/base64"
	"time"
)

// Language identifies the source language of a unit, derived from its file extension.
type Language string

const (
	LangTypeScript Language = "ts"
	LangJavaScript Language = "js"
)

// LanguageForPath maps a file path to its Language by extension.
// .ts/.tsx map to TypeScript, everything else handled by the index is JavaScript.
func LanguageForPath(path string) Language {
	n := len(path)
	if n >= 3 && path[n-3:] == ".ts" {
		return LangTypeScript
	}
	if n >= 4 && path[n-4:] == ".tsx" {
		return LangTypeScript
	}
	return LangJavaScript
}

// SourceUnit is a single source file under analysis. It is created once per
// scan when the project is loaded and is immutable for the scan's duration.
type SourceUnit struct {
	Path         string // absolute path on disk
	RelativePath string // project-relative, forward slashes
	Language     Language
	Text         string
	Imports      []string       // raw import specifiers, in source order
	Declarations []*Declaration // analyzable declarations found in this unit
}

// DeclKind is the closed set of declaration kinds the detector analyzes.
type DeclKind string

const (
	DeclFunction DeclKind = "function"
	DeclMethod   DeclKind = "method"
	DeclVariable DeclKind = "variable"
	DeclClass    DeclKind = "class"
)

// Declaration is a named, analyzable unit inside a SourceUnit.
// Name is never empty for the top-level declarations the index produces.
type Declaration struct {
	Kind      DeclKind
	Name      string
	Exported  bool
	Unit      *SourceUnit // owning unit
	Text      string      // raw source text of the declaration
	StartLine int         // 1-based, inclusive
	EndLine   int         // 1-based, inclusive
}

// Reference is one occurrence of a declaration's identifier, including the
// declaration site itself.
type Reference struct {
	Path string `bson:"path" json:"path"`
	Line int    `bson:"line" json:"line"`
}

// Position is a 1-based line/column location in a source unit.
type Position struct {
	Line int `bson:"line" json:"line"`
	Col  int `bson:"col" json:"col"`
}

// Range is the region a symbol declaration occupies.
type Range struct {
	Start Position `bson:"start" json:"start"`
	End   Position `bson:"end" json:"end"`
}

// Reason explains why a finding was produced.
type Reason string

const (
	ReasonUnreachableFile Reason = "unreachable_file"
	ReasonNoRefs          Reason = "no_refs"
	ReasonCompilerUnused  Reason = "compiler_unused"
)

// ItemType is the archived record type: "file" or a Declaration kind.
type ItemType string

const (
	ItemFile     ItemType = "file"
	ItemFunction ItemType = "function"
	ItemMethod   ItemType = "method"
	ItemVariable ItemType = "variable"
	ItemClass    ItemType = "class"
)

// Content is the archived payload: base64 of the exact original text.
type Content struct {
	Kind   string `bson:"kind" json:"kind"` // always "text"
	Base64 string `bson:"base64" json:"base64"`
}

// NewTextContent encodes raw source text as an archive payload.
func NewTextContent(text string) Content {
	return Content{Kind: "text", Base64: base64.StdEncoding.EncodeToString([]byte(text))}
}

// Decode returns the original bytes of the payload.
func (c Content) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(c.Base64)
}

// ArchiveItem is the persisted record, one document per finding.
// The ID is an opaque identifier assigned by the store on insert.
// Name is nil iff Type is "file"; Range is present iff Type is not "file".
type ArchiveItem struct {
	ID         string      `bson:"_id,omitempty" json:"id"`
	CreatedAt  time.Time   `bson:"createdAt" json:"createdAt"`
	ExpiresAt  time.Time   `bson:"expiresAt" json:"expiresAt"`
	Repo       string      `bson:"repo" json:"repo"`
	Commit     string      `bson:"commit" json:"commit"`
	Language   Language    `bson:"language" json:"language"`
	Type       ItemType    `bson:"type" json:"type"`
	Name       *string     `bson:"name" json:"name"`
	Path       string      `bson:"path" json:"path"`
	Range      *Range      `bson:"range,omitempty" json:"range,omitempty"`
	Reason     Reason      `bson:"reason" json:"reason"`
	Confidence float64     `bson:"confidence" json:"confidence"`
	References []Reference `bson:"references" json:"references"`
	Content    Content     `bson:"content" json:"content"`
	Note       string      `bson:"note,omitempty" json:"note,omitempty"`
}
