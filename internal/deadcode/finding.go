package deadcode

import "deadwood/internal/model"

// FindingKind distinguishes the two candidate shapes a scan produces.
type FindingKind int

const (
	FindingFile FindingKind = iota
	FindingSymbol
)

// Finding is an internal dead-code candidate before persistence. It is
// created transiently during a scan and translated into an ArchiveItem once
// it clears the confidence threshold; it is never persisted directly.
type Finding struct {
	Kind       FindingKind
	Unit       *model.SourceUnit  // set iff Kind == FindingFile
	Decl       *model.Declaration // set iff Kind == FindingSymbol
	Reason     model.Reason
	Confidence float64

	// References holds the syntactic references the detector observed,
	// declaration site included. Empty for file findings.
	References []model.Reference
}

// NewFileFinding wraps an unreachable source unit.
func NewFileFinding(unit *model.SourceUnit) Finding {
	return Finding{
		Kind:       FindingFile,
		Unit:       unit,
		Reason:     model.ReasonUnreachableFile,
		Confidence: ConfidenceUnreachableFile,
	}
}

// NewSymbolFinding wraps an unused declaration along with the references the
// detector observed when counting.
func NewSymbolFinding(decl *model.Declaration, refs []model.Reference) Finding {
	confidence := ConfidenceLocalSymbol
	if decl.Exported {
		confidence = ConfidenceExportedSymbol
	}
	return Finding{
		Kind:       FindingSymbol,
		Decl:       decl,
		Reason:     model.ReasonNoRefs,
		Confidence: confidence,
		References: refs,
	}
}
