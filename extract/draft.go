// Package extract turns free-form trade reports into structured drafts.
//
// FromText is a pure, deterministic pattern extractor; MergeVision reconciles a
// caption-derived draft with an AI vision analysis using an explicit per-field
// precedence table. Neither touches storage: a draft exists only while a single
// chat event is being processed.
package extract

// Field provenance tags. Every populated draft field records where its value
// came from, which is what makes the caption/vision precedence rules testable.
const (
	SourceText     = "text"
	SourceVision   = "vision"
	SourceInferred = "inferred"
)

// Draft field names used as provenance keys.
const (
	FieldInstrument = "instrument"
	FieldDirection  = "direction"
	FieldEntryPrice = "entry_price"
	FieldExitPrice  = "exit_price"
	FieldResult     = "result"
	FieldRMultiple  = "r_multiple"
)

// TradeDraft is an in-flight, not-yet-persisted candidate trade record.
// Direction is "LONG", "SHORT" or empty; Result defaults to "PENDING".
type TradeDraft struct {
	Instrument string
	Direction  string
	EntryPrice *float64
	ExitPrice  *float64
	RMultiple  *float64
	Result     string
	Emotion    string
	Confidence float64
	Sources    map[string]string
}

// NewDraft returns an empty draft with a pending result
func NewDraft() *TradeDraft {
	return &TradeDraft{
		Result:  "PENDING",
		Sources: make(map[string]string),
	}
}

func (d *TradeDraft) setSource(field, source string) {
	if d.Sources == nil {
		d.Sources = make(map[string]string)
	}
	d.Sources[field] = source
}

func floatPtr(v float64) *float64 {
	return &v
}
