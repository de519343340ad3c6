package extract

import "errors"

// UnknownSentinel is what the vision analyzer returns for fields it could not
// determine.
const UnknownSentinel = "UNKNOWN"

// ErrNoInstrument is returned by MergeVision when neither the image nor the
// caption yields an instrument. The whole message is rejected rather than
// persisting an anchorless trade.
var ErrNoInstrument = errors.New("no instrument in vision analysis or caption")

// VisionAnalysis is the structured guess returned by the AI analyzer for a
// screenshot (or, via the text fallback, a free-form report). Fields the
// analyzer could not determine hold the UNKNOWN sentinel or nil.
type VisionAnalysis struct {
	Instrument string
	Direction  string
	EntryPrice *float64
	ExitPrice  *float64
	Result     string
	Emotion    string
	Confidence float64
}

// MergeVision reconciles a caption-derived draft with a vision analysis of the
// attached image. The image is the authoritative source for a screenshot
// trade, so precedence is per-field and intentional: captions answer "what
// happened" (outcome, psychology) while the chart answers "what instrument,
// what price".
//
//	instrument   vision unless unknown, else caption, else reject
//	direction    vision unless unknown, else caption
//	entry/exit   vision value wins; caption fills gaps
//	result       caption wins only when explicit (not the pending sentinel)
//	confidence   carried from vision, tone only; never blocks persistence
func MergeVision(caption *TradeDraft, vision *VisionAnalysis) (*TradeDraft, error) {
	merged := NewDraft()

	switch {
	case visionHas(vision.Instrument):
		merged.Instrument = vision.Instrument
		merged.setSource(FieldInstrument, SourceVision)
	case caption != nil && caption.Instrument != "":
		merged.Instrument = caption.Instrument
		merged.setSource(FieldInstrument, SourceText)
	default:
		return nil, ErrNoInstrument
	}

	switch {
	case vision.Direction == "LONG" || vision.Direction == "SHORT":
		merged.Direction = vision.Direction
		merged.setSource(FieldDirection, SourceVision)
	case caption != nil && caption.Direction != "":
		merged.Direction = caption.Direction
		merged.setSource(FieldDirection, SourceText)
	}

	if vision.EntryPrice != nil {
		merged.EntryPrice = vision.EntryPrice
		merged.setSource(FieldEntryPrice, SourceVision)
	} else if caption != nil && caption.EntryPrice != nil {
		merged.EntryPrice = caption.EntryPrice
		merged.setSource(FieldEntryPrice, SourceText)
	}

	if vision.ExitPrice != nil {
		merged.ExitPrice = vision.ExitPrice
		merged.setSource(FieldExitPrice, SourceVision)
	} else if caption != nil && caption.ExitPrice != nil {
		merged.ExitPrice = caption.ExitPrice
		merged.setSource(FieldExitPrice, SourceText)
	}

	// An explicit caption result (win/loss/break-even keyword) beats the
	// vision guess; the pending default does not.
	if caption != nil && caption.Result != "" && caption.Result != "PENDING" {
		merged.Result = caption.Result
		src := caption.Sources[FieldResult]
		if src == "" {
			src = SourceText
		}
		merged.setSource(FieldResult, src)
	} else if visionHas(vision.Result) {
		merged.Result = vision.Result
		merged.setSource(FieldResult, SourceVision)
	}
	if merged.Result == "" {
		merged.Result = "PENDING"
	}

	if caption != nil && caption.RMultiple != nil {
		merged.RMultiple = caption.RMultiple
		merged.setSource(FieldRMultiple, SourceText)
	}

	if vision.Emotion != "" && vision.Emotion != UnknownSentinel {
		merged.Emotion = vision.Emotion
	}
	merged.Confidence = vision.Confidence

	return merged, nil
}

func visionHas(value string) bool {
	return value != "" && value != UnknownSentinel
}
