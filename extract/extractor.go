package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	longPattern  = regexp.MustCompile(`(?i)\b(long|buy)\b`)
	shortPattern = regexp.MustCompile(`(?i)\b(short|sell)\b`)

	// Ticker-shaped token: 3-12 letters with an optional quote-currency suffix.
	tickerPattern = regexp.MustCompile(`\b[A-Z]{3,12}(?:USDT|USDC|USD)?\b`)

	entryPricePattern = regexp.MustCompile(`(?i)\b(?:entry|buy|current price)\s*[:=]?\s*(-?\d+(?:\.\d+)?)`)
	exitPricePattern  = regexp.MustCompile(`(?i)\b(?:exit|sell|target|tp|take profit)\s*[:=]?\s*(-?\d+(?:\.\d+)?)`)
	numberPattern     = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	rMultiplePattern  = regexp.MustCompile(`(?i)(-?\d+(?:\.\d+)?)\s*r\b`)

	breakEvenPattern = regexp.MustCompile(`(?i)\bbreak[\s-]?even\b`)
	winPattern       = regexp.MustCompile(`(?i)\bwin\b`)
	lossPattern      = regexp.MustCompile(`(?i)\bloss\b`)
	profitPattern    = regexp.MustCompile(`(?i)\bprofit\b`)
)

// FromText extracts a trade draft from a free-form report. Pure function:
// same input always yields the same draft. Returns nil when no instrument can
// be recognized: the instrument is the mandatory anchor field, and a report
// without one is "not a trade" rather than a partial trade.
func FromText(text string) *TradeDraft {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	draft := NewDraft()

	instrument := findInstrument(text)
	if instrument == "" {
		return nil
	}
	draft.Instrument = instrument
	draft.setSource(FieldInstrument, SourceText)

	// Direction, independent of instrument detection
	if longPattern.MatchString(text) {
		draft.Direction = "LONG"
		draft.setSource(FieldDirection, SourceText)
	} else if shortPattern.MatchString(text) {
		draft.Direction = "SHORT"
		draft.setSource(FieldDirection, SourceText)
	}

	extractPrices(text, draft)

	if m := rMultiplePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			draft.RMultiple = floatPtr(v)
			draft.setSource(FieldRMultiple, SourceText)
		}
	}

	draft.Result = inferResult(text, draft)

	return draft
}

// findInstrument scans for the first ticker-shaped token that survives the
// stop-word filter, left to right. Slashes are normalized so pairs written as
// BTC/USDT split into candidate tokens.
func findInstrument(text string) string {
	upper := strings.ToUpper(strings.ReplaceAll(text, "/", " "))
	for _, token := range tickerPattern.FindAllString(upper, -1) {
		if stopWords[token] {
			continue
		}
		return token
	}
	return ""
}

// extractPrices applies labeled patterns first, then falls back to the first
// and second bare numeric tokens in order of appearance.
func extractPrices(text string, draft *TradeDraft) {
	if m := entryPricePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			draft.EntryPrice = floatPtr(v)
			draft.setSource(FieldEntryPrice, SourceText)
		}
	}
	if m := exitPricePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			draft.ExitPrice = floatPtr(v)
			draft.setSource(FieldExitPrice, SourceText)
		}
	}

	if draft.EntryPrice != nil && draft.ExitPrice != nil {
		return
	}

	numbers := numberPattern.FindAllString(text, -1)
	if draft.EntryPrice == nil && len(numbers) > 0 {
		if v, err := strconv.ParseFloat(numbers[0], 64); err == nil {
			draft.EntryPrice = floatPtr(v)
			draft.setSource(FieldEntryPrice, SourceText)
		}
	}
	if draft.ExitPrice == nil && len(numbers) > 1 {
		if v, err := strconv.ParseFloat(numbers[1], 64); err == nil {
			draft.ExitPrice = floatPtr(v)
			draft.setSource(FieldExitPrice, SourceText)
		}
	}
}

// inferResult resolves the trade result in priority order: explicit keywords
// first, then the price-sign computation, then PENDING.
func inferResult(text string, draft *TradeDraft) string {
	switch {
	case breakEvenPattern.MatchString(text):
		draft.setSource(FieldResult, SourceText)
		return "BREAK_EVEN"
	case winPattern.MatchString(text):
		draft.setSource(FieldResult, SourceText)
		return "WIN"
	case lossPattern.MatchString(text):
		draft.setSource(FieldResult, SourceText)
		return "LOSS"
	case profitPattern.MatchString(text):
		draft.setSource(FieldResult, SourceText)
		return "WIN"
	}

	if draft.Direction != "" && draft.EntryPrice != nil && draft.ExitPrice != nil {
		diff := *draft.ExitPrice - *draft.EntryPrice
		if draft.Direction == "SHORT" {
			diff = -diff
		}
		draft.setSource(FieldResult, SourceInferred)
		switch {
		case diff > 0:
			return "WIN"
		case diff < 0:
			return "LOSS"
		default:
			return "BREAK_EVEN"
		}
	}

	return "PENDING"
}
