package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tradejournal-bot/extract"
)

// analyzeTimeout bounds every analyzer call. A timeout is a recoverable
// degradation (the pipeline falls back to caption-only extraction), never a
// fatal error.
const analyzeTimeout = 20 * time.Second

const extractionSystemMessage = "You are a precise trading-journal extraction engine. " +
	"You only report values that are actually visible or stated. " +
	"Never invent prices or instruments. When a value cannot be determined, use null or \"UNKNOWN\"."

// Analyzer wraps the LLM client behind a capability check. It is constructed
// once at startup and injected; callers branch on Available(), not on nil
// clients or configuration lookups.
type Analyzer struct {
	client *Client
}

// NewAnalyzer creates the analyzer collaborator. Returns a disabled analyzer
// when the feature is off or no API key is configured.
func NewAnalyzer(enabled bool, endpoint, apiKey, model string) *Analyzer {
	if !enabled || apiKey == "" {
		return &Analyzer{}
	}
	return &Analyzer{client: NewClient(endpoint, apiKey, model)}
}

// Available reports whether AI analysis can be attempted
func (a *Analyzer) Available() bool {
	return a != nil && a.client != nil
}

// AnalyzeImage runs vision analysis over a trading screenshot. Any failure is
// returned as an error the caller treats as "no vision data available".
func (a *Analyzer) AnalyzeImage(ctx context.Context, image []byte, caption string) (*extract.VisionAnalysis, error) {
	if !a.Available() {
		return nil, fmt.Errorf("analyzer not available")
	}

	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	prompt := fmt.Sprintf(`Analyze this trading screenshot and extract the trade details.
Caption provided by the user: %q

Return ONLY a JSON object with these keys:
instrument (ticker, e.g. BTCUSDT, XAUUSD), direction (LONG/SHORT),
entry_price (number), exit_price (number),
result (WIN/LOSS/BREAK_EVEN/PENDING), emotion (one word), confidence (0.0 to 1.0).

If a value is not visible and cannot be inferred, use null or "UNKNOWN".`, caption)

	messages := []Message{
		{Role: "system", Content: extractionSystemMessage},
		{Role: "user", Content: []ContentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &ImageURL{
				URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image),
			}},
		}},
	}

	raw, err := a.client.ChatCompletion(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("vision analysis: %w", err)
	}
	return parseAnalysis(raw)
}

// AnalyzeText is the AI fallback for reports the deterministic extractor
// could not parse.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (*extract.VisionAnalysis, error) {
	if !a.Available() {
		return nil, fmt.Errorf("analyzer not available")
	}

	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	prompt := fmt.Sprintf(`Extract trading data from the following report.
Return ONLY a JSON object with keys: instrument, direction (LONG/SHORT),
entry_price (number), exit_price (number), result (WIN/LOSS/BREAK_EVEN/PENDING),
emotion (one word), confidence (0.0 to 1.0).
If a value is missing, use null or "UNKNOWN".

Report: %q`, text)

	messages := []Message{
		{Role: "system", Content: extractionSystemMessage},
		{Role: "user", Content: prompt},
	}

	raw, err := a.client.ChatCompletion(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("text analysis: %w", err)
	}
	return parseAnalysis(raw)
}

// visionWire mirrors the JSON shape the model is prompted to return
type visionWire struct {
	Instrument string   `json:"instrument"`
	Direction  string   `json:"direction"`
	EntryPrice *float64 `json:"entry_price"`
	ExitPrice  *float64 `json:"exit_price"`
	Result     string   `json:"result"`
	Emotion    string   `json:"emotion"`
	Confidence *float64 `json:"confidence"`
}

// parseAnalysis strips markdown fences, decodes the JSON guess and normalizes
// sentinels and confidence.
func parseAnalysis(raw string) (*extract.VisionAnalysis, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var wire visionWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}

	analysis := &extract.VisionAnalysis{
		Instrument: normalizeToken(wire.Instrument),
		Direction:  normalizeToken(wire.Direction),
		EntryPrice: wire.EntryPrice,
		ExitPrice:  wire.ExitPrice,
		Result:     normalizeToken(wire.Result),
		Emotion:    strings.ToLower(strings.TrimSpace(wire.Emotion)),
	}
	if wire.Confidence != nil {
		analysis.Confidence = clamp01(*wire.Confidence)
	}

	if analysis.Direction != "LONG" && analysis.Direction != "SHORT" {
		analysis.Direction = extract.UnknownSentinel
	}
	if analysis.Result == extract.UnknownSentinel {
		analysis.Result = "PENDING"
	}

	return analysis, nil
}

func normalizeToken(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return extract.UnknownSentinel
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
