package bot

import (
	"context"
	"fmt"
	"strings"

	models "tradejournal-bot/database/models_pkg"
)

// lowConfidence is the tone threshold for vision-derived trades. Confidence
// never blocks persistence; it only softens the acknowledgement.
const lowConfidence = 0.5

// PersonalityReplier generates a natural-language acknowledgement.
// Implemented by llm.Analyzer.
type PersonalityReplier interface {
	Available() bool
	PersonalityReply(ctx context.Context, summary, userMessage string) (string, error)
}

// Composer turns a pipeline outcome into a single outbound message,
// optionally asking the LLM for a more natural phrasing.
type Composer struct {
	personality PersonalityReplier
}

// NewComposer creates a response composer. personality may be a disabled
// analyzer.
func NewComposer(personality PersonalityReplier) *Composer {
	return &Composer{personality: personality}
}

// TradeLogged composes the acknowledgement for a persisted trade
func (c *Composer) TradeLogged(ctx context.Context, trade *models.Trade, userMessage string, confidence float64) string {
	var b strings.Builder

	header := "✅ Trade logged: "
	if trade.Direction != "" {
		header += trade.Direction + " "
	}
	header += trade.Instrument
	b.WriteString(header)

	if trade.EntryPrice != nil || trade.ExitPrice != nil {
		b.WriteString("\n")
		b.WriteString(priceLine(trade.EntryPrice, trade.ExitPrice))
	}
	if trade.Result != "" {
		b.WriteString("\nResult: " + trade.Result + resultEmoji(trade.Result))
	}
	if trade.RMultiple != nil {
		b.WriteString(fmt.Sprintf("\nR-multiple: %.2f", *trade.RMultiple))
	}
	if confidence > 0 && confidence < lowConfidence {
		b.WriteString("\n\n(Read with low confidence — double-check the numbers on your dashboard.)")
	}

	b.WriteString("\n\n")
	b.WriteString(c.flavor(ctx, b.String(), userMessage, trade.Result))

	return b.String()
}

// flavor returns the personality line: LLM phrasing when available, static
// per-result fallback otherwise.
func (c *Composer) flavor(ctx context.Context, summary, userMessage, result string) string {
	if c.personality != nil && c.personality.Available() {
		if reply, err := c.personality.PersonalityReply(ctx, summary, userMessage); err == nil {
			return reply
		}
	}

	switch result {
	case models.ResultWin:
		return "Great trade! 🚀 Added to your journal."
	case models.ResultLoss:
		return "Logged. Review the setup and move on to the next one. 💪"
	default:
		return "Trade logged. Stick to your plan! 🛡️"
	}
}

func priceLine(entry, exit *float64) string {
	format := func(v *float64) string {
		if v == nil {
			return "—"
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", *v), "0"), ".")
	}
	return fmt.Sprintf("Entry: %s → Exit: %s", format(entry), format(exit))
}

func resultEmoji(result string) string {
	switch result {
	case models.ResultWin:
		return " 🎉"
	case models.ResultLoss:
		return " 📉"
	case models.ResultBreakEven:
		return " ⚖️"
	default:
		return ""
	}
}
