// Package journal persists validated trade drafts and enforces plan quotas.
package journal

import (
	"fmt"

	"tradejournal-bot/extract"
)

// ValidationError rejects a logically inconsistent draft. The message is
// user-facing; validation failures abort persistence and are never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trade: %s", e.Reason)
}

// Validate checks a draft for logical consistency, short-circuiting on the
// first failure. Contradictory direction/result combinations are rejected
// rather than silently corrected: whether they come from bad extraction or a
// genuinely unusual trade is ambiguous, and the user can resolve it.
func Validate(d *extract.TradeDraft) error {
	if d == nil || d.Instrument == "" {
		return &ValidationError{Reason: "no instrument detected"}
	}
	if d.EntryPrice != nil && *d.EntryPrice < 0 {
		return &ValidationError{Reason: "entry price cannot be negative"}
	}
	if d.ExitPrice != nil && *d.ExitPrice < 0 {
		return &ValidationError{Reason: "exit price cannot be negative"}
	}
	if d.Direction != "" && d.Direction != "LONG" && d.Direction != "SHORT" {
		return &ValidationError{Reason: fmt.Sprintf("unknown direction %q", d.Direction)}
	}

	if d.Direction != "" && d.EntryPrice != nil && d.ExitPrice != nil {
		diff := *d.ExitPrice - *d.EntryPrice
		if d.Direction == "SHORT" {
			diff = -diff
		}
		if diff > 0 && d.Result == "LOSS" {
			return &ValidationError{
				Reason: fmt.Sprintf("%s from %.4g to %.4g is profitable but labeled LOSS", d.Direction, *d.EntryPrice, *d.ExitPrice),
			}
		}
		if diff < 0 && d.Result == "WIN" {
			return &ValidationError{
				Reason: fmt.Sprintf("%s from %.4g to %.4g is losing but labeled WIN", d.Direction, *d.EntryPrice, *d.ExitPrice),
			}
		}
	}

	return nil
}
