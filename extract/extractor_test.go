package extract

import "testing"

func TestFromTextFullReport(t *testing.T) {
	draft := FromText("Long BTC entry 99000 exit 100000")
	if draft == nil {
		t.Fatal("expected a draft, got nil")
	}
	if draft.Instrument != "BTC" {
		t.Errorf("expected instrument BTC, got %q", draft.Instrument)
	}
	if draft.Direction != "LONG" {
		t.Errorf("expected direction LONG, got %q", draft.Direction)
	}
	if draft.EntryPrice == nil || *draft.EntryPrice != 99000 {
		t.Errorf("expected entry 99000, got %v", draft.EntryPrice)
	}
	if draft.ExitPrice == nil || *draft.ExitPrice != 100000 {
		t.Errorf("expected exit 100000, got %v", draft.ExitPrice)
	}
	// exit > entry for LONG
	if draft.Result != "WIN" {
		t.Errorf("expected inferred result WIN, got %q", draft.Result)
	}
	if draft.Sources[FieldResult] != SourceInferred {
		t.Errorf("expected inferred result provenance, got %q", draft.Sources[FieldResult])
	}
}

func TestFromTextExplicitResultOverridesPriceSign(t *testing.T) {
	draft := FromText("Short ETH entry 2500 exit 2450 result win")
	if draft == nil {
		t.Fatal("expected a draft, got nil")
	}
	if draft.Direction != "SHORT" {
		t.Errorf("expected direction SHORT, got %q", draft.Direction)
	}
	if draft.Result != "WIN" {
		t.Errorf("expected explicit WIN keyword to win, got %q", draft.Result)
	}
	if draft.Sources[FieldResult] != SourceText {
		t.Errorf("expected text result provenance, got %q", draft.Sources[FieldResult])
	}
}

func TestFromTextNoInstrument(t *testing.T) {
	if draft := FromText("just checking in"); draft != nil {
		t.Errorf("expected nil draft for non-trade text, got %+v", draft)
	}
}

func TestFromTextTable(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		instrument string
		direction  string
		result     string
	}{
		{
			name:       "stop words never become tickers",
			text:       "took a long and hit the target on XAUUSD",
			instrument: "XAUUSD",
			direction:  "LONG",
			result:     "PENDING",
		},
		{
			name:       "slash pair splits into candidates",
			text:       "short BTC/USDT from 45000 to 44000",
			instrument: "BTC",
			direction:  "SHORT",
			result:     "WIN",
		},
		{
			name:       "break even beats win keyword",
			text:       "AAPL trade ended break even, still a win for discipline",
			instrument: "AAPL",
			direction:  "",
			result:     "BREAK_EVEN",
		},
		{
			name:       "profit keyword maps to win",
			text:       "closed EURUSD in profit",
			instrument: "EURUSD",
			direction:  "",
			result:     "WIN",
		},
		{
			name:       "loss keyword",
			text:       "small loss on TSLA today",
			instrument: "TSLA",
			direction:  "",
			result:     "LOSS",
		},
		{
			name:       "short with price sign inference",
			text:       "sell NVDA entry 500 exit 510",
			instrument: "NVDA",
			direction:  "SHORT",
			result:     "LOSS",
		},
		{
			name:       "empty input",
			text:       "   ",
			instrument: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := FromText(tt.text)
			if tt.instrument == "" {
				if draft != nil {
					t.Fatalf("expected nil draft, got %+v", draft)
				}
				return
			}
			if draft == nil {
				t.Fatal("expected a draft, got nil")
			}
			if draft.Instrument != tt.instrument {
				t.Errorf("expected instrument %q, got %q", tt.instrument, draft.Instrument)
			}
			if draft.Direction != tt.direction {
				t.Errorf("expected direction %q, got %q", tt.direction, draft.Direction)
			}
			if draft.Result != tt.result {
				t.Errorf("expected result %q, got %q", tt.result, draft.Result)
			}
		})
	}
}

func TestFromTextBarePriceFallback(t *testing.T) {
	draft := FromText("GBPUSD 1.2650 1.2700")
	if draft == nil {
		t.Fatal("expected a draft, got nil")
	}
	if draft.EntryPrice == nil || *draft.EntryPrice != 1.2650 {
		t.Errorf("expected first bare number as entry, got %v", draft.EntryPrice)
	}
	if draft.ExitPrice == nil || *draft.ExitPrice != 1.27 {
		t.Errorf("expected second bare number as exit, got %v", draft.ExitPrice)
	}
}

func TestFromTextRMultiple(t *testing.T) {
	draft := FromText("BTCUSDT long win 2.5R")
	if draft == nil {
		t.Fatal("expected a draft, got nil")
	}
	if draft.RMultiple == nil || *draft.RMultiple != 2.5 {
		t.Errorf("expected r-multiple 2.5, got %v", draft.RMultiple)
	}

	// A trailing R on a word is not an R-multiple
	draft = FromText("BTCUSDT long 3 bar setup")
	if draft == nil {
		t.Fatal("expected a draft, got nil")
	}
	if draft.RMultiple != nil {
		t.Errorf("expected no r-multiple, got %v", *draft.RMultiple)
	}
}

func TestFromTextDeterministic(t *testing.T) {
	const text = "Long BTC entry 99000 exit 100000 2R felt calm"
	first := FromText(text)
	for i := 0; i < 5; i++ {
		again := FromText(text)
		if first.Instrument != again.Instrument || first.Result != again.Result ||
			*first.EntryPrice != *again.EntryPrice || *first.ExitPrice != *again.ExitPrice {
			t.Fatal("extraction is not deterministic")
		}
	}
}
