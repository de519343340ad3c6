package extract

// stopWords holds uppercase tokens that look ticker-shaped but never are.
// Without this filter, reports like "LONG BTC HIT TARGET" would read
// "LONG" or "HIT" as the instrument. Mix of common English verbs/function
// words and trading-domain noise words.
var stopWords = map[string]bool{
	// function words
	"THE": true, "AND": true, "FOR": true, "WITH": true, "THIS": true,
	"THAT": true, "FROM": true, "INTO": true, "OVER": true, "UNDER": true,
	"ABOUT": true, "AFTER": true, "BEFORE": true, "AGAIN": true, "JUST": true,
	"ONLY": true, "VERY": true, "MUCH": true, "MORE": true, "SOME": true,
	"WHAT": true, "WHEN": true, "WHERE": true, "WHICH": true, "WHILE": true,
	"YOUR": true, "HAVE": true, "HAS": true, "HAD": true, "WAS": true,
	"WERE": true, "BEEN": true, "WILL": true, "WOULD": true, "COULD": true,
	"SHOULD": true, "HERE": true, "THERE": true, "THEN": true, "THAN": true,
	"ALSO": true, "BECAUSE": true, "BUT": true, "NOT": true, "ALL": true,
	"ANY": true, "OUT": true, "NOW": true, "TODAY": true, "YESTERDAY": true,
	"TOMORROW": true, "MORNING": true, "TONIGHT": true, "WEEK": true,
	"MONTH": true, "YEAR": true, "DAY": true, "DAYS": true, "TIME": true,

	// common verbs seen in trade reports
	"TOOK": true, "TAKE": true, "TAKEN": true, "GOT": true, "GET": true,
	"WENT": true, "MADE": true, "MAKE": true, "CLOSED": true, "CLOSE": true,
	"OPENED": true, "OPEN": true, "HIT": true, "HITS": true, "MISSED": true,
	"MOVED": true, "MOVE": true, "WAITING": true, "WAIT": true, "HOLD": true,
	"HOLDING": true, "HELD": true, "FILLED": true, "FILL": true,
	"CHECKING": true, "CHECK": true, "LOOKING": true, "LOOK": true,
	"FEELING": true, "FEEL": true, "FELT": true, "TRIED": true,

	// domain noise
	"LONG": true, "SHORT": true, "BUY": true, "SELL": true, "BOUGHT": true,
	"SOLD": true, "ENTRY": true, "EXIT": true, "STOP": true, "LOSS": true,
	"WIN": true, "WON": true, "LOST": true, "PROFIT": true, "TARGET": true,
	"PRICE": true, "CURRENT": true, "RESULT": true, "PENDING": true,
	"BREAK": true, "EVEN": true, "BREAKEVEN": true, "TRADE": true,
	"TRADES": true, "TRADED": true, "TRADING": true, "CHART": true,
	"SETUP": true, "SIGNAL": true, "POSITION": true, "LOTS": true,
	"PIPS": true, "POINTS": true, "RISK": true, "REWARD": true,
	"SCREENSHOT": true, "IMAGE": true, "PHOTO": true, "NOTE": true,
	"JOURNAL": true, "ACCOUNT": true, "MARKET": true, "SESSION": true,
	"NEWS": true, "SCALP": true, "SWING": true, "LIMIT": true,
	"ORDER": true, "WICK": true, "CANDLE": true, "SUPPORT": true,
	"RESISTANCE": true, "BREAKOUT": true, "RETEST": true, "LEVEL": true,
	"ZONE": true, "PLAN": true, "GOOD": true, "BAD": true, "NICE": true,
	"SMALL": true, "BIG": true, "HUGE": true, "CLEAN": true,
}
