package bot

// Canned reply texts. User-input failures get a specific corrective reply;
// infrastructure failures only ever surface as msgTryAgain.
const (
	msgStart = "Welcome to TradeJournal! 🚀\n\n" +
		"I log your trades automatically from screenshots or plain text.\n\n" +
		"To get started, link your account:\n" +
		"1. Open Settings → Telegram on your dashboard\n" +
		"2. Generate a connect code\n" +
		"3. Send /connect TM-XXXXXX here"

	msgConnectUsage = "Usage: /connect TM-XXXXXX\n" +
		"Generate a code from Settings → Telegram on your dashboard."

	msgTokenInvalid = "❌ That code is invalid or has expired. " +
		"Codes are valid for 15 minutes — generate a fresh one from your dashboard."

	msgAccountMissing = "❌ The account for that code no longer exists. Please check your dashboard."

	msgPlanGated = "❌ Telegram logging is available on Pro and Elite plans. " +
		"Upgrade from your dashboard to link this chat."

	msgChatTaken = "❌ This Telegram account is already linked to another journal account."

	msgAlreadyConnected = "✅ You are already connected to this account."

	msgNotConnected = "⚠️ Please connect your account first using /connect TM-XXXXXX. " +
		"You can generate a code from Settings → Telegram on your dashboard."

	msgUnknownCommand = "I don't know that command. Try:\n" +
		"/start — setup instructions\n" +
		"/connect TM-XXXXXX — link your account\n" +
		"/news — upcoming market events\n" +
		"Or just send me a trade, e.g. \"Long BTC entry 99000 exit 100000\"."

	msgNoTradeDetected = "I didn't detect a trade in that message. " +
		"Try something like \"Long BTCUSDT entry 45000 exit 46000\"."

	msgPhotoNoInstrument = "I couldn't identify the instrument on that screenshot. " +
		"Please make sure the ticker is visible, or add it in the caption."

	msgPhotoNotAnalyzed = "📸 I couldn't analyze that screenshot. " +
		"Add the trade details in the caption (instrument, direction, entry and exit) and I'll log it from there."

	msgVoiceAck = "🎤 Voice note received. Voice logging is coming soon — " +
		"for now, send the trade as text or a screenshot."

	msgNews = "📅 High-impact events digest is refreshed every morning on your dashboard " +
		"under Markets → Calendar. I'll start pushing them here soon."

	msgTryAgain = "⚠️ Something went wrong on our side. Please try again in a moment."
)
