package translator

// User-facing notice texts. Telegram renders the HTML; the Discord transport
// strips it.
const (
	noticeAudioOnly = "<b>I can only process audio! Sorry.</b>"

	noticeSizeLimit = "<b><em>Maximum file size is 10MB.</em></b>"

	noticeBusy = "<b><em>Each bot subscriber can run only 1 translation at time! 🫡\n\nBot limits, sorry . . .</em></b>"

	noticeRateLimited = "<b><em>Wait at least 30 seconds to send your next audio! 🫡</em></b>"

	noticeQueued = "<b><em>Bot reached its limit of active running translations (%d/%d). \n\n🥵🥵🥵🥵🥵🥵\n\nYou'll be notified when some running translation finish! 🫡</em></b>"

	noticeAlreadyQueued = "<b><em>Bot reached its limit of active running translations (%d/%d). \n\n🥵🥵🥵🥵🥵🥵\n\nYou are already at waiting translation queue! ✅\n\nYou'll be notified when some running translation finish! 🫡</em></b>"

	noticeChatRestarted = "<b><em>Chat restarted.</em></b>"

	noticeDone = "<b>Translation finished! ✅</b>"

	noticeJobFailed = "<b>Could not process AI response... Please, try again later!</b>"
)
