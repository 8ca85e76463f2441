package i18n

// Message keys. Keys are the English text; the Arabic catalog maps them to
// translations.
const (
	MsgWelcome        = "Hello! ✨ I only need your phone number to get started. You can repeat the process at any time."
	MsgWelcomeBack    = "Welcome back! 😊 Your phone number is on file. Choose your team and send a new email at any time."
	MsgChooseTeam     = "Great, now choose your team:"
	MsgSharePhone     = "⚠️ Please share your phone number with the button below to continue."
	MsgUnknownTeam    = "⚠️ Unknown team, please try again."
	MsgChooseTeamHint = "⚠️ Please choose your team with the buttons above."
	MsgSendEmail      = "✅ Great! Now send your email address. You can send a new one later to renew access."
	MsgInvalidEmail   = "⚠️ This email address is not valid. Use the form name@example.com."
	MsgProfileMissing = "❌ Your profile could not be loaded. Send /start again."
	MsgTeamMissing    = "⚠️ No team selected yet. Send /start and choose one."
	MsgGranting       = "⏳ Adding your email to the team folder... one moment."
	MsgGranted        = "✅ You have been added to the %s folder! Send another email any time to renew access."
	MsgAlreadyGranted = "✅ %s already has access to the %s folder."
	MsgUnexpected     = "❌ An unexpected error occurred while sharing the folder. Try again shortly or tell an admin."
	MsgSendStart      = "Send /start to begin registration."

	MsgAccessInstructions = "To reach the files after you are added:\n" +
		"1. Open the Google Drive app or drive.google.com with the same email you sent.\n" +
		"2. In the side menu choose \"Shared with me\".\n" +
		"3. Open the shared folder to see its content."
	MsgBotRunning = "The bot is running ✨\nTo renew access send /start, or choose your team and send your email."

	MsgSharePhoneButton = "Share phone number"
	MsgOpenFolder       = "Open folder"
	MsgFilePanel        = "File panel"
	MsgFilePanelPrompt  = "You can open the folder or browse the files here:"
	MsgFilesUnavailable = "⚠️ Could not fetch the files right now, try again shortly."
	MsgNoFiles          = "📁 There are no files in the folder yet."
	MsgRecentFiles      = "📂 Latest files:"

	MsgBadAddress = "This address is not valid or cannot be used with Google. Try another email."
	MsgDenied     = "This address lacks access to the folder. Try a different email."
	MsgNetwork    = "The connection is unstable right now. Please retry shortly."
	MsgGeneric    = "An unexpected error occurred while sharing the folder. Contact an operator if it persists."

	MsgNotAuthorized      = "⛔ You are not allowed to use this command."
	MsgNotAuthorizedShort = "⛔ Not allowed"
	MsgTeamStats          = "Team statistics:\n%s\n\nChoose a team to list its emails:"
	MsgTeamStatLine       = "• %s: %d members, %d added"
	MsgNoData             = "No data yet."
	MsgNoTeamEmails       = "No emails registered for team %s."
	MsgTeamEmails         = "Emails for team %s:\n%s\n\nUse select all and copy to add them in one go."
	MsgUsersHeader        = "📋 User data:"
	MsgNoUsers            = "No user data yet."
	MsgNoUsersToNotify    = "No users to notify."
	MsgBroadcastDone      = "Start notice sent to %d/%d users."
	MsgUserLine           = "• %s (%s) | team %s | %s | %s | %s"
	MsgNoName             = "no name"
	MsgNoEmail            = "not entered"
	MsgNoPhone            = "not available"
	MsgNoTeam             = "not set"
	MsgShared             = "🌟 shared"
	MsgNotShared          = "⚠️ not shared"
	MsgExportDone         = "Export uploaded to %s (%d users)."
	MsgExportFailed       = "⚠️ Export failed, check the server logs."
	MsgExportDisabled     = "Export is not configured."
)
