package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/driveaccess/internal/drive"
	"github.com/dmitrijs2005/driveaccess/internal/i18n"
)

const fileLabelMax = 40

func (b *Bot) contactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(b.tr.T(i18n.MsgSharePhoneButton))),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// teamKeyboard renders one button per team with callback data
// "<prefix>|<team>".
func (b *Bot) teamKeyboard(prefix, labelPrefix string, teams []string) tgbotapi.InlineKeyboardMarkup {
	if len(teams) == 0 {
		teams = b.teams
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(teams))
	for _, team := range teams {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labelPrefix+team, prefix+"|"+team),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) folderKeyboard(team, folderURL string) tgbotapi.InlineKeyboardMarkup {
	if folderURL == "" && b.files != nil {
		folderURL, _ = b.files.FolderURL(team)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if folderURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(b.tr.T(i18n.MsgOpenFolder), folderURL),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(b.tr.T(i18n.MsgFilePanel), "files|"+team),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func filesKeyboard(files []drive.File) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(files))
	for _, f := range files {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(trimLabel(f.Name), f.Link),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// trimLabel shortens names longer than fileLabelMax runes, ending them
// with "...".
func trimLabel(name string) string {
	r := []rune(name)
	if len(r) <= fileLabelMax {
		return name
	}
	return string(r[:fileLabelMax-3]) + "..."
}
