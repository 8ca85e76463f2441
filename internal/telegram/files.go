package telegram

import (
	"context"

	"github.com/dmitrijs2005/driveaccess/internal/drive"
	"github.com/dmitrijs2005/driveaccess/internal/i18n"
)

// filePanel lists the newest files of the team folder as link buttons.
func (b *Bot) filePanel(ctx context.Context, chatID int64, team string) {
	var files []drive.File
	for f, err := range b.files.ListRecentFiles(ctx, team, b.limit) {
		if err != nil {
			b.logger.Warn(ctx, "file panel unavailable", "team", team, "error", err)
			b.send(ctx, chatID, b.tr.T(i18n.MsgFilesUnavailable), nil)
			return
		}
		if f.Link == "" {
			continue
		}
		files = append(files, f)
	}

	if len(files) == 0 {
		b.send(ctx, chatID, b.tr.T(i18n.MsgNoFiles), b.folderKeyboard(team, ""))
		return
	}

	b.send(ctx, chatID, b.tr.T(i18n.MsgRecentFiles), filesKeyboard(files))
}
