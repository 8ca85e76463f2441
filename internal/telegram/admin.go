package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/driveaccess/internal/admin"
	"github.com/dmitrijs2005/driveaccess/internal/i18n"
	"github.com/dmitrijs2005/driveaccess/internal/server/models"
)

// maxChunk stays under Telegram's 4096-character message limit.
const maxChunk = 4000

func (b *Bot) allowAdmin(ctx context.Context, chatID, userID int64) bool {
	if b.isAdmin(userID) {
		return true
	}
	b.logger.Warn(ctx, "admin command refused", "user_id", userID)
	b.send(ctx, chatID, b.tr.T(i18n.MsgNotAuthorized), nil)
	return false
}

func (b *Bot) adminDashboard(ctx context.Context, chatID, userID int64) {
	if !b.allowAdmin(ctx, chatID, userID) {
		return
	}

	stats, err := b.admin.TeamSummary(ctx)
	if err != nil {
		b.logger.Error(ctx, "team summary failed", "error", err)
		b.send(ctx, chatID, b.tr.T(i18n.MsgUnexpected), nil)
		return
	}

	lines := make([]string, 0, len(stats))
	for _, st := range stats {
		lines = append(lines, b.tr.T(i18n.MsgTeamStatLine, st.Team, st.Total, st.Granted))
	}
	body := strings.Join(lines, "\n")
	if body == "" {
		body = b.tr.T(i18n.MsgNoData)
	}

	b.send(ctx, chatID, b.tr.T(i18n.MsgTeamStats, body), b.teamKeyboard("admin_team", "📁 ", nil))
}

func (b *Bot) teamEmails(ctx context.Context, chatID int64, team string) {
	emails, err := b.admin.ListByTeam(ctx, team)
	if err != nil {
		b.logger.Error(ctx, "team emails failed", "team", team, "error", err)
		b.send(ctx, chatID, b.tr.T(i18n.MsgUnexpected), nil)
		return
	}
	if len(emails) == 0 {
		b.send(ctx, chatID, b.tr.T(i18n.MsgNoTeamEmails, team), nil)
		return
	}
	// every part repeats the template header and footer
	overhead := len(b.tr.T(i18n.MsgTeamEmails, team, ""))
	for _, chunk := range chunkLines(emails, maxChunk-overhead) {
		b.send(ctx, chatID, b.tr.T(i18n.MsgTeamEmails, team, chunk), nil)
	}
}

func (b *Bot) adminUsers(ctx context.Context, chatID, userID int64) {
	if !b.allowAdmin(ctx, chatID, userID) {
		return
	}

	users, err := b.admin.ListAll(ctx)
	if err != nil {
		b.logger.Error(ctx, "list users failed", "error", err)
		b.send(ctx, chatID, b.tr.T(i18n.MsgUnexpected), nil)
		return
	}
	if len(users) == 0 {
		b.send(ctx, chatID, b.tr.T(i18n.MsgNoUsers), nil)
		return
	}

	b.send(ctx, chatID, b.tr.T(i18n.MsgUsersHeader), nil)

	lines := make([]string, 0, len(users))
	for _, p := range users {
		lines = append(lines, b.userLine(p))
	}
	for _, chunk := range chunkLines(lines, maxChunk) {
		b.send(ctx, chatID, chunk, nil)
	}
}

func (b *Bot) userLine(p *models.Profile) string {
	name := p.DisplayName
	if name == "" {
		name = p.Handle
	}
	if name == "" {
		name = b.tr.T(i18n.MsgNoName)
	}
	or := func(v, key string) string {
		if v == "" {
			return b.tr.T(key)
		}
		return v
	}
	shared := b.tr.T(i18n.MsgNotShared)
	if p.Granted() {
		shared = b.tr.T(i18n.MsgShared)
	}

	return b.tr.T(i18n.MsgUserLine,
		name,
		strconv.FormatInt(p.ID, 10),
		or(p.Team, i18n.MsgNoTeam),
		or(p.Email, i18n.MsgNoEmail),
		or(p.Phone, i18n.MsgNoPhone),
		shared,
	)
}

// chunkLines joins lines with newlines into pieces no longer than limit
// characters. A single line longer than limit becomes its own piece.
func chunkLines(lines []string, limit int) []string {
	var chunks []string
	var cur strings.Builder
	for _, line := range lines {
		if cur.Len() > 0 && cur.Len()+len(line)+1 > limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func (b *Bot) adminBroadcast(ctx context.Context, chatID, userID int64) {
	if !b.allowAdmin(ctx, chatID, userID) {
		return
	}

	rep, err := b.admin.Broadcast(ctx, b.notice)
	if err != nil {
		b.logger.Error(ctx, "broadcast failed", "error", err)
		b.send(ctx, chatID, b.tr.T(i18n.MsgUnexpected), nil)
		return
	}
	if rep.Total == 0 {
		b.send(ctx, chatID, b.tr.T(i18n.MsgNoUsersToNotify), nil)
		return
	}
	b.send(ctx, chatID, b.tr.T(i18n.MsgBroadcastDone, rep.Sent, rep.Total), nil)
}

func (b *Bot) adminExport(ctx context.Context, chatID, userID int64) {
	if !b.allowAdmin(ctx, chatID, userID) {
		return
	}

	res, err := b.admin.Export(ctx)
	switch {
	case errors.Is(err, admin.ErrExportDisabled):
		b.send(ctx, chatID, b.tr.T(i18n.MsgExportDisabled), nil)
	case err != nil:
		b.logger.Error(ctx, "export failed", "error", err)
		b.send(ctx, chatID, b.tr.T(i18n.MsgExportFailed), nil)
	default:
		b.send(ctx, chatID, b.tr.T(i18n.MsgExportDone, res.Key, res.Count), nil)
	}
}
