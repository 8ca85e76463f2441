package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/driveaccess/internal/admin"
	"github.com/dmitrijs2005/driveaccess/internal/i18n"
	"github.com/dmitrijs2005/driveaccess/internal/server/models"
)

const adminID = 99

func TestAdminCommands_RefuseNonAdmins(t *testing.T) {
	for _, cmd := range []string{"admin", "admin_users", "broadcast_start", "export"} {
		t.Run(cmd, func(t *testing.T) {
			h := newHarness(t)
			h.bot.HandleUpdate(context.Background(), command(5, cmd))

			sent := h.api.messages()
			require.Len(t, sent, 1)
			assert.Equal(t, i18n.MsgNotAuthorized, sent[0].Text)
			assert.Empty(t, h.reg.events)
		})
	}
}

func TestAdminTeamCallback_RefusesWithAlert(t *testing.T) {
	h := newHarness(t)
	h.bot.HandleUpdate(context.Background(), callback(5, "admin_team|X"))

	require.Len(t, h.api.answers, 1)
	assert.True(t, h.api.answers[0].ShowAlert)
	assert.Equal(t, i18n.MsgNotAuthorizedShort, h.api.answers[0].Text)
	assert.Empty(t, h.api.messages())
}

func TestAdminDashboard(t *testing.T) {
	h := newHarness(t)
	h.admin.stats = []models.TeamStat{{Team: "X", Total: 2, Granted: 1}, {Team: "Y", Total: 1, Granted: 1}}

	h.bot.HandleUpdate(context.Background(), command(adminID, "admin"))

	sent := h.api.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "• X: 2 members, 1 added")
	assert.Contains(t, sent[0].Text, "• Y: 1 members, 1 added")

	rows := inlineRows(t, sent[0])
	require.Len(t, rows, 2)
	assert.Equal(t, "📁 X", rows[0][0].Text)
	assert.Equal(t, "admin_team|X", *rows[0][0].CallbackData)
}

func TestAdminDashboard_NoData(t *testing.T) {
	h := newHarness(t)
	h.bot.HandleUpdate(context.Background(), command(adminID, "admin"))
	assert.Contains(t, h.api.messages()[0].Text, i18n.MsgNoData)
}

func TestAdminTeamEmails(t *testing.T) {
	h := newHarness(t)
	h.bot.HandleUpdate(context.Background(), callback(adminID, "admin_team|X"))
	assert.Equal(t, fmt.Sprintf(i18n.MsgNoTeamEmails, "X"), h.api.messages()[0].Text)

	h = newHarness(t)
	h.admin.emails = []string{"a@x.io", "b@x.io"}
	h.bot.HandleUpdate(context.Background(), callback(adminID, "admin_team|X"))
	assert.Contains(t, h.api.messages()[0].Text, "a@x.io\nb@x.io")
}

func TestAdminTeamEmails_Chunked(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 300; i++ {
		h.admin.emails = append(h.admin.emails, fmt.Sprintf("member%03d@example.com", i))
	}

	h.bot.HandleUpdate(context.Background(), callback(adminID, "admin_team|X"))

	sent := h.api.messages()
	require.Greater(t, len(sent), 1)

	var total int
	for _, m := range sent {
		assert.LessOrEqual(t, len(m.Text), maxChunk)
		assert.True(t, strings.HasPrefix(m.Text, "Emails for team X:\n"))
		total += strings.Count(m.Text, "@example.com")
	}
	assert.Equal(t, 300, total)
}

func TestAdminUsers_Chunked(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 200; i++ {
		h.admin.users = append(h.admin.users, &models.Profile{
			ID:          int64(1000 + i),
			DisplayName: strings.Repeat("n", 20),
			Email:       fmt.Sprintf("user%d@example.com", i),
		})
	}

	h.bot.HandleUpdate(context.Background(), command(adminID, "admin_users"))

	sent := h.api.messages()
	require.Greater(t, len(sent), 2)
	assert.Equal(t, i18n.MsgUsersHeader, sent[0].Text)

	lines := 0
	for _, m := range sent[1:] {
		assert.LessOrEqual(t, len(m.Text), maxChunk)
		lines += strings.Count(m.Text, "\n") + 1
	}
	assert.Equal(t, 200, lines)
	assert.Contains(t, sent[1].Text, "(1000) | team not set | user0@example.com | not available | ⚠️ not shared")
}

func TestAdminUsers_Empty(t *testing.T) {
	h := newHarness(t)
	h.bot.HandleUpdate(context.Background(), command(adminID, "admin_users"))
	assert.Equal(t, i18n.MsgNoUsers, h.api.messages()[0].Text)
}

func TestAdminBroadcast(t *testing.T) {
	h := newHarness(t)
	h.admin.report = admin.Report{Total: 3, Sent: 2}

	h.bot.HandleUpdate(context.Background(), command(adminID, "broadcast_start"))
	assert.Equal(t, "bot is up", h.admin.notice)
	assert.Equal(t, fmt.Sprintf(i18n.MsgBroadcastDone, 2, 3), h.api.messages()[0].Text)

	h = newHarness(t)
	h.bot.HandleUpdate(context.Background(), command(adminID, "broadcast_start"))
	assert.Equal(t, i18n.MsgNoUsersToNotify, h.api.messages()[0].Text)
}

func TestAdminExport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ok", nil, fmt.Sprintf(i18n.MsgExportDone, "exports/users/k.csv", 3)},
		{"disabled", admin.ErrExportDisabled, i18n.MsgExportDisabled},
		{"failed", errors.New("s3 put error"), i18n.MsgExportFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.admin.exportErr = tt.err
			h.bot.HandleUpdate(context.Background(), command(adminID, "export"))
			assert.Equal(t, tt.want, h.api.messages()[0].Text)
		})
	}
}

func TestChunkLines(t *testing.T) {
	assert.Nil(t, chunkLines(nil, 10))
	assert.Equal(t, []string{"aaa\nbbb", "ccc"}, chunkLines([]string{"aaa", "bbb", "ccc"}, 7))
	assert.Equal(t, []string{"toolongline", "x"}, chunkLines([]string{"toolongline", "x"}, 5))
}
