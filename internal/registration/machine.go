// Package registration sequences the onboarding flow (phone, team, email)
// for each user and turns a completed flow into a Drive grant.
package registration

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/driveaccess/internal/common"
	"github.com/dmitrijs2005/driveaccess/internal/drive"
	"github.com/dmitrijs2005/driveaccess/internal/i18n"
	"github.com/dmitrijs2005/driveaccess/internal/logging"
	"github.com/dmitrijs2005/driveaccess/internal/server/models"
	"github.com/dmitrijs2005/driveaccess/internal/session"
)

// ProfileStore is the part of the profile repository the machine writes to.
type ProfileStore interface {
	UpsertIdentity(ctx context.Context, id int64, displayName, handle, phone string) error
	SetTeam(ctx context.Context, id int64, team string) error
	SetEmail(ctx context.Context, id int64, email string) error
	RecordGrant(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Profile, error)
}

type Granter interface {
	GrantAccess(ctx context.Context, team, email string) (string, error)
	FolderURL(team string) (string, error)
}

type Config struct {
	Teams       []string
	PhoneRegion string
}

type Machine struct {
	profiles ProfileStore
	granter  Granter
	sessions *session.Store
	tr       *i18n.Translator
	logger   logging.Logger

	teams       []string
	teamValues  []any
	phoneRegion string
}

func NewMachine(cfg Config, profiles ProfileStore, granter Granter, sessions *session.Store, tr *i18n.Translator, logger logging.Logger) *Machine {
	teams := append([]string(nil), cfg.Teams...)
	values := make([]any, len(teams))
	for i, t := range teams {
		values[i] = t
	}

	return &Machine{
		profiles:    profiles,
		granter:     granter,
		sessions:    sessions,
		tr:          tr,
		logger:      logger.With("module", "registration"),
		teams:       teams,
		teamValues:  values,
		phoneRegion: cfg.PhoneRegion,
	}
}

// Handle advances the user's flow by one event. Events of one user are
// processed one at a time. A non-nil error means an unexpected failure
// (storage, cancelled context); the Result still carries a message for the
// user when one could be produced.
func (m *Machine) Handle(ctx context.Context, ev Event) (Result, error) {
	var res Result
	err := m.sessions.Do(ctx, ev.UserID, func(s *session.Session) error {
		var err error
		res, err = m.step(ctx, s, ev)
		res.State = s.State
		return err
	})
	if err != nil {
		m.logger.Error(ctx, "registration step failed",
			"user_id", ev.UserID,
			"event", ev.Kind.String(),
			"state", res.State.String(),
			"error", err,
		)
	}
	return res, err
}

// State returns the user's current state.
func (m *Machine) State(userID int64) session.State {
	return m.sessions.Get(userID).State
}

func (m *Machine) step(ctx context.Context, s *session.Session, ev Event) (Result, error) {
	if ev.Kind == Start {
		return m.start(ctx, s, ev)
	}

	switch s.State {
	case session.AwaitingPhone:
		return m.phone(ctx, s, ev)
	case session.AwaitingTeam:
		return m.team(ctx, s, ev)
	case session.AwaitingEmail:
		return m.email(ctx, s, ev)
	default:
		return m.idle(ctx, s, ev)
	}
}

func (m *Machine) start(ctx context.Context, s *session.Session, ev Event) (Result, error) {
	p, err := m.profiles.Get(ctx, ev.UserID)
	switch {
	case err == nil && p.Phone != "":
		s.State = session.AwaitingTeam
		return m.prompt(m.tr.T(i18n.MsgWelcomeBack)+"\n\n"+m.tr.T(i18n.MsgAccessInstructions), Data{Keyboard: KeyboardTeams, Teams: m.teams}), nil
	case err == nil, errors.Is(err, common.ErrorNotFound):
		s.State = session.AwaitingPhone
		return m.prompt(m.tr.T(i18n.MsgWelcome), Data{Keyboard: KeyboardContact}), nil
	default:
		s.State = session.Idle
		return m.failure(i18n.MsgUnexpected), err
	}
}

func (m *Machine) phone(ctx context.Context, s *session.Session, ev Event) (Result, error) {
	raw := strings.TrimSpace(ev.Payload)
	if ev.Kind != PhoneShared || raw == "" {
		return m.rejected(i18n.MsgSharePhone, Data{Keyboard: KeyboardContact}), nil
	}

	phone := normalizePhone(raw, m.phoneRegion)
	if err := m.profiles.UpsertIdentity(ctx, ev.UserID, ev.DisplayName, ev.Handle, phone); err != nil {
		return m.failure(i18n.MsgUnexpected), err
	}

	s.State = session.AwaitingTeam
	return m.prompt(m.tr.T(i18n.MsgChooseTeam), Data{Keyboard: KeyboardTeams, Teams: m.teams}), nil
}

func (m *Machine) team(ctx context.Context, s *session.Session, ev Event) (Result, error) {
	if ev.Kind != TeamChosen {
		return m.rejected(i18n.MsgChooseTeamHint, Data{Keyboard: KeyboardTeams, Teams: m.teams}), nil
	}
	if err := validateTeam(ev.Payload, m.teamValues); err != nil {
		m.logger.Debug(ctx, "team rejected", "user_id", ev.UserID, "error", err)
		return m.rejected(i18n.MsgUnknownTeam, Data{Keyboard: KeyboardTeams, Teams: m.teams}), nil
	}

	err := m.profiles.SetTeam(ctx, ev.UserID, ev.Payload)
	if errors.Is(err, common.ErrorNotFound) {
		s.State = session.Idle
		return m.failure(i18n.MsgProfileMissing), nil
	}
	if err != nil {
		return m.failure(i18n.MsgUnexpected), err
	}

	s.State = session.AwaitingEmail
	return m.prompt(m.tr.T(i18n.MsgSendEmail), Data{Keyboard: KeyboardRemove, Team: ev.Payload}), nil
}

func (m *Machine) email(ctx context.Context, s *session.Session, ev Event) (Result, error) {
	email := strings.TrimSpace(ev.Payload)
	if ev.Kind != TextReceived || validateEmail(email) != nil {
		return m.rejected(i18n.MsgInvalidEmail, Data{}), nil
	}
	return m.submitEmail(ctx, s, ev.UserID, email, true, ev.Progress)
}

// idle handles input outside an active flow. A valid email from a user who
// already picked a team re-runs the email step.
func (m *Machine) idle(ctx context.Context, s *session.Session, ev Event) (Result, error) {
	email := strings.TrimSpace(ev.Payload)
	if ev.Kind != TextReceived || validateEmail(email) != nil {
		return m.prompt(m.tr.T(i18n.MsgSendStart), Data{}), nil
	}

	p, err := m.profiles.Get(ctx, ev.UserID)
	if errors.Is(err, common.ErrorNotFound) || (err == nil && p.Team == "") {
		return m.prompt(m.tr.T(i18n.MsgSendStart), Data{}), nil
	}
	if err != nil {
		return m.failure(i18n.MsgUnexpected), err
	}

	return m.submitEmail(ctx, s, ev.UserID, email, false, ev.Progress)
}

// submitEmail records the email and grants access. The session ends Idle
// whatever happens. Unless regrant is set, an email that is already granted
// is answered without a remote call; the flow started with /start always
// re-runs the grant.
func (m *Machine) submitEmail(ctx context.Context, s *session.Session, userID int64, email string, regrant bool, progress func(string)) (Result, error) {
	s.State = session.Idle

	p, err := m.profiles.Get(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		return m.failure(i18n.MsgProfileMissing), nil
	}
	if err != nil {
		return m.failure(i18n.MsgUnexpected), err
	}
	if p.Team == "" {
		return m.failure(i18n.MsgTeamMissing), nil
	}

	if !regrant && p.Email == email && p.Granted() {
		m.logger.Info(ctx, "email already granted", "user_id", userID, "team", p.Team)
		res := m.granted(p.Team, "")
		res.Message = m.tr.T(i18n.MsgAlreadyGranted, email, p.Team)
		return res, nil
	}

	err = m.profiles.SetEmail(ctx, userID, email)
	if errors.Is(err, common.ErrorNotFound) {
		return m.failure(i18n.MsgProfileMissing), nil
	}
	if err != nil {
		return m.failure(i18n.MsgUnexpected), err
	}

	if progress != nil {
		progress(m.tr.T(i18n.MsgGranting))
	}

	folderID, err := m.granter.GrantAccess(ctx, p.Team, email)
	if err != nil {
		var gf *drive.GrantFailure
		if errors.As(err, &gf) {
			m.logger.Warn(ctx, "grant failed", "user_id", userID, "team", p.Team, "kind", gf.Kind.String(), "attempts", gf.Attempts)
			return m.failure(gf.UserMessage), nil
		}
		m.logger.Error(ctx, "grant failed unexpectedly", "user_id", userID, "team", p.Team, "error", err)
		return m.failure(i18n.MsgUnexpected), nil
	}

	if err := m.profiles.RecordGrant(ctx, userID); err != nil {
		return m.failure(i18n.MsgUnexpected), err
	}

	m.logger.Info(ctx, "access granted", "user_id", userID, "team", p.Team, "folder_id", folderID)
	return m.granted(p.Team, folderID), nil
}

func (m *Machine) granted(team, folderID string) Result {
	url, err := m.granter.FolderURL(team)
	if err != nil {
		url = ""
	}
	return Result{
		Outcome: OutcomeSuccess,
		Message: m.tr.T(i18n.MsgGranted, team),
		Data: Data{
			Keyboard:  KeyboardFolder,
			Team:      team,
			FolderID:  folderID,
			FolderURL: url,
		},
	}
}

func (m *Machine) prompt(msg string, data Data) Result {
	return Result{Outcome: OutcomePrompt, Message: msg, Data: data}
}

func (m *Machine) rejected(key string, data Data) Result {
	return Result{Outcome: OutcomeRejected, Message: m.tr.T(key), Data: data}
}

func (m *Machine) failure(key string) Result {
	return Result{Outcome: OutcomeFailure, Message: m.tr.T(key)}
}
