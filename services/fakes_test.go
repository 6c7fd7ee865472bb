package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/iqasport/referee-hub-sub000/repositories"
)

// fixture is a shared in-memory store behind fake repository
// implementations. It enforces the same uniqueness rules the database
// constraints do, so conflict paths behave like production.
type fixture struct {
	nextID int

	users        map[int]*models.User
	ngbs         map[int]*models.NationalGoverningBody
	ngbAdmins    map[int]map[int]bool
	teams        map[int]*models.Team
	teamMembers  map[int]map[int]bool
	teamManagers map[int]map[int]bool

	tournaments        map[int]*models.Tournament
	tournamentManagers map[int]map[int]bool
	invites            map[int]*models.TournamentInvite
	participants       map[int]*models.TournamentTeamParticipant
	rosters            map[int][]*models.TournamentTeamRosterEntry
	delicate           map[int]*models.UserDelicateInfo
	certs              map[int][]models.CertificationLevel
}

func newFixture() *fixture {
	return &fixture{
		users:              map[int]*models.User{},
		ngbs:               map[int]*models.NationalGoverningBody{},
		ngbAdmins:          map[int]map[int]bool{},
		teams:              map[int]*models.Team{},
		teamMembers:        map[int]map[int]bool{},
		teamManagers:       map[int]map[int]bool{},
		tournaments:        map[int]*models.Tournament{},
		tournamentManagers: map[int]map[int]bool{},
		invites:            map[int]*models.TournamentInvite{},
		participants:       map[int]*models.TournamentTeamParticipant{},
		rosters:            map[int][]*models.TournamentTeamRosterEntry{},
		delicate:           map[int]*models.UserDelicateInfo{},
		certs:              map[int][]models.CertificationLevel{},
	}
}

func (f *fixture) id() int {
	f.nextID++
	return f.nextID
}

func (f *fixture) addUser(email string) *models.User {
	u := &models.User{ID: f.id(), FirstName: "User", Email: email, CreatedAt: time.Now()}
	f.users[u.ID] = u
	return u
}

func (f *fixture) addNGB(name string) *models.NationalGoverningBody {
	n := &models.NationalGoverningBody{ID: f.id(), Name: name}
	f.ngbs[n.ID] = n
	f.ngbAdmins[n.ID] = map[int]bool{}
	return n
}

func (f *fixture) addTeam(ngbID int, name string) *models.Team {
	t := &models.Team{ID: f.id(), NGBID: ngbID, Name: name}
	f.teams[t.ID] = t
	f.teamMembers[t.ID] = map[int]bool{}
	f.teamManagers[t.ID] = map[int]bool{}
	return t
}

func (f *fixture) addTournament(name string, end time.Time, private bool) *models.Tournament {
	t := &models.Tournament{
		ID:        f.id(),
		Name:      name,
		StartDate: end.Add(-48 * time.Hour),
		EndDate:   end,
		IsPrivate: private,
	}
	f.tournaments[t.ID] = t
	f.tournamentManagers[t.ID] = map[int]bool{}
	return t
}

func (f *fixture) liveInvite(tournamentID, teamID int) *models.TournamentInvite {
	for _, i := range f.invites {
		if i.TournamentID == tournamentID && i.TeamID == teamID &&
			i.TournamentManagerApproval != models.ApprovalRejected &&
			i.ParticipantApproval != models.ApprovalRejected {
			return i
		}
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- user repository ---

type fakeUserRepo struct{ f *fixture }

func (r *fakeUserRepo) Create(_ context.Context, _ repositories.SQLExecutor, user *models.User) error {
	for _, u := range r.f.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.f.id()
	cp := *user
	r.f.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ListByIDs(_ context.Context, ids []int) ([]*models.User, error) {
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.f.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateAvatarKey(_ context.Context, id int, avatarKey *string) error {
	u, ok := r.f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.AvatarKey = avatarKey
	return nil
}

// --- NGB repository ---

type fakeNGBRepo struct{ f *fixture }

func (r *fakeNGBRepo) GetByID(_ context.Context, id int) (*models.NationalGoverningBody, error) {
	n, ok := r.f.ngbs[id]
	if !ok {
		return nil, repositories.ErrNGBNotFound
	}
	return n, nil
}

func (r *fakeNGBRepo) IsAdmin(_ context.Context, ngbID, userID int) (bool, error) {
	return r.f.ngbAdmins[ngbID][userID], nil
}

func (r *fakeNGBRepo) ListAdminNGBIDs(_ context.Context, userID int) ([]int, error) {
	var out []int
	for ngbID, admins := range r.f.ngbAdmins {
		if admins[userID] {
			out = append(out, ngbID)
		}
	}
	sort.Ints(out)
	return out, nil
}

// --- team repository ---

type fakeTeamRepo struct{ f *fixture }

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeamRepo) ListMemberIDs(_ context.Context, teamID int) ([]int, error) {
	var out []int
	for id := range r.f.teamMembers[teamID] {
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

func (r *fakeTeamRepo) ListMembers(ctx context.Context, teamID int) ([]*models.User, error) {
	ids, _ := r.ListMemberIDs(ctx, teamID)
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.f.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) MemberIDSet(_ context.Context, _ repositories.SQLExecutor, teamID int, userIDs []int) (map[int]bool, error) {
	out := make(map[int]bool, len(userIDs))
	for _, id := range userIDs {
		if r.f.teamMembers[teamID][id] {
			out[id] = true
		}
	}
	return out, nil
}

// --- tournament repository ---

type fakeTournamentRepo struct{ f *fixture }

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	for _, existing := range r.f.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = r.f.id()
	r.f.tournaments[t.ID] = t
	r.f.tournamentManagers[t.ID] = map[int]bool{}
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	if _, ok := r.f.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	for _, existing := range r.f.tournaments {
		if existing.ID != t.ID && existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	cp := *t
	r.f.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) ListPublic(_ context.Context) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range r.f.tournaments {
		if !t.IsPrivate {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.f.tournaments[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.f.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.f.tournaments, id)
	return nil
}

// --- manager repositories ---

type fakeTournamentManagerRepo struct{ f *fixture }

func (r *fakeTournamentManagerRepo) Add(_ context.Context, _ repositories.SQLExecutor, tm *models.TournamentManager) error {
	set, ok := r.f.tournamentManagers[tm.TournamentID]
	if !ok {
		return repositories.ErrManagerUserInvalid
	}
	set[tm.UserID] = true
	return nil
}

func (r *fakeTournamentManagerRepo) Remove(_ context.Context, tournamentID, userID int) error {
	if !r.f.tournamentManagers[tournamentID][userID] {
		return repositories.ErrManagerRelationNotFound
	}
	delete(r.f.tournamentManagers[tournamentID], userID)
	return nil
}

func (r *fakeTournamentManagerRepo) List(_ context.Context, tournamentID int) ([]*models.TournamentManager, error) {
	var out []*models.TournamentManager
	for userID := range r.f.tournamentManagers[tournamentID] {
		tm := &models.TournamentManager{TournamentID: tournamentID, UserID: userID}
		if u, ok := r.f.users[userID]; ok {
			cp := *u
			tm.User = &cp
		}
		out = append(out, tm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeTournamentManagerRepo) Count(_ context.Context, tournamentID int) (int, error) {
	return len(r.f.tournamentManagers[tournamentID]), nil
}

func (r *fakeTournamentManagerRepo) IsManager(_ context.Context, tournamentID, userID int) (bool, error) {
	return r.f.tournamentManagers[tournamentID][userID], nil
}

func (r *fakeTournamentManagerRepo) ListManagedTournamentIDs(_ context.Context, userID int) ([]int, error) {
	var out []int
	for tournamentID, set := range r.f.tournamentManagers {
		if set[userID] {
			out = append(out, tournamentID)
		}
	}
	sort.Ints(out)
	return out, nil
}

type fakeTeamManagerRepo struct{ f *fixture }

func (r *fakeTeamManagerRepo) Add(_ context.Context, _ repositories.SQLExecutor, tm *models.TeamManager) error {
	set, ok := r.f.teamManagers[tm.TeamID]
	if !ok {
		return repositories.ErrManagerUserInvalid
	}
	set[tm.UserID] = true
	return nil
}

func (r *fakeTeamManagerRepo) Remove(_ context.Context, teamID, userID int) error {
	if !r.f.teamManagers[teamID][userID] {
		return repositories.ErrManagerRelationNotFound
	}
	delete(r.f.teamManagers[teamID], userID)
	return nil
}

func (r *fakeTeamManagerRepo) List(_ context.Context, teamID int) ([]*models.TeamManager, error) {
	var out []*models.TeamManager
	for userID := range r.f.teamManagers[teamID] {
		tm := &models.TeamManager{TeamID: teamID, UserID: userID}
		if u, ok := r.f.users[userID]; ok {
			cp := *u
			tm.User = &cp
		}
		out = append(out, tm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeTeamManagerRepo) IsManager(_ context.Context, teamID, userID int) (bool, error) {
	return r.f.teamManagers[teamID][userID], nil
}

func (r *fakeTeamManagerRepo) ListManagedTeamIDs(_ context.Context, userID int) ([]int, error) {
	var out []int
	for teamID, set := range r.f.teamManagers {
		if set[userID] {
			out = append(out, teamID)
		}
	}
	sort.Ints(out)
	return out, nil
}

// --- invite repository ---

type fakeInviteRepo struct{ f *fixture }

func (r *fakeInviteRepo) Create(_ context.Context, _ repositories.SQLExecutor, invite *models.TournamentInvite) error {
	if _, ok := r.f.tournaments[invite.TournamentID]; !ok {
		return repositories.ErrInviteTournamentInvalid
	}
	if _, ok := r.f.teams[invite.TeamID]; !ok {
		return repositories.ErrInviteTeamInvalid
	}
	if r.f.liveInvite(invite.TournamentID, invite.TeamID) != nil {
		return repositories.ErrInviteConflict
	}
	invite.ID = r.f.id()
	invite.CreatedAt = time.Now()
	cp := *invite
	r.f.invites[invite.ID] = &cp
	return nil
}

func (r *fakeInviteRepo) GetByID(_ context.Context, id int) (*models.TournamentInvite, error) {
	i, ok := r.f.invites[id]
	if !ok {
		return nil, repositories.ErrInviteNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *fakeInviteRepo) GetLiveByTournamentAndTeam(_ context.Context, _ repositories.SQLExecutor, tournamentID, teamID int) (*models.TournamentInvite, error) {
	if i := r.f.liveInvite(tournamentID, teamID); i != nil {
		cp := *i
		return &cp, nil
	}
	return nil, repositories.ErrInviteNotFound
}

func (r *fakeInviteRepo) SetTournamentManagerApproval(_ context.Context, _ repositories.SQLExecutor, id int, status models.ApprovalStatus) error {
	i, ok := r.f.invites[id]
	if !ok {
		return repositories.ErrInviteNotFound
	}
	now := time.Now()
	i.TournamentManagerApproval = status
	i.TournamentManagerApprovedAt = &now
	return nil
}

func (r *fakeInviteRepo) SetParticipantApproval(_ context.Context, _ repositories.SQLExecutor, id int, status models.ApprovalStatus) error {
	i, ok := r.f.invites[id]
	if !ok {
		return repositories.ErrInviteNotFound
	}
	now := time.Now()
	i.ParticipantApproval = status
	i.ParticipantApprovedAt = &now
	return nil
}

func (r *fakeInviteRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.TournamentInvite, error) {
	var out []*models.TournamentInvite
	for _, i := range r.f.invites {
		if i.TournamentID == tournamentID {
			cp := *i
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeInviteRepo) ListByTournamentAndTeams(_ context.Context, tournamentID int, teamIDs []int) ([]*models.TournamentInvite, error) {
	wanted := make(map[int]bool, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = true
	}
	var out []*models.TournamentInvite
	for _, i := range r.f.invites {
		if i.TournamentID == tournamentID && wanted[i.TeamID] {
			cp := *i
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeInviteRepo) ListByTeam(_ context.Context, teamID int) ([]*models.TournamentInvite, error) {
	var out []*models.TournamentInvite
	for _, i := range r.f.invites {
		if i.TeamID == teamID {
			cp := *i
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- participant repository ---

type fakeParticipantRepo struct{ f *fixture }

func (r *fakeParticipantRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.TournamentTeamParticipant) error {
	for _, existing := range r.f.participants {
		if existing.TournamentID == p.TournamentID && existing.TeamID == p.TeamID {
			return repositories.ErrParticipantConflict
		}
	}
	p.ID = r.f.id()
	p.CreatedAt = time.Now()
	cp := *p
	r.f.participants[p.ID] = &cp
	return nil
}

func (r *fakeParticipantRepo) GetByID(_ context.Context, id int) (*models.TournamentTeamParticipant, error) {
	p, ok := r.f.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeParticipantRepo) GetByTournamentAndTeam(_ context.Context, tournamentID, teamID int) (*models.TournamentTeamParticipant, error) {
	for _, p := range r.f.participants {
		if p.TournamentID == tournamentID && p.TeamID == teamID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.TournamentTeamParticipant, error) {
	var out []*models.TournamentTeamParticipant
	for _, p := range r.f.participants {
		if p.TournamentID == tournamentID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeParticipantRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.f.participants[id]; !ok {
		return repositories.ErrParticipantNotFound
	}
	delete(r.f.participants, id)
	delete(r.f.rosters, id)
	return nil
}

func (r *fakeParticipantRepo) ListTournamentIDsByRosterUser(_ context.Context, userID int) ([]int, error) {
	seen := map[int]bool{}
	var out []int
	for participantID, entries := range r.f.rosters {
		for _, e := range entries {
			if e.UserID != userID {
				continue
			}
			if p, ok := r.f.participants[participantID]; ok && !seen[p.TournamentID] {
				seen[p.TournamentID] = true
				out = append(out, p.TournamentID)
			}
		}
	}
	sort.Ints(out)
	return out, nil
}

// --- roster repository ---

type fakeRosterRepo struct{ f *fixture }

func (r *fakeRosterRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, entries []*models.TournamentTeamRosterEntry) error {
	seenNumbers := map[string]bool{}
	for _, e := range entries {
		if _, ok := r.f.users[e.UserID]; !ok {
			return repositories.ErrRosterUserInvalid
		}
		if e.Role == models.RosterRolePlayer {
			if e.JerseyNumber == nil {
				return repositories.ErrRosterNumberViolation
			}
			if seenNumbers[*e.JerseyNumber] {
				return repositories.ErrRosterJerseyConflict
			}
			seenNumbers[*e.JerseyNumber] = true
		}
	}
	for _, e := range entries {
		e.ID = r.f.id()
		cp := *e
		r.f.rosters[e.ParticipantID] = append(r.f.rosters[e.ParticipantID], &cp)
	}
	return nil
}

func (r *fakeRosterRepo) DeleteByParticipantID(_ context.Context, _ repositories.SQLExecutor, participantID int) error {
	delete(r.f.rosters, participantID)
	return nil
}

func (r *fakeRosterRepo) ListByParticipantID(_ context.Context, participantID int) ([]*models.TournamentTeamRosterEntry, error) {
	entries := r.f.rosters[participantID]
	out := make([]*models.TournamentTeamRosterEntry, 0, len(entries))
	for _, e := range entries {
		cp := *e
		if u, ok := r.f.users[e.UserID]; ok {
			ucp := *u
			cp.User = &ucp
		}
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRosterRepo) ListByParticipantIDs(ctx context.Context, participantIDs []int) (map[int][]*models.TournamentTeamRosterEntry, error) {
	out := make(map[int][]*models.TournamentTeamRosterEntry, len(participantIDs))
	for _, id := range participantIDs {
		entries, err := r.ListByParticipantID(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = entries
	}
	return out, nil
}

// --- delicate info repository ---

type fakeDelicateRepo struct{ f *fixture }

func (r *fakeDelicateRepo) GetByUserID(_ context.Context, userID int) (*models.UserDelicateInfo, error) {
	info, ok := r.f.delicate[userID]
	if !ok {
		return nil, repositories.ErrDelicateInfoNotFound
	}
	cp := *info
	return &cp, nil
}

func (r *fakeDelicateRepo) GetByUserIDs(_ context.Context, userIDs []int) (map[int]*models.UserDelicateInfo, error) {
	out := map[int]*models.UserDelicateInfo{}
	for _, id := range userIDs {
		if info, ok := r.f.delicate[id]; ok {
			cp := *info
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *fakeDelicateRepo) Upsert(_ context.Context, info *models.UserDelicateInfo) error {
	cp := *info
	r.f.delicate[info.UserID] = &cp
	return nil
}

func (r *fakeDelicateRepo) DeleteByUserID(_ context.Context, userID int) error {
	if _, ok := r.f.delicate[userID]; !ok {
		return repositories.ErrDelicateInfoNotFound
	}
	delete(r.f.delicate, userID)
	return nil
}

// --- certification repository ---

type fakeCertificationRepo struct{ f *fixture }

func (r *fakeCertificationRepo) AwardBatch(_ context.Context, userID int, levels []models.CertificationLevel) error {
	held := map[models.CertificationLevel]bool{}
	for _, l := range r.f.certs[userID] {
		held[l] = true
	}
	for _, l := range levels {
		if !held[l] {
			r.f.certs[userID] = append(r.f.certs[userID], l)
			held[l] = true
		}
	}
	return nil
}

func (r *fakeCertificationRepo) ListByUserID(_ context.Context, userID int) ([]*models.RefereeCertification, error) {
	var out []*models.RefereeCertification
	for i, l := range r.f.certs[userID] {
		out = append(out, &models.RefereeCertification{ID: i + 1, UserID: userID, Level: l})
	}
	return out, nil
}

func (r *fakeCertificationRepo) ListLevelsByUserIDs(_ context.Context, userIDs []int) (map[int][]models.CertificationLevel, error) {
	out := map[int][]models.CertificationLevel{}
	for _, id := range userIDs {
		if levels, ok := r.f.certs[id]; ok {
			out[id] = append([]models.CertificationLevel(nil), levels...)
		}
	}
	return out, nil
}

// --- assembled test environment ---

type testEnv struct {
	f *fixture

	userRepo              *fakeUserRepo
	ngbRepo               *fakeNGBRepo
	teamRepo              *fakeTeamRepo
	tournamentRepo        *fakeTournamentRepo
	tournamentManagerRepo *fakeTournamentManagerRepo
	teamManagerRepo       *fakeTeamManagerRepo
	inviteRepo            *fakeInviteRepo
	participantRepo       *fakeParticipantRepo
	rosterRepo            *fakeRosterRepo
	delicateRepo          *fakeDelicateRepo
	certRepo              *fakeCertificationRepo

	authz AuthorizationService
}

func newTestEnv() *testEnv {
	f := newFixture()
	env := &testEnv{
		f:                     f,
		userRepo:              &fakeUserRepo{f},
		ngbRepo:               &fakeNGBRepo{f},
		teamRepo:              &fakeTeamRepo{f},
		tournamentRepo:        &fakeTournamentRepo{f},
		tournamentManagerRepo: &fakeTournamentManagerRepo{f},
		teamManagerRepo:       &fakeTeamManagerRepo{f},
		inviteRepo:            &fakeInviteRepo{f},
		participantRepo:       &fakeParticipantRepo{f},
		rosterRepo:            &fakeRosterRepo{f},
		delicateRepo:          &fakeDelicateRepo{f},
		certRepo:              &fakeCertificationRepo{f},
	}
	env.authz = NewAuthorizationService(env.ngbRepo, env.teamRepo, env.teamManagerRepo, env.tournamentManagerRepo)
	return env
}

func (e *testEnv) inviteService(now time.Time) InviteService {
	svc := NewInviteService(nil, e.inviteRepo, e.tournamentRepo, e.teamRepo, e.participantRepo,
		e.tournamentManagerRepo, e.teamManagerRepo, e.authz, nil, nil, testLogger())
	svc.(*inviteService).now = func() time.Time { return now }
	return svc
}

func (e *testEnv) participantService(now time.Time) ParticipantService {
	svc := NewParticipantService(nil, e.participantRepo, e.rosterRepo, e.teamRepo, e.tournamentRepo,
		e.delicateRepo, e.certRepo, e.authz, nil, testLogger())
	svc.(*participantService).now = func() time.Time { return now }
	return svc
}

func (e *testEnv) managerService() ManagerService {
	return NewManagerService(e.userRepo, e.tournamentRepo, e.tournamentManagerRepo, e.teamManagerRepo, e.authz, testLogger())
}

func (e *testEnv) tournamentService() TournamentService {
	return NewTournamentService(nil, e.tournamentRepo, e.participantRepo, e.tournamentManagerRepo, e.authz, testLogger())
}
