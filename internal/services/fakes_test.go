package services

import (
	"errors"
	"sync"

	"visaflow_backend/internal/email"
	"visaflow_backend/internal/models"
	"visaflow_backend/internal/push"
	"visaflow_backend/internal/realtime"
	"visaflow_backend/internal/repositories"
	"visaflow_backend/internal/services/dto"

	"github.com/google/uuid"
)

// In-memory stand-ins for the GORM repositories and outbound providers.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if _, err := r.FindByEmail(user.Email); err == nil {
		return repositories.ErrUserAlreadyExists
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateStatus(userID string, status models.UserStatus) error {
	u, err := r.FindByID(userID)
	if err != nil {
		return err
	}
	u.Status = status
	return nil
}

func (r *fakeUserRepo) VerifyUser(userID string) error {
	u, err := r.FindByID(userID)
	if err != nil {
		return err
	}
	u.IsVerified = true
	u.VerificationToken = ""
	return nil
}

func (r *fakeUserRepo) Delete(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) FindByVerificationToken(token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if token != "" && u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByResetToken(token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if token != "" && u.ResetToken == token {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) CountByRole(role models.UserRole) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) FindAll(limit, offset int) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

type fakeCaseRepo struct {
	mu      sync.Mutex
	cases   map[string]*models.Case
	history map[string][]models.StatusHistory
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{
		cases:   make(map[string]*models.Case),
		history: make(map[string][]models.StatusHistory),
	}
}

func (r *fakeCaseRepo) Create(c *models.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.cases[c.ID] = c
	return nil
}

func (r *fakeCaseRepo) FindByID(id string) (*models.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cases[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, repositories.ErrCaseNotFound
}

func (r *fakeCaseRepo) FindWithFilter(filter repositories.CaseFilter) ([]models.Case, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Case
	for _, c := range r.cases {
		if filter.ClientID != "" && c.ClientID != filter.ClientID {
			continue
		}
		if filter.AgentID != "" && (c.AgentID == nil || *c.AgentID != filter.AgentID) {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCaseRepo) AssignAgent(caseID, agentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[caseID]
	if !ok {
		return repositories.ErrCaseNotFound
	}
	c.AgentID = &agentID
	return nil
}

func (r *fakeCaseRepo) UpdateStatusWithHistory(caseID string, status models.CaseStatus, history *models.StatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[caseID]
	if !ok {
		return repositories.ErrCaseNotFound
	}
	c.Status = status
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	r.history[caseID] = append(r.history[caseID], *history)
	return nil
}

func (r *fakeCaseRepo) FindHistory(caseID string) ([]models.StatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history[caseID], nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*models.Notification
	createErr     error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[string]*models.Notification)}
}

func (r *fakeNotificationRepo) Create(n *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	r.notifications[n.ID] = n
	return nil
}

func (r *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notifications[id]; ok {
		return n, nil
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) FindUserNotifications(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if criteria.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) MarkAsRead(id string) error {
	n, err := r.FindByID(id)
	if err != nil {
		return err
	}
	n.IsRead = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notifications, id)
	return nil
}

func (r *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) CleanOld(olderThanDays int) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) forUser(userID string) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeDeviceTokenRepo struct {
	mu     sync.Mutex
	tokens map[string][]models.DeviceToken
}

func newFakeDeviceTokenRepo() *fakeDeviceTokenRepo {
	return &fakeDeviceTokenRepo{tokens: make(map[string][]models.DeviceToken)}
}

func (r *fakeDeviceTokenRepo) Upsert(token *models.DeviceToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	r.tokens[token.UserID] = append(r.tokens[token.UserID], *token)
	return nil
}

func (r *fakeDeviceTokenRepo) FindByUserID(userID string) ([]models.DeviceToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[userID], nil
}

func (r *fakeDeviceTokenRepo) DeleteByToken(userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tokens[userID][:0]
	for _, t := range r.tokens[userID] {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	r.tokens[userID] = kept
	return nil
}

func (r *fakeDeviceTokenRepo) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeRefreshTokenRepo) FindByToken(token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		return t, nil
	}
	return nil, repositories.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) DeleteByToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired() (int64, error) {
	return 0, nil
}

func (r *fakeRefreshTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]*models.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*models.Document)}
}

func (r *fakeDocumentRepo) Create(doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocumentRepo) FindByID(id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok {
		return d, nil
	}
	return nil, repositories.ErrDocumentNotFound
}

func (r *fakeDocumentRepo) FindByCaseID(caseID string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, d := range r.docs {
		if d.CaseID == caseID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) UpdateStatus(id string, status models.DocumentStatus, note string) error {
	d, err := r.FindByID(id)
	if err != nil {
		return err
	}
	d.Status = status
	d.ReviewNote = note
	return nil
}

func (r *fakeDocumentRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

// ---------------- Outbound providers ----------------

type pushCall struct {
	tokens  []string
	payload push.Payload
}

type fakePushProvider struct {
	mu    sync.Mutex
	calls []pushCall
	err   error
}

func (p *fakePushProvider) Send(tokens []string, payload push.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pushCall{tokens: tokens, payload: payload})
	return p.err
}

func (p *fakePushProvider) sent() []pushCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pushCall(nil), p.calls...)
}

type publishedEvent struct {
	userID string
	event  any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(userID string, event any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userID: userID, event: event})
}

func (p *fakePublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type sentEmail struct {
	kind  string
	to    string
	token string
}

type fakeEmailProvider struct {
	mu     sync.Mutex
	emails []sentEmail
}

func (p *fakeEmailProvider) Send(e *email.Email) error { return nil }

func (p *fakeEmailProvider) SendVerification(to, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emails = append(p.emails, sentEmail{kind: "verification", to: to, token: token})
	return nil
}

func (p *fakeEmailProvider) SendPasswordReset(to, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emails = append(p.emails, sentEmail{kind: "password_reset", to: to, token: token})
	return nil
}

func (p *fakeEmailProvider) Close() error { return nil }

func (p *fakeEmailProvider) sent() []sentEmail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentEmail(nil), p.emails...)
}

type realtimeCall struct {
	op           string
	invitationID string
	actorUID     string
}

type fakeRealtimeClient struct {
	mu            sync.Mutex
	calls         []realtimeCall
	provisionErr  error
	transitionErr error
}

func (c *fakeRealtimeClient) ProvisionIdentity(userID, displayName string) (string, error) {
	if c.provisionErr != nil {
		return "", c.provisionErr
	}
	return "rt-" + userID, nil
}

func (c *fakeRealtimeClient) CreateInvitation(input realtime.CreateInvitationInput) (*models.CallInvitation, error) {
	if c.transitionErr != nil {
		return nil, c.transitionErr
	}
	c.record("create", "", input.CallerUID)
	return &models.CallInvitation{
		ID:           uuid.NewString(),
		CallerUID:    input.CallerUID,
		RecipientUID: input.RecipientUID,
		RoomID:       input.RoomID,
		Mode:         input.Mode,
		Status:       models.CallStatusPending,
	}, nil
}

func (c *fakeRealtimeClient) AcceptInvitation(invitationID, actorUID string) (*models.CallInvitation, error) {
	return c.transition("accept", invitationID, actorUID, models.CallStatusAccepted)
}

func (c *fakeRealtimeClient) RejectInvitation(invitationID, actorUID string) (*models.CallInvitation, error) {
	return c.transition("reject", invitationID, actorUID, models.CallStatusRejected)
}

func (c *fakeRealtimeClient) CancelInvitation(invitationID, actorUID string) (*models.CallInvitation, error) {
	return c.transition("cancel", invitationID, actorUID, models.CallStatusCancelled)
}

func (c *fakeRealtimeClient) EndInvitation(invitationID, actorUID string) (*models.CallInvitation, error) {
	return c.transition("end", invitationID, actorUID, models.CallStatusEnded)
}

func (c *fakeRealtimeClient) transition(op, invitationID, actorUID string, status models.CallStatus) (*models.CallInvitation, error) {
	if c.transitionErr != nil {
		return nil, c.transitionErr
	}
	c.record(op, invitationID, actorUID)
	return &models.CallInvitation{ID: invitationID, Status: status}, nil
}

func (c *fakeRealtimeClient) record(op, invitationID, actorUID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, realtimeCall{op: op, invitationID: invitationID, actorUID: actorUID})
}

func (c *fakeRealtimeClient) recorded() []realtimeCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]realtimeCall(nil), c.calls...)
}

// recordingNotifier captures Dispatch calls for services that fan out.
type recordingNotifier struct {
	NotificationService
	mu     sync.Mutex
	events []dispatchedEvent
}

type dispatchedEvent struct {
	recipientID string
	event       dto.NotificationEvent
}

func (n *recordingNotifier) Dispatch(recipientID string, event dto.NotificationEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, dispatchedEvent{recipientID: recipientID, event: event})
}

func (n *recordingNotifier) dispatched() []dispatchedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]dispatchedEvent(nil), n.events...)
}

var errBoom = errors.New("boom")
