package services

import (
	"testing"

	"visaflow_backend/internal/models"
	"visaflow_backend/internal/services/dto"
	"visaflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type caseFixture struct {
	svc      CaseService
	caseRepo *fakeCaseRepo
	userRepo *fakeUserRepo
	notifier *recordingNotifier

	client *models.User
	agent  *models.User
	admin  *models.User
}

func newCaseFixture(t *testing.T) *caseFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	caseRepo := newFakeCaseRepo()
	notifier := &recordingNotifier{}

	f := &caseFixture{
		svc:      NewCaseService(caseRepo, userRepo, notifier),
		caseRepo: caseRepo,
		userRepo: userRepo,
		notifier: notifier,
		client:   userRepo.add(&models.User{Email: "client@test.dev", Role: models.UserRoleClient}),
		agent:    userRepo.add(&models.User{Email: "agent@test.dev", Role: models.UserRoleAgent}),
		admin:    userRepo.add(&models.User{Email: "admin@test.dev", Role: models.UserRoleAdmin}),
	}
	return f
}

func (f *caseFixture) newCase(t *testing.T, status models.CaseStatus, agentID *string) *models.Case {
	t.Helper()
	c := &models.Case{
		Reference:   generateCaseReference(),
		ClientID:    f.client.ID,
		AgentID:     agentID,
		ServiceType: "work_visa",
		Title:       "Work visa application",
		Status:      status,
	}
	require.NoError(t, f.caseRepo.Create(c))
	return c
}

func TestCreateCaseRecordsInitialHistory(t *testing.T) {
	f := newCaseFixture(t)

	resp, err := f.svc.CreateCase(f.client.ID, &dto.CreateCaseRequest{
		ServiceType: "work_visa",
		Title:       "Work visa application",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusSubmitted, resp.Status)
	assert.NotEmpty(t, resp.Reference)

	history, err := f.caseRepo.FindHistory(resp.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.CaseStatusSubmitted, history[0].Status)
	assert.Equal(t, f.client.ID, history[0].ChangedBy)
}

func TestUpdateStatusByAssignedAgent(t *testing.T) {
	f := newCaseFixture(t)
	c := f.newCase(t, models.CaseStatusSubmitted, &f.agent.ID)

	resp, err := f.svc.UpdateStatus(f.agent.ID, c.ID, &dto.UpdateCaseStatusRequest{
		Status: string(models.CaseStatusUnderReview),
		Note:   "Initial screening",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusUnderReview, resp.Status)

	stored, err := f.caseRepo.FindByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusUnderReview, stored.Status)

	history, err := f.caseRepo.FindHistory(c.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.CaseStatusUnderReview, history[0].Status)
	assert.Equal(t, f.agent.ID, history[0].ChangedBy)
	assert.Equal(t, "Initial screening", history[0].Note)

	events := f.notifier.dispatched()
	require.Len(t, events, 1)
	assert.Equal(t, f.client.ID, events[0].recipientID)
	assert.Equal(t, models.NotificationTypeCaseStatus, events[0].event.Type)
	assert.Equal(t, string(models.CaseStatusUnderReview), events[0].event.Data["status"])
}

func TestUpdateStatusApprovedLockedForAgent(t *testing.T) {
	f := newCaseFixture(t)
	c := f.newCase(t, models.CaseStatusApproved, &f.agent.ID)

	_, err := f.svc.UpdateStatus(f.agent.ID, c.ID, &dto.UpdateCaseStatusRequest{
		Status: string(models.CaseStatusProcessing),
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Equal(t, apperrors.ErrCaseLocked.Code, appErr.Code)

	// Nothing was written.
	stored, err := f.caseRepo.FindByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusApproved, stored.Status)
	history, _ := f.caseRepo.FindHistory(c.ID)
	assert.Empty(t, history)
	assert.Empty(t, f.notifier.dispatched())
}

func TestUpdateStatusApprovedAllowsAdmin(t *testing.T) {
	f := newCaseFixture(t)
	c := f.newCase(t, models.CaseStatusApproved, &f.agent.ID)

	resp, err := f.svc.UpdateStatus(f.admin.ID, c.ID, &dto.UpdateCaseStatusRequest{
		Status: string(models.CaseStatusClosed),
	})
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusClosed, resp.Status)

	history, _ := f.caseRepo.FindHistory(c.ID)
	require.Len(t, history, 1)
	assert.Equal(t, f.admin.ID, history[0].ChangedBy)
}

func TestUpdateStatusRejectsUnassignedAgent(t *testing.T) {
	f := newCaseFixture(t)
	other := f.userRepo.add(&models.User{Email: "other@test.dev", Role: models.UserRoleAgent})
	c := f.newCase(t, models.CaseStatusSubmitted, &f.agent.ID)

	_, err := f.svc.UpdateStatus(other.ID, c.ID, &dto.UpdateCaseStatusRequest{
		Status: string(models.CaseStatusUnderReview),
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestUpdateStatusRejectsClient(t *testing.T) {
	f := newCaseFixture(t)
	c := f.newCase(t, models.CaseStatusSubmitted, &f.agent.ID)

	_, err := f.svc.UpdateStatus(f.client.ID, c.ID, &dto.UpdateCaseStatusRequest{
		Status: string(models.CaseStatusUnderReview),
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	f := newCaseFixture(t)
	c := f.newCase(t, models.CaseStatusSubmitted, &f.agent.ID)

	_, err := f.svc.UpdateStatus(f.agent.ID, c.ID, &dto.UpdateCaseStatusRequest{
		Status: "ON_HOLD",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestGetCaseAccessControl(t *testing.T) {
	f := newCaseFixture(t)
	stranger := f.userRepo.add(&models.User{Email: "stranger@test.dev", Role: models.UserRoleClient})
	c := f.newCase(t, models.CaseStatusSubmitted, &f.agent.ID)

	_, err := f.svc.GetCase(f.client.ID, c.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetCase(f.agent.ID, c.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetCase(f.admin.ID, c.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetCase(stranger.ID, c.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestListCasesScopedByRole(t *testing.T) {
	f := newCaseFixture(t)
	f.newCase(t, models.CaseStatusSubmitted, &f.agent.ID)
	f.newCase(t, models.CaseStatusProcessing, nil)

	otherClient := f.userRepo.add(&models.User{Email: "other-client@test.dev", Role: models.UserRoleClient})

	clientList, err := f.svc.ListCases(f.client.ID, dto.CaseCriteria{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), clientList.Total)

	agentList, err := f.svc.ListCases(f.agent.ID, dto.CaseCriteria{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), agentList.Total)

	otherList, err := f.svc.ListCases(otherClient.ID, dto.CaseCriteria{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), otherList.Total)
}

func TestAssignAgentRequiresAgentRole(t *testing.T) {
	f := newCaseFixture(t)
	c := f.newCase(t, models.CaseStatusSubmitted, nil)

	_, err := f.svc.AssignAgent(c.ID, &dto.AssignAgentRequest{AgentID: f.client.ID})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)

	resp, err := f.svc.AssignAgent(c.ID, &dto.AssignAgentRequest{AgentID: f.agent.ID})
	require.NoError(t, err)
	require.NotNil(t, resp.AgentID)
	assert.Equal(t, f.agent.ID, *resp.AgentID)

	events := f.notifier.dispatched()
	require.Len(t, events, 1)
	assert.Equal(t, f.client.ID, events[0].recipientID)
}
