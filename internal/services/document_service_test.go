package services

import (
	"testing"

	"visaflow_backend/internal/models"
	"visaflow_backend/internal/services/dto"
	"visaflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type documentFixture struct {
	svc          DocumentService
	documentRepo *fakeDocumentRepo
	caseRepo     *fakeCaseRepo
	userRepo     *fakeUserRepo
	notifier     *recordingNotifier

	client *models.User
	agent  *models.User
	kase   *models.Case
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	caseRepo := newFakeCaseRepo()
	documentRepo := newFakeDocumentRepo()
	notifier := &recordingNotifier{}

	client := userRepo.add(&models.User{Email: "client@test.dev", Role: models.UserRoleClient})
	agent := userRepo.add(&models.User{Email: "agent@test.dev", Role: models.UserRoleAgent})

	kase := &models.Case{
		Reference: "VF-20260831-TEST01",
		ClientID:  client.ID,
		AgentID:   &agent.ID,
		Status:    models.CaseStatusDocumentsRequired,
	}
	require.NoError(t, caseRepo.Create(kase))

	return &documentFixture{
		svc:          NewDocumentService(documentRepo, caseRepo, userRepo, notifier),
		documentRepo: documentRepo,
		caseRepo:     caseRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		client:       client,
		agent:        agent,
		kase:         kase,
	}
}

func (f *documentFixture) upload(t *testing.T) *dto.DocumentResponse {
	t.Helper()
	doc, err := f.svc.AddDocument(f.client.ID, f.kase.ID, &dto.CreateDocumentRequest{
		Name:    "passport.pdf",
		FileURL: "https://files.test.dev/passport.pdf",
	})
	require.NoError(t, err)
	return doc
}

func TestAddDocumentNotifiesAssignedAgent(t *testing.T) {
	f := newDocumentFixture(t)
	doc := f.upload(t)

	assert.Equal(t, models.DocumentStatusPending, doc.Status)

	events := f.notifier.dispatched()
	require.Len(t, events, 1)
	assert.Equal(t, f.agent.ID, events[0].recipientID)
	assert.Equal(t, models.NotificationTypeDocumentReview, events[0].event.Type)
}

func TestAddDocumentRejectsOutsiders(t *testing.T) {
	f := newDocumentFixture(t)
	stranger := f.userRepo.add(&models.User{Email: "stranger@test.dev", Role: models.UserRoleClient})

	_, err := f.svc.AddDocument(stranger.ID, f.kase.ID, &dto.CreateDocumentRequest{
		Name:    "sneaky.pdf",
		FileURL: "https://files.test.dev/sneaky.pdf",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestReviewDocumentByAssignedAgent(t *testing.T) {
	f := newDocumentFixture(t)
	doc := f.upload(t)
	baseline := len(f.notifier.dispatched())

	reviewed, err := f.svc.ReviewDocument(f.agent.ID, doc.ID, &dto.ReviewDocumentRequest{
		Status: string(models.DocumentStatusRejected),
		Note:   "Scan is unreadable",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusRejected, reviewed.Status)
	assert.Equal(t, "Scan is unreadable", reviewed.ReviewNote)

	events := f.notifier.dispatched()
	require.Len(t, events, baseline+1)
	assert.Equal(t, f.client.ID, events[baseline].recipientID)
}

func TestReviewDocumentRejectsUnassignedAgent(t *testing.T) {
	f := newDocumentFixture(t)
	doc := f.upload(t)
	other := f.userRepo.add(&models.User{Email: "other@test.dev", Role: models.UserRoleAgent})

	_, err := f.svc.ReviewDocument(other.ID, doc.ID, &dto.ReviewDocumentRequest{
		Status: string(models.DocumentStatusApproved),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestReviewDocumentRejectsPendingTarget(t *testing.T) {
	f := newDocumentFixture(t)
	doc := f.upload(t)

	_, err := f.svc.ReviewDocument(f.agent.ID, doc.ID, &dto.ReviewDocumentRequest{
		Status: string(models.DocumentStatusPending),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestDeleteDocumentOwnershipRules(t *testing.T) {
	f := newDocumentFixture(t)
	doc := f.upload(t)

	// The agent did not upload it.
	err := f.svc.DeleteDocument(f.agent.ID, doc.ID)
	require.Error(t, err)

	// The uploader can remove a pending document.
	require.NoError(t, f.svc.DeleteDocument(f.client.ID, doc.ID))

	// Once reviewed, the uploader cannot remove it either.
	doc2 := f.upload(t)
	_, err = f.svc.ReviewDocument(f.agent.ID, doc2.ID, &dto.ReviewDocumentRequest{
		Status: string(models.DocumentStatusApproved),
	})
	require.NoError(t, err)
	err = f.svc.DeleteDocument(f.client.ID, doc2.ID)
	require.Error(t, err)
}
