package services

import (
	"fmt"

	"visaflow_backend/internal/models"
	"visaflow_backend/internal/repositories"
	"visaflow_backend/internal/services/dto"
	"visaflow_backend/pkg/apperrors"
)

type DocumentService interface {
	AddDocument(actorID, caseID string, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	ListDocuments(actorID, caseID string) ([]*dto.DocumentResponse, error)
	ReviewDocument(actorID, documentID string, req *dto.ReviewDocumentRequest) (*dto.DocumentResponse, error)
	DeleteDocument(actorID, documentID string) error
}

type documentService struct {
	documentRepo repositories.DocumentRepository
	caseRepo     repositories.CaseRepository
	userRepo     repositories.UserRepository
	notifier     NotificationService
}

func NewDocumentService(
	documentRepo repositories.DocumentRepository,
	caseRepo repositories.CaseRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		caseRepo:     caseRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

func (s *documentService) AddDocument(actorID, caseID string, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	c, actor, err := s.loadCaseAndActor(actorID, caseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCaseAccess(actor, c); err != nil {
		return nil, err
	}

	doc := &models.Document{
		CaseID:     caseID,
		UploaderID: actorID,
		Name:       req.Name,
		FileURL:    req.FileURL,
		MimeType:   req.MimeType,
		Size:       req.Size,
		Status:     models.DocumentStatusPending,
	}
	if err := s.documentRepo.Create(doc); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// A client upload is worth telling the assigned agent about.
	if actor.Role == models.UserRoleClient && c.AgentID != nil {
		s.notifier.Dispatch(*c.AgentID, dto.NotificationEvent{
			Type:      models.NotificationTypeDocumentReview,
			Title:     "New document uploaded",
			Message:   fmt.Sprintf("A document was added to case %s", c.Reference),
			ActionURL: "/cases/" + c.ID,
			Data:      map[string]string{"case_id": c.ID, "document_id": doc.ID},
		})
	}

	return buildDocumentResponse(doc), nil
}

func (s *documentService) ListDocuments(actorID, caseID string) ([]*dto.DocumentResponse, error) {
	c, actor, err := s.loadCaseAndActor(actorID, caseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCaseAccess(actor, c); err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.FindByCaseID(caseID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, buildDocumentResponse(&docs[i]))
	}
	return responses, nil
}

func (s *documentService) ReviewDocument(actorID, documentID string, req *dto.ReviewDocumentRequest) (*dto.DocumentResponse, error) {
	status := models.DocumentStatus(req.Status)
	if !status.Valid() || status == models.DocumentStatusPending {
		return nil, apperrors.ErrInvalidDocumentStatus
	}

	doc, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDocumentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	c, actor, err := s.loadCaseAndActor(actorID, doc.CaseID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.UserRoleAdmin:
	case models.UserRoleAgent:
		if c.AgentID == nil || *c.AgentID != actorID {
			return nil, apperrors.ErrNotAssignedAgent
		}
	default:
		return nil, apperrors.NewForbiddenError("Only staff can review documents")
	}

	if err := s.documentRepo.UpdateStatus(documentID, status, req.Note); err != nil {
		return nil, apperrors.InternalError(err)
	}
	doc.Status = status
	doc.ReviewNote = req.Note

	s.notifier.Dispatch(c.ClientID, dto.NotificationEvent{
		Type:      models.NotificationTypeDocumentReview,
		Title:     "Document reviewed",
		Message:   fmt.Sprintf("Your document %q on case %s was %s", doc.Name, c.Reference, status),
		ActionURL: "/cases/" + c.ID,
		Data:      map[string]string{"case_id": c.ID, "document_id": doc.ID, "status": string(status)},
	})

	return buildDocumentResponse(doc), nil
}

func (s *documentService) DeleteDocument(actorID, documentID string) error {
	doc, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDocumentNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	// Uploaders may remove their own pending documents; admins anything.
	if actor.Role != models.UserRoleAdmin {
		if doc.UploaderID != actorID || doc.Status != models.DocumentStatusPending {
			return apperrors.NewForbiddenError("Access denied")
		}
	}

	return s.documentRepo.Delete(documentID)
}

// ---------------- Helpers ----------------

func (s *documentService) loadCaseAndActor(actorID, caseID string) (*models.Case, *models.User, error) {
	c, err := s.caseRepo.FindByID(caseID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCaseNotFound) {
			return nil, nil, apperrors.ErrNotFound(err)
		}
		return nil, nil, apperrors.InternalError(err)
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return c, actor, nil
}

func buildDocumentResponse(doc *models.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:         doc.ID,
		CaseID:     doc.CaseID,
		UploaderID: doc.UploaderID,
		Name:       doc.Name,
		FileURL:    doc.FileURL,
		MimeType:   doc.MimeType,
		Size:       doc.Size,
		Status:     doc.Status,
		ReviewNote: doc.ReviewNote,
		CreatedAt:  doc.CreatedAt,
	}
}
