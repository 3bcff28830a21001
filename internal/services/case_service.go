package services

import (
	"fmt"

	"visaflow_backend/internal/models"
	"visaflow_backend/internal/repositories"
	"visaflow_backend/internal/services/dto"
	"visaflow_backend/pkg/apperrors"
)

type CaseService interface {
	CreateCase(clientID string, req *dto.CreateCaseRequest) (*dto.CaseResponse, error)
	GetCase(actorID, caseID string) (*dto.CaseResponse, error)
	ListCases(actorID string, criteria dto.CaseCriteria) (*dto.CaseListResponse, error)
	AssignAgent(caseID string, req *dto.AssignAgentRequest) (*dto.CaseResponse, error)
	UpdateStatus(actorID, caseID string, req *dto.UpdateCaseStatusRequest) (*dto.CaseResponse, error)
	GetHistory(actorID, caseID string) ([]*dto.StatusHistoryResponse, error)
}

type caseService struct {
	caseRepo repositories.CaseRepository
	userRepo repositories.UserRepository
	notifier NotificationService
}

func NewCaseService(
	caseRepo repositories.CaseRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
) CaseService {
	return &caseService{
		caseRepo: caseRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *caseService) CreateCase(clientID string, req *dto.CreateCaseRequest) (*dto.CaseResponse, error) {
	newCase := &models.Case{
		Reference:   generateCaseReference(),
		ClientID:    clientID,
		ServiceType: req.ServiceType,
		Title:       req.Title,
		Summary:     req.Summary,
		Status:      models.CaseStatusSubmitted,
	}

	if err := s.caseRepo.Create(newCase); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// The initial status is audited like every later transition.
	history := &models.StatusHistory{
		CaseID:    newCase.ID,
		Status:    models.CaseStatusSubmitted,
		ChangedBy: clientID,
		Note:      "Case submitted",
	}
	if err := s.caseRepo.UpdateStatusWithHistory(newCase.ID, models.CaseStatusSubmitted, history); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildCaseResponse(newCase), nil
}

func (s *caseService) GetCase(actorID, caseID string) (*dto.CaseResponse, error) {
	c, actor, err := s.loadCaseForActor(actorID, caseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCaseAccess(actor, c); err != nil {
		return nil, err
	}
	return buildCaseResponse(c), nil
}

func (s *caseService) ListCases(actorID string, criteria dto.CaseCriteria) (*dto.CaseListResponse, error) {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	filter := repositories.CaseFilter{
		Status:      models.CaseStatus(criteria.Status),
		ServiceType: criteria.ServiceType,
		Page:        criteria.Page,
		PageSize:    criteria.PageSize,
	}

	// Clients see their own cases, agents their assigned ones, admins
	// everything.
	switch actor.Role {
	case models.UserRoleClient:
		filter.ClientID = actorID
	case models.UserRoleAgent:
		filter.AgentID = actorID
	}

	cases, total, err := s.caseRepo.FindWithFilter(filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.CaseResponse, 0, len(cases))
	for i := range cases {
		responses = append(responses, buildCaseResponse(&cases[i]))
	}

	return &dto.CaseListResponse{
		Cases:      responses,
		Total:      total,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
		TotalPages: calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *caseService) AssignAgent(caseID string, req *dto.AssignAgentRequest) (*dto.CaseResponse, error) {
	agent, err := s.userRepo.FindByID(req.AgentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if agent.Role != models.UserRoleAgent {
		return nil, apperrors.NewBadRequestError("Assignee must have the agent role")
	}

	if err := s.caseRepo.AssignAgent(caseID, agent.ID); err != nil {
		if apperrors.Is(err, repositories.ErrCaseNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	c, err := s.caseRepo.FindByID(caseID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifier.Dispatch(c.ClientID, dto.NotificationEvent{
		Type:      models.NotificationTypeSystem,
		Title:     "Agent assigned",
		Message:   fmt.Sprintf("An agent has been assigned to your case %s", c.Reference),
		ActionURL: "/cases/" + c.ID,
		Data:      map[string]string{"case_id": c.ID},
	})

	return buildCaseResponse(c), nil
}

// UpdateStatus moves a case through its lifecycle. Only the assigned
// agent or an administrator may transition a case; an approved case is
// frozen for everyone but administrators. The status change and its
// audit row are written atomically, and the client is notified over
// every channel afterwards.
func (s *caseService) UpdateStatus(actorID, caseID string, req *dto.UpdateCaseStatusRequest) (*dto.CaseResponse, error) {
	newStatus := models.CaseStatus(req.Status)
	if !newStatus.Valid() {
		return nil, apperrors.ErrInvalidCaseStatus
	}

	c, actor, err := s.loadCaseForActor(actorID, caseID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.UserRoleAdmin:
		// unrestricted
	case models.UserRoleAgent:
		if c.AgentID == nil || *c.AgentID != actorID {
			return nil, apperrors.ErrNotAssignedAgent
		}
	default:
		return nil, apperrors.NewForbiddenError("Only staff can change a case status")
	}

	if c.Status == models.CaseStatusApproved && actor.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrCaseLocked
	}

	history := &models.StatusHistory{
		CaseID:    c.ID,
		Status:    newStatus,
		ChangedBy: actorID,
		Note:      req.Note,
	}
	if err := s.caseRepo.UpdateStatusWithHistory(c.ID, newStatus, history); err != nil {
		if apperrors.Is(err, repositories.ErrCaseNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	c.Status = newStatus

	s.notifier.Dispatch(c.ClientID, dto.NotificationEvent{
		Type:      models.NotificationTypeCaseStatus,
		Title:     "Case status updated",
		Message:   fmt.Sprintf("Your case %s is now %s", c.Reference, newStatus),
		ActionURL: "/cases/" + c.ID,
		Data:      map[string]string{"case_id": c.ID, "status": string(newStatus)},
	})

	return buildCaseResponse(c), nil
}

func (s *caseService) GetHistory(actorID, caseID string) ([]*dto.StatusHistoryResponse, error) {
	c, actor, err := s.loadCaseForActor(actorID, caseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCaseAccess(actor, c); err != nil {
		return nil, err
	}

	history, err := s.caseRepo.FindHistory(caseID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.StatusHistoryResponse, 0, len(history))
	for i := range history {
		h := &history[i]
		responses = append(responses, &dto.StatusHistoryResponse{
			ID:        h.ID,
			Status:    h.Status,
			ChangedBy: h.ChangedBy,
			Note:      h.Note,
			CreatedAt: h.CreatedAt,
		})
	}
	return responses, nil
}

// ---------------- Helpers ----------------

func (s *caseService) loadCaseForActor(actorID, caseID string) (*models.Case, *models.User, error) {
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

func authorizeCaseAccess(actor *models.User, c *models.Case) error {
	switch actor.Role {
	case models.UserRoleAdmin:
		return nil
	case models.UserRoleAgent:
		if c.AgentID != nil && *c.AgentID == actor.ID {
			return nil
		}
	case models.UserRoleClient:
		if c.ClientID == actor.ID {
			return nil
		}
	}
	return apperrors.NewForbiddenError("Access denied")
}

func buildCaseResponse(c *models.Case) *dto.CaseResponse {
	return &dto.CaseResponse{
		ID:          c.ID,
		Reference:   c.Reference,
		ClientID:    c.ClientID,
		AgentID:     c.AgentID,
		ServiceType: c.ServiceType,
		Title:       c.Title,
		Summary:     c.Summary,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
