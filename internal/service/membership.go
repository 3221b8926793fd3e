package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cabinets/internal/config"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
	"cabinets/internal/domain/services"
)

// defaultDocumentField is the form field document selections arrive on
const defaultDocumentField = "id_list"

type membershipService struct {
	cabinetRepo    repositories.CabinetRepository
	membershipRepo repositories.DocumentCabinetRepository
	docRepo        repositories.DocumentRepository
	txManager      repositories.TransactionManager
	authorizer     services.Authorizer
	events         services.EventService
	logger         *slog.Logger
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	cabinetRepo repositories.CabinetRepository,
	membershipRepo repositories.DocumentCabinetRepository,
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	authorizer services.Authorizer,
	events services.EventService,
	logger *slog.Logger,
) services.MembershipService {
	return &membershipService{
		cabinetRepo:    cabinetRepo,
		membershipRepo: membershipRepo,
		docRepo:        docRepo,
		txManager:      txManager,
		authorizer:     authorizer,
		events:         events,
		logger:         logger,
	}
}

// AddDocuments files every document into every cabinet. Both the cabinet
// and the document must grant cabinet_add_document.
func (s *membershipService) AddDocuments(ctx context.Context, req *services.MembershipRequest) error {
	cabinetIDs, documentIDs, err := s.authorize(ctx, req, models.PermissionCabinetAddDocument)
	if err != nil {
		return err
	}

	var recorded []*models.Event
	added := 0
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		recorded = recorded[:0]
		added = 0
		for _, cabinetID := range cabinetIDs {
			ids, err := s.membershipRepo.Add(ctx, cabinetID, documentIDs)
			if err != nil {
				return err
			}
			added += len(ids)

			for _, documentID := range ids {
				event, err := s.recordMembership(ctx, eventDocumentAdded, req.UserID, cabinetID, documentID)
				if err != nil {
					return err
				}
				recorded = append(recorded, event)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.events.Publish(ctx, recorded...)

	s.logger.Info("documents added to cabinets",
		"cabinet_ids", cabinetIDs,
		"document_ids", documentIDs,
		"added", added,
		"user_id", req.UserID,
	)
	return nil
}

// RemoveDocuments unfiles every document from every cabinet. Documents not
// filed in a cabinet are skipped.
func (s *membershipService) RemoveDocuments(ctx context.Context, req *services.MembershipRequest) error {
	cabinetIDs, documentIDs, err := s.authorize(ctx, req, models.PermissionCabinetRemoveDocument)
	if err != nil {
		return err
	}

	var recorded []*models.Event
	removed := 0
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		recorded = recorded[:0]
		removed = 0
		for _, cabinetID := range cabinetIDs {
			ids, err := s.membershipRepo.Remove(ctx, cabinetID, documentIDs)
			if err != nil {
				return err
			}
			removed += len(ids)

			for _, documentID := range ids {
				event, err := s.recordMembership(ctx, eventDocumentRemoved, req.UserID, cabinetID, documentID)
				if err != nil {
					return err
				}
				recorded = append(recorded, event)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.events.Publish(ctx, recorded...)

	s.logger.Info("documents removed from cabinets",
		"cabinet_ids", cabinetIDs,
		"document_ids", documentIDs,
		"removed", removed,
		"user_id", req.UserID,
	)
	return nil
}

// ListDocumentCabinets lists the viewable cabinets a document is filed in
func (s *membershipService) ListDocumentCabinets(ctx context.Context, userID, documentID string) ([]models.Cabinet, error) {
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}

	cabinets, err := s.cabinetRepo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	visible, err := visibleCabinets(ctx, s.authorizer, userID, cabinets)
	if err != nil {
		return nil, err
	}

	for i := range visible {
		path, err := s.cabinetRepo.GetPath(ctx, visible[i].ID)
		if err != nil {
			return nil, err
		}
		visible[i].Path = path
	}
	return visible, nil
}

// SearchDocuments finds documents filed in a viewable cabinet whose label
// contains query
func (s *membershipService) SearchDocuments(ctx context.Context, userID, query string) ([]models.Document, error) {
	query = strings.TrimSpace(query)
	err := validation.Validate(query,
		validation.Required.Error(msgRequired),
		validation.RuneLength(1, config.MaxSearchQueryLength),
	)
	if err != nil {
		return nil, fieldError("cabinet", err)
	}

	candidates, err := s.docRepo.SearchByCabinetLabel(ctx, query)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	results := make([]models.Document, 0, len(candidates))
	for _, doc := range candidates {
		cabinets, err := s.cabinetRepo.ListByDocument(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		matching := make([]models.Cabinet, 0, len(cabinets))
		for _, c := range cabinets {
			if strings.Contains(strings.ToLower(c.Label), needle) {
				matching = append(matching, c)
			}
		}
		visible, err := visibleCabinets(ctx, s.authorizer, userID, matching)
		if err != nil {
			return nil, err
		}
		if len(visible) > 0 {
			results = append(results, doc)
		}
	}
	return results, nil
}

// authorize normalizes the selections and checks the permission on every
// cabinet and every document. Cabinets the user cannot act on are reported
// as invalid choices rather than denials.
func (s *membershipService) authorize(ctx context.Context, req *services.MembershipRequest, permission models.Permission) ([]string, []string, error) {
	field := req.DocumentField
	if field == "" {
		field = defaultDocumentField
	}

	cabinetIDs := normalizeIDs(req.CabinetIDs)
	documentIDs := normalizeIDs(req.DocumentIDs)
	if len(documentIDs) == 0 {
		return nil, nil, required(field)
	}
	if len(cabinetIDs) == 0 {
		return nil, nil, required("cabinets")
	}

	for _, documentID := range documentIDs {
		if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
			if req.Selection && errors.Is(err, domain.ErrNotFound) {
				return nil, nil, invalidChoice(field, documentID)
			}
			return nil, nil, err
		}
		err := s.authorizer.CheckAccess(ctx, req.UserID, models.DocumentRef(documentID), permission)
		if err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return nil, nil, invalidChoice(field, documentID)
			}
			return nil, nil, err
		}
	}

	for _, cabinetID := range cabinetIDs {
		if _, err := s.cabinetRepo.GetByID(ctx, cabinetID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil, invalidChoice("cabinets", cabinetID)
			}
			return nil, nil, err
		}
		err := s.authorizer.CheckAccess(ctx, req.UserID, models.CabinetRef(cabinetID), permission)
		if err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return nil, nil, invalidChoice("cabinets", cabinetID)
			}
			return nil, nil, err
		}
	}

	return cabinetIDs, documentIDs, nil
}

func (s *membershipService) recordMembership(ctx context.Context, name, userID, cabinetID, documentID string) (*models.Event, error) {
	document := models.DocumentRef(documentID)
	return s.events.Record(ctx, services.EventCommit{
		Namespace:    eventNamespace,
		Name:         name,
		ActorID:      userID,
		Target:       models.CabinetRef(cabinetID),
		ActionObject: &document,
	})
}
