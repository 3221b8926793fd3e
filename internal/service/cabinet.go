package service

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sort"

	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
	"cabinets/internal/domain/services"
)

// Event names committed by the cabinet services (namespace "cabinets")
const (
	eventNamespace       = "cabinets"
	eventCabinetCreated  = "cabinet_created"
	eventCabinetEdited   = "cabinet_edited"
	eventCabinetDeleted  = "cabinet_deleted"
	eventDocumentAdded   = "cabinet_document_added"
	eventDocumentRemoved = "cabinet_document_removed"
)

type cabinetService struct {
	cabinetRepo    repositories.CabinetRepository
	membershipRepo repositories.DocumentCabinetRepository
	accessRepo     repositories.AccessRepository
	txManager      repositories.TransactionManager
	authorizer     services.Authorizer
	events         services.EventService
	logger         *slog.Logger
}

// NewCabinetService creates a new cabinet service
func NewCabinetService(
	cabinetRepo repositories.CabinetRepository,
	membershipRepo repositories.DocumentCabinetRepository,
	accessRepo repositories.AccessRepository,
	txManager repositories.TransactionManager,
	authorizer services.Authorizer,
	events services.EventService,
	logger *slog.Logger,
) services.CabinetService {
	return &cabinetService{
		cabinetRepo:    cabinetRepo,
		membershipRepo: membershipRepo,
		accessRepo:     accessRepo,
		txManager:      txManager,
		authorizer:     authorizer,
		events:         events,
		logger:         logger,
	}
}

// CreateCabinet creates a root cabinet (requires cabinet_create) or a child
// of ParentID (requires cabinet_edit on the parent)
func (s *cabinetService) CreateCabinet(ctx context.Context, req *services.CreateCabinetRequest) (*models.Cabinet, error) {
	req.ParentID = normalizeParent(req.ParentID)

	if req.ParentID == nil {
		if err := s.authorizer.CheckPermission(ctx, req.UserID, models.PermissionCabinetCreate); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.cabinetRepo.GetByID(ctx, *req.ParentID); err != nil {
			return nil, err
		}
		if err := s.authorizer.CheckAccess(ctx, req.UserID, models.CabinetRef(*req.ParentID), models.PermissionCabinetEdit); err != nil {
			return nil, err
		}
	}

	label, err := validateLabel(req.Label)
	if err != nil {
		return nil, err
	}

	cabinet := &models.Cabinet{
		ParentID: req.ParentID,
		Label:    label,
	}

	var event *models.Event
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if cabinet.ParentID != nil {
			if _, err := s.cabinetRepo.GetByID(ctx, *cabinet.ParentID); err != nil {
				return err
			}
		}
		if err := s.ensureUniqueLabel(ctx, cabinet); err != nil {
			return err
		}
		if err := s.cabinetRepo.Create(ctx, cabinet); err != nil {
			return err
		}

		event, err = s.events.Record(ctx, services.EventCommit{
			Namespace: eventNamespace,
			Name:      eventCabinetCreated,
			ActorID:   req.UserID,
			Target:    models.CabinetRef(cabinet.ID),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, event)

	s.setPath(ctx, cabinet)

	s.logger.Info("cabinet created",
		"id", cabinet.ID,
		"label", cabinet.Label,
		"parent_id", cabinet.ParentID,
		"path", cabinet.Path,
		"user_id", req.UserID,
	)

	return cabinet, nil
}

// GetCabinet retrieves a cabinet with its computed path
func (s *cabinetService) GetCabinet(ctx context.Context, userID, id string) (*models.Cabinet, error) {
	cabinet, err := s.cabinetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.CheckAccess(ctx, userID, models.CabinetRef(id), models.PermissionCabinetView); err != nil {
		return nil, err
	}

	s.setPath(ctx, cabinet)
	return cabinet, nil
}

// EditCabinet renames a cabinet (requires cabinet_edit)
func (s *cabinetService) EditCabinet(ctx context.Context, req *services.EditCabinetRequest) (*models.Cabinet, error) {
	if _, err := s.cabinetRepo.GetByID(ctx, req.ID); err != nil {
		return nil, err
	}
	if err := s.authorizer.CheckAccess(ctx, req.UserID, models.CabinetRef(req.ID), models.PermissionCabinetEdit); err != nil {
		return nil, err
	}

	label, err := validateLabel(req.Label)
	if err != nil {
		return nil, err
	}

	var cabinet *models.Cabinet
	var event *models.Event
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		cabinet, err = s.cabinetRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		cabinet.Label = label
		if err := s.ensureUniqueLabel(ctx, cabinet); err != nil {
			return err
		}
		if err := s.cabinetRepo.Update(ctx, cabinet); err != nil {
			return err
		}

		event, err = s.events.Record(ctx, services.EventCommit{
			Namespace: eventNamespace,
			Name:      eventCabinetEdited,
			ActorID:   req.UserID,
			Target:    models.CabinetRef(cabinet.ID),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, event)

	s.setPath(ctx, cabinet)

	s.logger.Info("cabinet edited",
		"id", cabinet.ID,
		"label", cabinet.Label,
		"path", cabinet.Path,
		"user_id", req.UserID,
	)

	return cabinet, nil
}

// MoveCabinet re-parents a cabinet. Requires cabinet_edit on the cabinet and
// on the new parent, or cabinet_create when the cabinet becomes a root.
func (s *cabinetService) MoveCabinet(ctx context.Context, req *services.MoveCabinetRequest) (*models.Cabinet, error) {
	req.ParentID = normalizeParent(req.ParentID)

	if _, err := s.cabinetRepo.GetByID(ctx, req.ID); err != nil {
		return nil, err
	}
	if err := s.authorizer.CheckAccess(ctx, req.UserID, models.CabinetRef(req.ID), models.PermissionCabinetEdit); err != nil {
		return nil, err
	}

	if req.ParentID == nil {
		if err := s.authorizer.CheckPermission(ctx, req.UserID, models.PermissionCabinetCreate); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.cabinetRepo.GetByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, invalidChoice("parent", *req.ParentID)
			}
			return nil, err
		}
		if err := s.authorizer.CheckAccess(ctx, req.UserID, models.CabinetRef(*req.ParentID), models.PermissionCabinetEdit); err != nil {
			if isForbidden(err) {
				return nil, invalidChoice("parent", *req.ParentID)
			}
			return nil, err
		}
	}

	var cabinet *models.Cabinet
	var event *models.Event
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		cabinet, err = s.cabinetRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.ParentID != nil {
			cycle, err := isAncestorOrSelf(ctx, s.cabinetRepo, cabinet.ID, *req.ParentID)
			if err != nil {
				return err
			}
			if cycle {
				return &domain.ValidationError{
					Field:   "parent",
					Message: "A cabinet cannot be moved inside itself or one of its descendants.",
				}
			}
		}

		cabinet.ParentID = req.ParentID
		if err := s.ensureUniqueLabel(ctx, cabinet); err != nil {
			return err
		}
		if err := s.cabinetRepo.Update(ctx, cabinet); err != nil {
			return err
		}

		event, err = s.events.Record(ctx, services.EventCommit{
			Namespace: eventNamespace,
			Name:      eventCabinetEdited,
			ActorID:   req.UserID,
			Target:    models.CabinetRef(cabinet.ID),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, event)

	s.setPath(ctx, cabinet)

	s.logger.Info("cabinet moved",
		"id", cabinet.ID,
		"parent_id", cabinet.ParentID,
		"path", cabinet.Path,
		"user_id", req.UserID,
	)

	return cabinet, nil
}

// DeleteCabinet deletes a cabinet and its subtree (requires cabinet_delete).
// Memberships and access entries of every deleted cabinet go with it;
// documents are untouched.
func (s *cabinetService) DeleteCabinet(ctx context.Context, userID, id string) error {
	cabinet, err := s.cabinetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizer.CheckAccess(ctx, userID, models.CabinetRef(id), models.PermissionCabinetDelete); err != nil {
		return err
	}

	var deleted []string
	var event *models.Event
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.cabinetRepo.DeleteSubtree(ctx, id)
		if err != nil {
			return err
		}
		if err := s.accessRepo.DeleteForObjects(ctx, models.ObjectTypeCabinet, deleted); err != nil {
			return err
		}

		event, err = s.events.Record(ctx, services.EventCommit{
			Namespace: eventNamespace,
			Name:      eventCabinetDeleted,
			ActorID:   userID,
			Target:    models.CabinetRef(id),
		})
		return err
	})
	if err != nil {
		return err
	}
	s.events.Publish(ctx, event)

	s.logger.Info("cabinet deleted",
		"id", id,
		"label", cabinet.Label,
		"deleted_count", len(deleted),
		"user_id", userID,
	)

	return nil
}

// ListCabinets lists every cabinet the user may view, ordered by path
func (s *cabinetService) ListCabinets(ctx context.Context, userID string) ([]models.Cabinet, error) {
	all, err := s.cabinetRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	visible, err := visibleCabinets(ctx, s.authorizer, userID, all)
	if err != nil {
		return nil, err
	}

	index := newForest(all)
	for i := range visible {
		visible[i].Path = index.path(visible[i].ID)
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Path < visible[j].Path
	})
	return visible, nil
}

// ListChildren lists the visible immediate children of a cabinet
func (s *cabinetService) ListChildren(ctx context.Context, userID, id string) ([]models.Cabinet, error) {
	parent, err := s.GetCabinet(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	children, err := s.cabinetRepo.ListChildren(ctx, &id)
	if err != nil {
		return nil, err
	}
	visible, err := visibleCabinets(ctx, s.authorizer, userID, children)
	if err != nil {
		return nil, err
	}
	for i := range visible {
		visible[i].Path = parent.Path + models.PathSeparator + visible[i].Label
	}
	return visible, nil
}

// Tree builds the forest of visible cabinets. A visible cabinet whose
// parent is hidden is shown at the top level.
func (s *cabinetService) Tree(ctx context.Context, userID string) ([]*models.CabinetTreeNode, error) {
	all, err := s.cabinetRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	visible, err := visibleCabinets(ctx, s.authorizer, userID, all)
	if err != nil {
		return nil, err
	}
	counts, err := s.membershipRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	index := newForest(all)
	nodes := make(map[string]*models.CabinetTreeNode, len(visible))
	for _, c := range visible {
		nodes[c.ID] = &models.CabinetTreeNode{
			ID:            c.ID,
			Label:         c.Label,
			ParentID:      c.ParentID,
			Path:          index.path(c.ID),
			CreatedAt:     c.CreatedAt,
			DocumentCount: counts[c.ID],
			Children:      []*models.CabinetTreeNode{},
		}
	}

	roots := []*models.CabinetTreeNode{}
	for _, c := range visible {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortTree(roots)
	return roots, nil
}

// GetRoot returns the top-most ancestor of a cabinet
func (s *cabinetService) GetRoot(ctx context.Context, id string) (*models.Cabinet, error) {
	return Root(ctx, s.cabinetRepo, id)
}

// Ancestors yields parent, grandparent, ... up to the root
func (s *cabinetService) Ancestors(ctx context.Context, id string) iter.Seq2[*models.Cabinet, error] {
	return Ancestors(ctx, s.cabinetRepo, id)
}

// Descendants yields every cabinet below id, depth first
func (s *cabinetService) Descendants(ctx context.Context, id string) iter.Seq2[*models.Cabinet, error] {
	return Descendants(ctx, s.cabinetRepo, id)
}

// ListDocuments lists a cabinet's documents in insertion order
func (s *cabinetService) ListDocuments(ctx context.Context, userID, id string) ([]models.Document, error) {
	if _, err := s.GetCabinet(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.membershipRepo.ListDocuments(ctx, id)
}

// ensureUniqueLabel rejects a label already used by a sibling
func (s *cabinetService) ensureUniqueLabel(ctx context.Context, cabinet *models.Cabinet) error {
	existing, err := s.cabinetRepo.GetByLabel(ctx, cabinet.ParentID, cabinet.Label)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != cabinet.ID {
		return &domain.DuplicateLabelError{
			Label:      cabinet.Label,
			ParentID:   cabinet.ParentID,
			ExistingID: existing.ID,
		}
	}
	return nil
}

// setPath fills the computed display path, falling back to the label
func (s *cabinetService) setPath(ctx context.Context, cabinet *models.Cabinet) {
	path, err := s.cabinetRepo.GetPath(ctx, cabinet.ID)
	if err != nil {
		s.logger.Warn("failed to compute path", "cabinet_id", cabinet.ID, "error", err)
		cabinet.Path = cabinet.Label
		return
	}
	cabinet.Path = path
}

func sortTree(nodes []*models.CabinetTreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Label < nodes[j].Label
	})
	for _, n := range nodes {
		sortTree(n.Children)
	}
}

// visibleCabinets filters cabinets down to those the user may view, order preserved
func visibleCabinets(ctx context.Context, authorizer services.Authorizer, userID string, cabinets []models.Cabinet) ([]models.Cabinet, error) {
	ids := make([]string, len(cabinets))
	for i, c := range cabinets {
		ids[i] = c.ID
	}

	allowed, err := authorizer.FilterAllowed(ctx, userID, models.ObjectTypeCabinet, ids, models.PermissionCabinetView)
	if err != nil {
		return nil, err
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = true
	}

	out := make([]models.Cabinet, 0, len(allowed))
	for _, c := range cabinets {
		if allowedSet[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}
