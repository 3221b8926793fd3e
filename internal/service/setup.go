package service

import (
	"log/slog"

	"cabinets/internal/domain/repositories"
	"cabinets/internal/domain/services"
	"cabinets/internal/events"
	"cabinets/internal/registry"
)

// Services holds every service of the cabinets application
type Services struct {
	Cabinets    services.CabinetService
	Memberships services.MembershipService
	Access      services.AccessService
	Events      services.EventService
	Navigation  services.NavigationService
}

// SetupServices wires the services over a store. Operations are authorized
// through the ACL-backed access service.
func SetupServices(store *repositories.Store, reg *registry.Registry, publisher events.Publisher, logger *slog.Logger) *Services {
	access := NewAccessService(store.Access, store.Cabinets, store.Documents, reg, logger)
	return setup(store, reg, publisher, access, access, logger)
}

// SetupAdminServices wires the services for trusted tooling: every
// operation is allowed.
func SetupAdminServices(store *repositories.Store, reg *registry.Registry, publisher events.Publisher, logger *slog.Logger) *Services {
	access := newAccessService(store.Access, store.Cabinets, store.Documents, reg, logger, SystemAuthorizer{})
	return setup(store, reg, publisher, access, SystemAuthorizer{}, logger)
}

func setup(
	store *repositories.Store,
	reg *registry.Registry,
	publisher events.Publisher,
	access services.AccessService,
	authorizer services.Authorizer,
	logger *slog.Logger,
) *Services {
	eventService := NewEventService(store.Events, reg, publisher, authorizer, logger)

	return &Services{
		Cabinets: NewCabinetService(
			store.Cabinets,
			store.Memberships,
			store.Access,
			store.Tx,
			authorizer,
			eventService,
			logger,
		),
		Memberships: NewMembershipService(
			store.Cabinets,
			store.Memberships,
			store.Documents,
			store.Tx,
			authorizer,
			eventService,
			logger,
		),
		Access:     access,
		Events:     eventService,
		Navigation: NewNavigationService(reg, authorizer, logger),
	}
}
