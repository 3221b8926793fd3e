package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/config"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
)

func TestEventCommit(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		commit    services.EventCommit
		wantField string
	}{
		{
			name:   "mailing event",
			commit: services.EventCommit{Namespace: "mailing", Name: "email_send", ActorID: admin, Target: models.DocumentRef("doc-1")},
		},
		{
			name:      "unknown namespace",
			commit:    services.EventCommit{Namespace: "printing", Name: "email_send", Target: models.DocumentRef("doc-1")},
			wantField: "event_type",
		},
		{
			name:      "unknown name",
			commit:    services.EventCommit{Namespace: "cabinets", Name: "cabinet_printed", Target: models.DocumentRef("doc-1")},
			wantField: "event_type",
		},
		{
			name:      "missing target",
			commit:    services.EventCommit{Namespace: "mailing", Name: "email_send"},
			wantField: "target",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := f.svc.Events.Commit(f.ctx, tt.commit)
			if tt.wantField != "" {
				assertFieldError(t, err, tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, event.ID)
			assert.Equal(t, "mailing.email_send", event.Type())
		})
	}

	published := f.publisher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, "mailing.email_send", published[0].Type())
}

func TestEventPublishFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	f.publisher.FailWith(errors.New("broker down"))

	cabinet, err := f.svc.Cabinets.CreateCabinet(f.ctx, &services.CreateCabinetRequest{UserID: admin, Label: "Invoices"})
	require.NoError(t, err)

	stored, err := f.store.Events.ListByTarget(f.ctx, models.CabinetRef(cabinet.ID), 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	assert.Contains(t, f.logs.String(), "failed to publish event")
	assert.Contains(t, f.logs.String(), "broker down")
}

func TestListEventsRequiresView(t *testing.T) {
	f := newFixture(t)
	invoices := f.cabinet(t, "Invoices", nil)

	_, err := f.svc.Events.ListEvents(f.ctx, alice, models.CabinetRef(invoices.ID), 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f.grantOn(t, alice, models.CabinetRef(invoices.ID), models.PermissionCabinetView)
	events, err := f.svc.Events.ListEvents(f.ctx, alice, models.CabinetRef(invoices.ID), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, eventCabinetCreated, events[0].Name)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, config.DefaultEventLimit, clampLimit(0))
	assert.Equal(t, config.DefaultEventLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, config.MaxEventLimit, clampLimit(config.MaxEventLimit+1))
}
