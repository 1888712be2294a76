//go:build unit

package commands_test

import (
	"context"
	"testing"

	"fitbook/internal/domain/actor"
	"fitbook/internal/domain/audit"
	"fitbook/internal/pkg/clock"
	"fitbook/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogger(t *testing.T) {
	ctx := context.Background()

	newLogger := func() (*commands.AuditLogger, *fakeUoW) {
		return commands.NewAuditLogger(clock.NewMockClock(testNow)), newFakeUoW()
	}

	t.Run("created entry captures the actor", func(t *testing.T) {
		logger, uow := newLogger()
		act := clientActor()

		logger.Created(ctx, uow.tx, act, "booking", uuid.New(), audit.Snapshot{"status": "scheduled"}, nil)

		require.Len(t, uow.tx.audit.entries, 1)
		e := uow.tx.audit.entries[0]
		assert.Equal(t, audit.ActionCreated, e.Action)
		assert.Equal(t, act.ID, e.ActorID)
		require.NotNil(t, e.ActorRole)
		assert.Equal(t, "client", *e.ActorRole)
		require.NotNil(t, e.IP)
		assert.Equal(t, act.IP, *e.IP)
		assert.Nil(t, e.Before)
		assert.True(t, e.CreatedAt.Equal(testNow))
	})

	t.Run("anonymous actor falls back to the staff owner", func(t *testing.T) {
		logger, uow := newLogger()
		staffOwner := uuid.New()

		logger.Created(ctx, uow.tx, actor.Context{}, "booking", uuid.New(), audit.Snapshot{"status": "scheduled"}, &staffOwner)

		require.Len(t, uow.tx.audit.entries, 1)
		e := uow.tx.audit.entries[0]
		require.NotNil(t, e.ActorID)
		assert.Equal(t, staffOwner, *e.ActorID)
		require.NotNil(t, e.ActorRole)
		assert.Equal(t, "staff", *e.ActorRole)
	})

	t.Run("no actor at all leaves the fields null", func(t *testing.T) {
		logger, uow := newLogger()

		logger.Created(ctx, uow.tx, actor.Context{}, "booking", uuid.New(), audit.Snapshot{"status": "scheduled"}, nil)

		require.Len(t, uow.tx.audit.entries, 1)
		assert.Nil(t, uow.tx.audit.entries[0].ActorID)
		assert.Nil(t, uow.tx.audit.entries[0].ActorRole)
	})

	t.Run("update records changed fields only", func(t *testing.T) {
		logger, uow := newLogger()

		logger.Updated(ctx, uow.tx, clientActor(), "booking", uuid.New(),
			audit.Snapshot{"status": "scheduled", "room_name": "Studio A"},
			audit.Snapshot{"status": "cancelled", "room_name": "Studio A"}, nil)

		require.Len(t, uow.tx.audit.entries, 1)
		e := uow.tx.audit.entries[0]
		assert.Equal(t, audit.ActionUpdated, e.Action)
		assert.Equal(t, []string{"status"}, e.ChangedFields)
		assert.NotNil(t, e.Before)
		assert.NotNil(t, e.After)
	})

	t.Run("no-op update writes nothing", func(t *testing.T) {
		logger, uow := newLogger()

		logger.Updated(ctx, uow.tx, clientActor(), "booking", uuid.New(),
			audit.Snapshot{"status": "scheduled"}, audit.Snapshot{"status": "scheduled"}, nil)
		assert.Empty(t, uow.tx.audit.entries)
	})

	t.Run("deleted entry keeps the final snapshot", func(t *testing.T) {
		logger, uow := newLogger()

		logger.Deleted(ctx, uow.tx, staffActor(), "booking", uuid.New(), audit.Snapshot{"status": "cancelled"}, nil)

		require.Len(t, uow.tx.audit.entries, 1)
		e := uow.tx.audit.entries[0]
		assert.Equal(t, audit.ActionDeleted, e.Action)
		assert.NotNil(t, e.Before)
		assert.Nil(t, e.After)
	})
}
