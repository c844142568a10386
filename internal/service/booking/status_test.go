package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

func TestChangeStatus_ApproveNeedsManage(t *testing.T) {
	env := setupBookingTest(t)
	alice, aliceCtx := env.createUser(t, "alice", false)
	manager, managerCtx := env.createUser(t, "carol", false)
	room := env.createResource(t, "room-1", 1)
	env.grant(t, domain.ActionBook, room.ID, domain.UserTarget(alice.ID))
	env.grant(t, domain.ActionManage, room.ID, domain.UserTarget(manager.ID))

	b, err := env.svc.Create(aliceCtx, &domain.CreateBookingRequest{
		ResourceID: room.ID, StartTime: hour(0), EndTime: hour(1),
	})
	require.NoError(t, err)

	// The owner cannot approve their own booking without manage.
	_, err = env.svc.ChangeStatus(aliceCtx, b.ID, domain.StatusApproved)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	approved, err := env.svc.ChangeStatus(managerCtx, b.ID, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
}

func TestChangeStatus_ApproveRechecksAvailability(t *testing.T) {
	env := setupBookingTest(t)
	alice, aliceCtx := env.createUser(t, "alice", false)
	bob, _ := env.createUser(t, "bob", false)
	_, superCtx := env.createUser(t, "root", true)
	room := env.createResource(t, "room-1", 1)
	env.grant(t, domain.ActionBook, room.ID, domain.UserTarget(alice.ID))

	b, err := env.svc.Create(aliceCtx, &domain.CreateBookingRequest{
		ResourceID: room.ID, StartTime: hour(0), EndTime: hour(2),
	})
	require.NoError(t, err)

	// The capacity was taken while the request sat in the queue.
	_, err = env.bookingRepo.Insert(context.Background(), &domain.Booking{
		ID:         domain.NewID(),
		UserID:     bob.ID,
		ResourceID: room.ID,
		StartTime:  hour(1),
		EndTime:    hour(3),
		Status:     domain.StatusApproved,
	})
	require.NoError(t, err)

	_, err = env.svc.ChangeStatus(superCtx, b.ID, domain.StatusApproved)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)

	// The failed approval left the booking pending; rejection still works.
	rejected, err := env.svc.ChangeStatus(superCtx, b.ID, domain.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
}

func TestChangeStatus_TransitionTable(t *testing.T) {
	env := setupBookingTest(t)
	alice, aliceCtx := env.createUser(t, "alice", false)
	_, superCtx := env.createUser(t, "root", true)
	room := env.createResource(t, "room-1", 10)
	env.grant(t, domain.ActionBook, room.ID, domain.UserTarget(alice.ID))

	newPending := func(h int) *domain.Booking {
		b, err := env.svc.Create(aliceCtx, &domain.CreateBookingRequest{
			ResourceID: room.ID, StartTime: hour(h), EndTime: hour(h + 1),
		})
		require.NoError(t, err)
		return b
	}

	var invalid *domain.InvalidTransitionError

	// pending -> approved -> cancelled is the full happy path.
	b := newPending(0)
	_, err := env.svc.ChangeStatus(superCtx, b.ID, domain.StatusApproved)
	require.NoError(t, err)
	_, err = env.svc.ChangeStatus(superCtx, b.ID, domain.StatusCancelled)
	require.NoError(t, err)

	// Same-to-same is an invalid transition, even for pending.
	b = newPending(1)
	_, err = env.svc.ChangeStatus(superCtx, b.ID, domain.StatusPending)
	require.Error(t, err)

	// approved -> rejected is not reachable.
	b = newPending(2)
	_, err = env.svc.ChangeStatus(superCtx, b.ID, domain.StatusApproved)
	require.NoError(t, err)
	_, err = env.svc.ChangeStatus(superCtx, b.ID, domain.StatusRejected)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.StatusApproved, invalid.From)
	assert.Equal(t, domain.StatusRejected, invalid.To)

	// Terminal statuses accept nothing.
	b = newPending(3)
	_, err = env.svc.ChangeStatus(superCtx, b.ID, domain.StatusRejected)
	require.NoError(t, err)
	for _, target := range []domain.BookingStatus{domain.StatusApproved, domain.StatusCancelled} {
		_, err = env.svc.ChangeStatus(superCtx, b.ID, target)
		require.ErrorAs(t, err, &invalid, "rejected -> %s must fail", target)
	}

	b = newPending(4)
	_, err = env.svc.ChangeStatus(superCtx, b.ID, domain.StatusCancelled)
	require.NoError(t, err)
	_, err = env.svc.ChangeStatus(superCtx, b.ID, domain.StatusApproved)
	require.ErrorAs(t, err, &invalid)
}

func TestCancel_OwnerOrSuperuserOnly(t *testing.T) {
	env := setupBookingTest(t)
	alice, aliceCtx := env.createUser(t, "alice", false)
	_, bobCtx := env.createUser(t, "bob", false)
	manager, managerCtx := env.createUser(t, "carol", false)
	_, superCtx := env.createUser(t, "root", true)
	room := env.createResource(t, "room-1", 10)
	env.grant(t, domain.ActionBook, room.ID, domain.UserTarget(alice.ID))
	env.grant(t, domain.ActionManage, room.ID, domain.UserTarget(manager.ID))

	b, err := env.svc.Create(aliceCtx, &domain.CreateBookingRequest{
		ResourceID: room.ID, StartTime: hour(0), EndTime: hour(1),
	})
	require.NoError(t, err)

	// A stranger cannot cancel.
	var denied *domain.AccessDeniedError
	_, err = env.svc.Cancel(bobCtx, b.ID)
	require.ErrorAs(t, err, &denied)

	// Neither can a manager: manage grants approve/reject, not the right to
	// throw away someone else's reservation.
	_, err = env.svc.Cancel(managerCtx, b.ID)
	require.ErrorAs(t, err, &denied)

	// The owner can.
	cancelled, err := env.svc.Cancel(aliceCtx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	// So can a superuser, for someone else's booking.
	b2, err := env.svc.Create(aliceCtx, &domain.CreateBookingRequest{
		ResourceID: room.ID, StartTime: hour(2), EndTime: hour(3),
	})
	require.NoError(t, err)
	_, err = env.svc.Cancel(superCtx, b2.ID)
	require.NoError(t, err)
}

func TestBookingStatus_Table(t *testing.T) {
	assert.True(t, domain.StatusPending.CanTransitionTo(domain.StatusApproved))
	assert.True(t, domain.StatusPending.CanTransitionTo(domain.StatusRejected))
	assert.True(t, domain.StatusPending.CanTransitionTo(domain.StatusCancelled))
	assert.True(t, domain.StatusApproved.CanTransitionTo(domain.StatusCancelled))

	assert.False(t, domain.StatusPending.CanTransitionTo(domain.StatusPending))
	assert.False(t, domain.StatusApproved.CanTransitionTo(domain.StatusApproved))
	assert.False(t, domain.StatusApproved.CanTransitionTo(domain.StatusRejected))
	assert.False(t, domain.StatusRejected.CanTransitionTo(domain.StatusPending))
	assert.False(t, domain.StatusCancelled.CanTransitionTo(domain.StatusPending))

	assert.True(t, domain.StatusRejected.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.False(t, domain.StatusApproved.IsTerminal())
}
