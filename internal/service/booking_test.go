package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	monday  = "2026-10-12"
	tuesday = "2026-10-13"
)

type bookingFixture struct {
	store  *memory.Store
	avail  AvailabilityService
	svc    BookingService
	email  *MockEmailService
	events *MockEventPublisher
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	store := memory.NewStore([]domain.Item{
		{ID: 1, Name: "Chef's Table", IsBookable: true},
		{ID: 2, Name: "Gift Card", IsBookable: false},
	}, time.Second)

	emailSvc := new(MockEmailService)
	emailSvc.On("SendBookingConfirmation", mock.Anything, mock.Anything, "Chef's Table").Return(nil)
	emailSvc.On("SendBookingCancellation", mock.Anything, mock.Anything, "Chef's Table").Return(nil)
	events := new(MockEventPublisher)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	avail := NewAvailabilityService(store.ItemRepository, store.AvailabilityRuleRepository)
	_, err := avail.CreateRule(context.Background(), 1, domain.Monday, "09:00", "17:00")
	require.NoError(t, err)

	return &bookingFixture{
		store:  store,
		avail:  avail,
		svc:    NewBookingService(store.ItemRepository, store.ReservationRepository, avail, emailSvc, events),
		email:  emailSvc,
		events: events,
	}
}

func request(date, start, end, name string) domain.BookingRequest {
	return domain.BookingRequest{ItemID: 1, Date: date, StartTime: start, EndTime: end, CustomerName: name}
}

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newBookingFixture(t)
		req := request(monday, "10:00", "11:00", "John")
		req.CustomerEmail = "john@example.com"

		res, err := f.svc.CreateBooking(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
		assert.NotZero(t, res.ID)

		f.events.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e domain.BookingEvent) bool {
			return e.Type == domain.BookingEventConfirmed && e.ReservationID == res.ID
		}))
		f.email.AssertCalled(t, "SendBookingConfirmation", mock.Anything, res, "Chef's Table")
	})

	t.Run("Overlap Conflicts", func(t *testing.T) {
		f := newBookingFixture(t)
		first, err := f.svc.CreateBooking(ctx, request(monday, "10:00", "11:00", "John"))
		require.NoError(t, err)

		res, err := f.svc.CreateBooking(ctx, request(monday, "10:30", "11:30", "Jane"))
		assert.Nil(t, res)
		var conflict *domain.SlotConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, first.ID, conflict.ReservationID)
		f.events.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("Adjacent Succeeds", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.svc.CreateBooking(ctx, request(monday, "10:00", "11:00", "John"))
		require.NoError(t, err)

		res, err := f.svc.CreateBooking(ctx, request(monday, "11:00", "12:00", "Jane"))
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
	})

	t.Run("Outside Availability", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.svc.CreateBooking(ctx, request(tuesday, "10:00", "11:00", "John"))
		assert.True(t, errors.Is(err, domain.ErrOutsideAvailability))
		assert.Contains(t, err.Error(), "TUESDAY")

		_, err = f.svc.CreateBooking(ctx, request(monday, "16:30", "17:30", "John"))
		assert.True(t, errors.Is(err, domain.ErrOutsideAvailability))
	})

	t.Run("Spanning Two Windows", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.avail.CreateRule(ctx, 1, domain.Tuesday, "09:00", "12:00")
		require.NoError(t, err)
		_, err = f.avail.CreateRule(ctx, 1, domain.Tuesday, "13:00", "17:00")
		require.NoError(t, err)

		_, err = f.svc.CreateBooking(ctx, request(tuesday, "11:00", "14:00", "John"))
		assert.True(t, errors.Is(err, domain.ErrOutsideAvailability))
	})

	t.Run("Validation", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.CreateBooking(ctx, request(monday, "11:00", "10:00", "John"))
		assert.True(t, errors.Is(err, domain.ErrInvalidRange))

		_, err = f.svc.CreateBooking(ctx, request(monday, "10:00", "10:00", "John"))
		assert.True(t, errors.Is(err, domain.ErrInvalidRange))

		_, err = f.svc.CreateBooking(ctx, request("12-10-2026", "10:00", "11:00", "John"))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))

		_, err = f.svc.CreateBooking(ctx, request(monday, "10:00", "11:00", "  "))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("Item Checks", func(t *testing.T) {
		f := newBookingFixture(t)

		req := request(monday, "10:00", "11:00", "John")
		req.ItemID = 2
		_, err := f.svc.CreateBooking(ctx, req)
		assert.True(t, errors.Is(err, domain.ErrNotBookable))

		req.ItemID = 404
		_, err = f.svc.CreateBooking(ctx, req)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("Notification Failure Does Not Fail Booking", func(t *testing.T) {
		store := memory.NewStore([]domain.Item{{ID: 1, Name: "Chef's Table", IsBookable: true}}, time.Second)
		avail := NewAvailabilityService(store.ItemRepository, store.AvailabilityRuleRepository)
		_, err := avail.CreateRule(ctx, 1, domain.Monday, "09:00", "17:00")
		require.NoError(t, err)

		emailSvc := new(MockEmailService)
		emailSvc.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
		events := new(MockEventPublisher)
		events.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
		svc := NewBookingService(store.ItemRepository, store.ReservationRepository, avail, emailSvc, events)

		req := request(monday, "10:00", "11:00", "John")
		req.CustomerEmail = "john@example.com"
		res, err := svc.CreateBooking(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
	})

	t.Run("Slow Broker Is Bounded", func(t *testing.T) {
		store := memory.NewStore([]domain.Item{{ID: 1, Name: "Chef's Table", IsBookable: true}}, time.Second)
		avail := NewAvailabilityService(store.ItemRepository, store.AvailabilityRuleRepository)
		_, err := avail.CreateRule(ctx, 1, domain.Monday, "09:00", "17:00")
		require.NoError(t, err)

		var hadDeadline bool
		events := new(MockEventPublisher)
		events.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			pctx := args.Get(0).(context.Context)
			_, hadDeadline = pctx.Deadline()
			<-pctx.Done()
		}).Return(context.DeadlineExceeded)
		svc := NewBookingService(store.ItemRepository, store.ReservationRepository, avail, new(MockEmailService), events)
		svc.(*bookingService).notifyTimeout = 50 * time.Millisecond

		started := time.Now()
		res, err := svc.CreateBooking(ctx, request(monday, "10:00", "11:00", "John"))
		require.NoError(t, err)
		assert.NotZero(t, res.ID)
		assert.True(t, hadDeadline)
		assert.Less(t, time.Since(started), 2*time.Second)
	})

	t.Run("Transient Store Failure", func(t *testing.T) {
		store := memory.NewStore([]domain.Item{{ID: 1, Name: "Chef's Table", IsBookable: true}}, time.Second)
		avail := NewAvailabilityService(store.ItemRepository, store.AvailabilityRuleRepository)
		_, err := avail.CreateRule(ctx, 1, domain.Monday, "09:00", "17:00")
		require.NoError(t, err)

		reservations := new(MockReservationRepo)
		reservations.On("CreateIfNoConflict", mock.Anything, mock.AnythingOfType("*domain.Reservation")).
			Return(domain.ErrTransient)
		events := new(MockEventPublisher)
		svc := NewBookingService(store.ItemRepository, reservations, avail, new(MockEmailService), events)

		res, err := svc.CreateBooking(ctx, request(monday, "10:00", "11:00", "John"))
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, domain.ErrTransient))
		events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestBookingService_ConcurrentIdenticalRequests(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.CreateBooking(ctx, request(monday, "14:00", "15:00", "Caller"))
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrSlotConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
}

func TestBookingService_CancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancel Frees Slot", func(t *testing.T) {
		f := newBookingFixture(t)
		req := request(monday, "10:00", "11:00", "John")
		req.CustomerEmail = "john@example.com"
		first, err := f.svc.CreateBooking(ctx, req)
		require.NoError(t, err)

		cancelled, err := f.svc.CancelBooking(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusCancelled, cancelled.Status)
		f.email.AssertCalled(t, "SendBookingCancellation", mock.Anything, cancelled, "Chef's Table")

		again, err := f.svc.CreateBooking(ctx, request(monday, "10:00", "11:00", "Jane"))
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, again.ID)
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		f := newBookingFixture(t)
		res, err := f.svc.CreateBooking(ctx, request(monday, "10:00", "11:00", "John"))
		require.NoError(t, err)
		_, err = f.svc.CancelBooking(ctx, res.ID)
		require.NoError(t, err)

		_, err = f.svc.CancelBooking(ctx, res.ID)
		assert.True(t, errors.Is(err, domain.ErrAlreadyCancelled))
	})

	t.Run("Not Found", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.svc.CancelBooking(ctx, 999)
		assert.True(t, errors.Is(err, domain.ErrNotFound))

		_, err = f.svc.GetBooking(ctx, 999)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestBookingService_ListBookings(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	for i, slot := range [][2]string{{"09:00", "10:00"}, {"10:00", "11:00"}, {"11:00", "12:00"}} {
		name := "John"
		if i == 1 {
			name = "Mary Jane"
		}
		_, err := f.svc.CreateBooking(ctx, request(monday, slot[0], slot[1], name))
		require.NoError(t, err)
	}

	t.Run("Defaults", func(t *testing.T) {
		page, err := f.svc.ListBookings(ctx, domain.ReservationFilter{}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int32(1), page.Page)
		assert.Equal(t, int32(DefaultPageSize), page.Limit)
		assert.Equal(t, int32(3), page.Total)
		assert.Equal(t, int32(1), page.TotalPages)
	})

	t.Run("Paging", func(t *testing.T) {
		page, err := f.svc.ListBookings(ctx, domain.ReservationFilter{ItemID: 1}, 2, 2)
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, int32(2), page.TotalPages)

		var far *BookingPage
		assert.NotPanics(t, func() {
			far, err = f.svc.ListBookings(ctx, domain.ReservationFilter{}, math.MaxInt32, MaxPageSize)
		})
		require.NoError(t, err)
		assert.Empty(t, far.Items)
		assert.NotNil(t, far.Items)
		assert.Equal(t, int32(3), far.Total)
		assert.Equal(t, int32(math.MaxInt32), far.Page)
	})

	t.Run("Limit Capped", func(t *testing.T) {
		page, err := f.svc.ListBookings(ctx, domain.ReservationFilter{}, 1, 1000)
		require.NoError(t, err)
		assert.Equal(t, int32(MaxPageSize), page.Limit)
	})

	t.Run("Customer Name Search", func(t *testing.T) {
		page, err := f.svc.ListBookings(ctx, domain.ReservationFilter{CustomerName: "jane"}, 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Mary Jane", page.Items[0].CustomerName)
	})

	t.Run("Bad Date Filter", func(t *testing.T) {
		_, err := f.svc.ListBookings(ctx, domain.ReservationFilter{Date: "yesterday"}, 1, 10)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("Empty Result", func(t *testing.T) {
		page, err := f.svc.ListBookings(ctx, domain.ReservationFilter{Date: tuesday}, 1, 10)
		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.Equal(t, int32(0), page.TotalPages)
	})
}

func TestBookingService_GetAvailableSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("Whole Window Free", func(t *testing.T) {
		f := newBookingFixture(t)
		slots, err := f.svc.GetAvailableSlots(ctx, 1, monday)
		require.NoError(t, err)
		assert.Equal(t, domain.Monday, slots.DayOfWeek)
		assert.Equal(t, []domain.TimeRange{{Start: "09:00", End: "17:00"}}, slots.AvailableSlots)
		assert.Empty(t, slots.BookedSlots)
	})

	t.Run("Booked Window Dropped", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.avail.CreateRule(ctx, 1, domain.Monday, "18:00", "22:00")
		require.NoError(t, err)
		res, err := f.svc.CreateBooking(ctx, request(monday, "10:00", "11:00", "John"))
		require.NoError(t, err)

		slots, err := f.svc.GetAvailableSlots(ctx, 1, monday)
		require.NoError(t, err)
		assert.Len(t, slots.AvailabilityRules, 2)
		assert.Equal(t, []domain.BookedSlot{{ReservationID: res.ID, StartTime: "10:00", EndTime: "11:00"}}, slots.BookedSlots)
		assert.Equal(t, []domain.TimeRange{{Start: "18:00", End: "22:00"}}, slots.AvailableSlots)
	})

	t.Run("No Rules", func(t *testing.T) {
		f := newBookingFixture(t)
		slots, err := f.svc.GetAvailableSlots(ctx, 1, tuesday)
		require.NoError(t, err)
		assert.Equal(t, domain.Tuesday, slots.DayOfWeek)
		assert.Empty(t, slots.AvailabilityRules)
		assert.Empty(t, slots.AvailableSlots)
	})

	t.Run("Not Bookable", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.svc.GetAvailableSlots(ctx, 2, monday)
		assert.True(t, errors.Is(err, domain.ErrNotBookable))

		_, err = f.svc.GetAvailableSlots(ctx, 404, monday)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
