//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"fitbook/internal/domain/actor"
	"fitbook/internal/domain/booking"
	"fitbook/internal/handler/api"
	resdto "fitbook/internal/handler/dto/response"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/commands"
	"fitbook/internal/usecase/queries"
	"fitbook/tests/common/httptest"
	commandsmock "fitbook/tests/mock/commands"
	queriesmock "fitbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	// Stand-in for the JWT middleware: resolves a client actor from the header.
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		id := uuid.New()
		c.Set("actor", actor.Context{ID: &id, Role: actor.RoleClient, IP: c.ClientIP()})
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.CreateBooking)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.PATCH("/bookings/:id/move", authMiddleware, s.handler.MoveBooking)
	s.router.POST("/bookings/:id/cancel", authMiddleware, s.handler.CancelBooking)
	s.router.GET("/rooms/:id/schedule", authMiddleware, s.handler.ListRoomSchedule)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

var handlerNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func validCreateBody() map[string]any {
	return map[string]any{
		"kind":      "individual",
		"room_id":   uuid.New().String(),
		"staff_id":  uuid.New().String(),
		"starts_at": handlerNow.Add(48 * time.Hour).Format(time.RFC3339),
		"ends_at":   handlerNow.Add(49 * time.Hour).Format(time.RFC3339),
	}
}

func someBookingResult() *commands.BookingResult {
	return &commands.BookingResult{
		ID:       uuid.New(),
		Kind:     booking.KindIndividual,
		RoomID:   uuid.New(),
		StaffID:  uuid.New(),
		StartsAt: handlerNow.Add(48 * time.Hour),
		EndsAt:   handlerNow.Add(49 * time.Hour),
		Status:   booking.StatusScheduled,
	}
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/bookings"

	s.Run("success: returns 201 Created", func() {
		expected := someBookingResult()
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(expected, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCreateBody(), "token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(expected.ID, body.ID)
		s.Equal("scheduled", body.Status)
	})

	s.Run("conflict: returns 409 with the colliding interval", func() {
		detail := errs.ConflictDetail{
			ResourceKind: "room",
			ResourceID:   uuid.New(),
			BookingID:    uuid.New(),
			StartsAt:     handlerNow.Add(48 * time.Hour),
			EndsAt:       handlerNow.Add(49 * time.Hour),
		}
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.NewConflict(detail)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCreateBody(), "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "conflicts with an existing booking")

		var body struct {
			Detail struct {
				ResourceKind string `json:"resource_kind"`
				BookingID    string `json:"booking_id"`
			} `json:"detail"`
		}
		httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Equal("room", body.Detail.ResourceKind)
		s.Equal(detail.BookingID.String(), body.Detail.BookingID)
	})

	s.Run("lock timeout: returns 423", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrResourceLocked).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCreateBody(), "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusLocked, "busy")
	})

	s.Run("insufficient credits: returns 422", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrInsufficientCredits).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCreateBody(), "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "credit")
	})

	s.Run("validation: unknown kind is rejected", func() {
		body := validCreateBody()
		body["kind"] = "seminar"
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("validation: missing interval is rejected", func() {
		body := validCreateBody()
		delete(body, "starts_at")
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unauthorized without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCreateBody(), "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestMoveBooking() {
	id := uuid.New()
	url := "/bookings/" + id.String() + "/move"
	body := map[string]any{
		"starts_at": handlerNow.Add(50 * time.Hour).Format(time.RFC3339),
		"ends_at":   handlerNow.Add(51 * time.Hour).Format(time.RFC3339),
	}

	s.Run("success: returns 200", func() {
		s.mockCommands.EXPECT().MoveBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(someBookingResult(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("cross-day policy violation: returns 451", func() {
		s.mockCommands.EXPECT().MoveBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrPolicyViolation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnavailableForLegalReasons, "policy")
	})

	s.Run("unknown booking: returns 404", func() {
		s.mockCommands.EXPECT().MoveBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})

	s.Run("malformed id: returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/bookings/not-a-uuid/move", body, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	id := uuid.New()
	url := "/bookings/" + id.String() + "/cancel"

	s.Run("success without a body", func() {
		s.mockCommands.EXPECT().
			CancelBooking(gomock.Any(), gomock.Any(), commands.CancelBookingParams{BookingID: id}).
			Return(someBookingResult(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("force refund flag is forwarded", func() {
		s.mockCommands.EXPECT().
			CancelBooking(gomock.Any(), gomock.Any(), commands.CancelBookingParams{BookingID: id, ForceRefund: true}).
			Return(someBookingResult(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"force_refund": true}, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("terminal state: returns 409", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrTerminalState).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "terminal")
	})
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	view := &queries.BookingView{
		ID:       uuid.New(),
		Kind:     "class",
		RoomName: "Studio A",
		Status:   "scheduled",
	}

	s.Run("success: returns the read view", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		var body queries.BookingView
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("Studio A", body.RoomName)
	})

	s.Run("not found: returns 404", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).
			Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})
}

func (s *BookingHandlerTestSuite) TestListRoomSchedule() {
	roomID := uuid.New()
	from := handlerNow.Format(time.RFC3339)
	to := handlerNow.Add(7 * 24 * time.Hour).Format(time.RFC3339)

	s.Run("success: returns the interval list", func() {
		s.mockQueries.EXPECT().
			ListRoomSchedule(gomock.Any(), roomID, gomock.Any(), gomock.Any()).
			Return([]*queries.BookingView{{ID: uuid.New(), RoomID: roomID}}, nil).Times(1)

		url := "/rooms/" + roomID.String() + "/schedule?from=" + from + "&to=" + to
		var body []*queries.BookingView
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
	})

	s.Run("missing window parameters: returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms/"+roomID.String()+"/schedule", nil, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
