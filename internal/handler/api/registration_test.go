//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"fitbook/internal/domain/actor"
	"fitbook/internal/domain/booking"
	"fitbook/internal/handler/api"
	resdto "fitbook/internal/handler/dto/response"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/commands"
	"fitbook/tests/common/httptest"
	commandsmock "fitbook/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RegistrationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockRegistrationCommands
	handler      *api.RegistrationHandler
}

func (s *RegistrationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockRegistrationCommands(s.mockCtrl)
	s.handler = api.NewRegistrationHandler(s.mockCommands)

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		id := uuid.New()
		c.Set("actor", actor.Context{ID: &id, Role: actor.RoleClient, IP: c.ClientIP()})
		c.Next()
	}

	s.router.POST("/classes/:id/registrations", authMiddleware, s.handler.Register)
	s.router.POST("/registrations/:id/cancel", authMiddleware, s.handler.Cancel)
	s.router.POST("/registrations/:id/check-in", authMiddleware, s.handler.CheckIn)
	s.router.POST("/registrations/:id/no-show", authMiddleware, s.handler.MarkNoShow)
}

func (s *RegistrationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRegistrationHandlerSuite(t *testing.T) {
	suite.Run(t, new(RegistrationHandlerTestSuite))
}

func someRegistrationResult(status booking.RegistrationStatus) *commands.RegistrationResult {
	return &commands.RegistrationResult{
		ID:           uuid.New(),
		BookingID:    uuid.New(),
		ClientID:     uuid.New(),
		Status:       status,
		CreditsSpent: 2,
	}
}

func (s *RegistrationHandlerTestSuite) TestRegister() {
	occurrenceID := uuid.New()
	url := "/classes/" + occurrenceID.String() + "/registrations"

	s.Run("success: returns 201 with the booked registration", func() {
		clientID := uuid.New()
		expected := someRegistrationResult(booking.RegistrationBooked)
		expected.ClientID = clientID
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any(), clientID, occurrenceID).
			Return(expected, nil).Times(1)

		body := map[string]any{"client_id": clientID.String()}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")

		var resp resdto.RegistrationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
		s.Equal(expected.ID, resp.ID)
		s.Equal("booked", resp.Status)
		s.Equal(int32(2), resp.CreditsSpent)
	})

	s.Run("full class: waitlisted result passes through", func() {
		expected := someRegistrationResult(booking.RegistrationWaitlist)
		expected.CreditsSpent = 0
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), occurrenceID).
			Return(expected, nil).Times(1)

		body := map[string]any{"client_id": uuid.New().String()}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")

		var resp resdto.RegistrationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
		s.Equal("waitlist", resp.Status)
		s.Equal(int32(0), resp.CreditsSpent)
	})

	s.Run("duplicate registration: returns 409", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), occurrenceID).
			Return(nil, errs.ErrAlreadyRegistered).Times(1)

		body := map[string]any{"client_id": uuid.New().String()}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("out of credits: returns 422", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), occurrenceID).
			Return(nil, errs.ErrInsufficientCredits).Times(1)

		body := map[string]any{"client_id": uuid.New().String()}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("missing client_id: returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("malformed occurrence id: returns 400", func() {
		body := map[string]any{"client_id": uuid.New().String()}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/classes/not-a-uuid/registrations", body, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("no token: returns 401", func() {
		body := map[string]any{"client_id": uuid.New().String()}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *RegistrationHandlerTestSuite) TestCancel() {
	registrationID := uuid.New()
	url := "/registrations/" + registrationID.String() + "/cancel"

	s.Run("success: returns 200 with cancelled status", func() {
		expected := someRegistrationResult(booking.RegistrationCancelled)
		s.mockCommands.EXPECT().CancelRegistration(gomock.Any(), gomock.Any(), registrationID).
			Return(expected, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")

		var resp resdto.RegistrationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("cancelled", resp.Status)
	})

	s.Run("unknown registration: returns 404", func() {
		s.mockCommands.EXPECT().CancelRegistration(gomock.Any(), gomock.Any(), registrationID).
			Return(nil, errs.ErrRegistrationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *RegistrationHandlerTestSuite) TestCheckIn() {
	registrationID := uuid.New()
	url := "/registrations/" + registrationID.String() + "/check-in"

	s.Run("success: returns 200 with attended status", func() {
		expected := someRegistrationResult(booking.RegistrationAttended)
		s.mockCommands.EXPECT().CheckIn(gomock.Any(), gomock.Any(), registrationID).
			Return(expected, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")

		var resp resdto.RegistrationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("attended", resp.Status)
	})

	s.Run("waitlisted registration: returns 409", func() {
		s.mockCommands.EXPECT().CheckIn(gomock.Any(), gomock.Any(), registrationID).
			Return(nil, errs.ErrTerminalState).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *RegistrationHandlerTestSuite) TestMarkNoShow() {
	registrationID := uuid.New()
	url := "/registrations/" + registrationID.String() + "/no-show"

	s.Run("success: returns 200 with no_show status", func() {
		expected := someRegistrationResult(booking.RegistrationNoShow)
		s.mockCommands.EXPECT().MarkNoShow(gomock.Any(), gomock.Any(), registrationID).
			Return(expected, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")

		var resp resdto.RegistrationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("no_show", resp.Status)
	})
}
