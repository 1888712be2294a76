//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"fitbook/internal/domain/actor"
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

type BatchHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCtrl      *gomock.Controller
	mockSchedules *commandsmock.MockScheduleCommands
	mockPayouts   *commandsmock.MockPayoutCommands
	mockAudit     *queriesmock.MockAuditQueries
}

func (s *BatchHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockSchedules = commandsmock.NewMockScheduleCommands(s.mockCtrl)
	s.mockPayouts = commandsmock.NewMockPayoutCommands(s.mockCtrl)
	s.mockAudit = queriesmock.NewMockAuditQueries(s.mockCtrl)

	batchHandler := api.NewBatchHandler(s.mockSchedules, s.mockPayouts)
	auditHandler := api.NewAuditHandler(s.mockAudit)

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		id := uuid.New()
		c.Set("actor", actor.Context{ID: &id, Role: actor.RoleAdmin, IP: c.ClientIP()})
		c.Next()
	}

	s.router.POST("/admin/classes/expand", authMiddleware, batchHandler.ExpandClasses)
	s.router.POST("/admin/payouts/calculate", authMiddleware, batchHandler.CalculatePayouts)
	s.router.GET("/admin/audit", authMiddleware, auditHandler.List)
}

func (s *BatchHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBatchHandlerSuite(t *testing.T) {
	suite.Run(t, new(BatchHandlerTestSuite))
}

func (s *BatchHandlerTestSuite) TestExpandClasses() {
	url := "/admin/classes/expand"

	s.Run("success: returns the expansion counters", func() {
		s.mockSchedules.EXPECT().ExpandRecurringClasses(gomock.Any(), gomock.Any(), 30).
			Return(&commands.ExpandResult{Created: 12, Skipped: 3}, nil).Times(1)

		body := map[string]any{"horizon_days": 30}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")

		var resp resdto.ExpandClassesResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal(12, resp.Created)
		s.Equal(3, resp.Skipped)
		s.Equal(0, resp.Failures)
	})

	s.Run("missing horizon: returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("horizon beyond validation: returns 400", func() {
		body := map[string]any{"horizon_days": 0}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("no token: returns 401", func() {
		body := map[string]any{"horizon_days": 30}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *BatchHandlerTestSuite) TestCalculatePayouts() {
	url := "/admin/payouts/calculate"

	s.Run("success: returns the payout counters", func() {
		s.mockPayouts.EXPECT().CalculateMonthlyPayouts(gomock.Any(), gomock.Any(), "2026-02").
			Return(&commands.PayoutResult{Created: 5, Existing: 2}, nil).Times(1)

		body := map[string]any{"period": "2026-02"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")

		var resp resdto.CalculatePayoutsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal(5, resp.Created)
		s.Equal(2, resp.Existing)
	})

	s.Run("malformed period: returns 400", func() {
		s.mockPayouts.EXPECT().CalculateMonthlyPayouts(gomock.Any(), gomock.Any(), "02-2026").
			Return(nil, errs.ErrInvalidInterval).Times(1)

		body := map[string]any{"period": "02-2026"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing period: returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BatchHandlerTestSuite) TestListAudit() {
	url := "/admin/audit"

	s.Run("success: pages the change log", func() {
		cursor := "v1:next"
		page := &queries.AuditPage{
			Entries: []*queries.AuditEntryView{
				{
					ID:         uuid.New(),
					EntityKind: "booking",
					EntityID:   uuid.New(),
					Action:     "updated",
					CreatedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				},
			},
			NextCursor: &cursor,
		}
		s.mockAudit.EXPECT().List(gomock.Any(), gomock.Any(), 50, "").
			Return(page, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=50", nil, "token")

		var resp queries.AuditPage
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Require().Len(resp.Entries, 1)
		s.Equal("booking", resp.Entries[0].EntityKind)
		s.Require().NotNil(resp.NextCursor)
		s.Equal(cursor, *resp.NextCursor)
	})

	s.Run("filters forwarded to the query", func() {
		entityID := uuid.New()
		s.mockAudit.EXPECT().
			List(gomock.Any(), gomock.Cond(func(x any) bool {
				f, ok := x.(queries.AuditFilter)
				return ok && f.EntityID != nil && *f.EntityID == entityID &&
					f.EntityKind != nil && *f.EntityKind == "booking"
			}), 0, "").
			Return(&queries.AuditPage{Entries: []*queries.AuditEntryView{}}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			url+"?entity_kind=booking&entity_id="+entityID.String(), nil, "token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("malformed entity_id: returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?entity_id=nope", nil, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("malformed cursor: returns 400", func() {
		s.mockAudit.EXPECT().List(gomock.Any(), gomock.Any(), 0, "garbage").
			Return(nil, queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after=garbage", nil, "token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
