package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/transaction-intake-service/internal/domain/job"
)

func TestQueueHandler_Stats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockEnqueue := new(MockEnqueueService)
		handler := NewQueueHandler(testLogger(), mockEnqueue)

		mockEnqueue.On("Stats", mock.Anything).
			Return(&job.Stats{Waiting: 2, Active: 1, Completed: 40, Failed: 3}, nil).Once()

		router := gin.New()
		router.GET("/queue/stats", handler.Stats)

		req, _ := http.NewRequest(http.MethodGet, "/queue/stats", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevel map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevel))
		data, ok := topLevel["data"].(map[string]interface{})
		require.True(t, ok)

		assert.Equal(t, float64(2), data["waiting"])
		assert.Equal(t, float64(1), data["active"])
		assert.Equal(t, float64(40), data["completed"])
		assert.Equal(t, float64(3), data["failed"])
		mockEnqueue.AssertExpectations(t)
	})

	t.Run("EmptyQueueReportsZeros", func(t *testing.T) {
		mockEnqueue := new(MockEnqueueService)
		handler := NewQueueHandler(testLogger(), mockEnqueue)

		mockEnqueue.On("Stats", mock.Anything).Return(&job.Stats{}, nil).Once()

		router := gin.New()
		router.GET("/queue/stats", handler.Stats)

		req, _ := http.NewRequest(http.MethodGet, "/queue/stats", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevel map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevel))
		data := topLevel["data"].(map[string]interface{})
		assert.Equal(t, float64(0), data["waiting"])
		assert.Equal(t, float64(0), data["failed"])
	})

	t.Run("ServiceFailureMapsTo500", func(t *testing.T) {
		mockEnqueue := new(MockEnqueueService)
		handler := NewQueueHandler(testLogger(), mockEnqueue)

		mockEnqueue.On("Stats", mock.Anything).Return(nil, errors.New("db down")).Once()

		router := gin.New()
		router.GET("/queue/stats", handler.Stats)

		req, _ := http.NewRequest(http.MethodGet, "/queue/stats", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
