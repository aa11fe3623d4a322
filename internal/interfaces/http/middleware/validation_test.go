package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestSetupValidator(t *testing.T) {
	// Should not panic
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFulfillmentStatusValidation(t *testing.T) {
	SetupValidator()
	gin.SetMode(gin.TestMode)

	type request struct {
		Status string `json:"status" binding:"required,fulfillment_status"`
	}

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": req.Status})
	})

	cases := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"accepts known status", `{"status":"Shipped"}`, http.StatusOK},
		{"accepts multi word status", `{"status":"Out for Delivery"}`, http.StatusOK},
		{"rejects unknown status", `{"status":"Teleported"}`, http.StatusBadRequest},
		{"rejects empty status", `{"status":""}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader([]byte(tc.body)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}
