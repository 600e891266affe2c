package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nutri_edu_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIDEchoesExisting(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set(SessionHeader, "sess-existing")

	assert.Equal(t, "sess-existing", SessionID(c))
	assert.Equal(t, "sess-existing", w.Header().Get(SessionHeader))
}

func TestSessionIDMintsWhenAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	id := SessionID(c)
	require.NotEmpty(t, id)

	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, w.Header().Get(SessionHeader))
}

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 7},
		Email:     "admin@example.org",
		Role:      model.Admin,
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.Admin, claims.Role)
	assert.Equal(t, "admin@example.org", claims.Email)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Role: model.Admin}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Role: model.Admin}

	token, err := GenerateJWT(user, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret")
	assert.Error(t, err)
}
