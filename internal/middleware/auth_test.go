package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"lingo_plan_backend/internal/util"
	"lingo_plan_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}
}

type stubActivityRepo struct {
	called chan uint
	err    error
}

func (s *stubActivityRepo) UpdateLastSeen(userID uint) error {
	s.called <- userID
	return s.err
}

func newActivityContext(userID uint) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	if userID != 0 {
		c.Set("user", &util.Claims{UserID: userID})
	}
	return c
}

func TestActivityMiddlewareUpdatesLastSeen(t *testing.T) {
	repo := &stubActivityRepo{called: make(chan uint, 1)}

	ActivityMiddleware(repo)(newActivityContext(5))

	select {
	case userID := <-repo.called:
		assert.Equal(t, uint(5), userID)
	case <-time.After(time.Second):
		t.Fatal("UpdateLastSeen 未被调用")
	}
}

func TestActivityMiddlewareUpdateErrorDoesNotBlock(t *testing.T) {
	repo := &stubActivityRepo{
		called: make(chan uint, 1),
		err:    errors.New("connection reset"),
	}

	c := newActivityContext(7)
	ActivityMiddleware(repo)(c)

	// 更新失败只记日志，请求本身不受影响
	select {
	case <-repo.called:
	case <-time.After(time.Second):
		t.Fatal("UpdateLastSeen 未被调用")
	}
	assert.False(t, c.IsAborted())
}

func TestActivityMiddlewareSkipsAnonymous(t *testing.T) {
	repo := &stubActivityRepo{called: make(chan uint, 1)}

	ActivityMiddleware(repo)(newActivityContext(0))

	select {
	case <-repo.called:
		t.Fatal("匿名请求不应更新活跃时间")
	case <-time.After(50 * time.Millisecond):
	}
}
