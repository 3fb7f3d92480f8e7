package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dnaarchive/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestPublishReachesConnectedClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws/audit", hub.Handler())
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/audit"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// registration happens asynchronously; publish until the client sees a row
	trail := &model.AuditTrail{ID: 3, EntityType: "Case", Action: "POST Case", PerformedBy: 1, Details: datatypes.JSON(`{"case_type":"Homicide"}`)}
	done := make(chan []byte, 1)
	go func() {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err == nil {
			done <- msg
		}
		close(done)
	}()

	var msg []byte
	deadline := time.After(5 * time.Second)
loop:
	for {
		hub.Publish(trail)
		select {
		case m, ok := <-done:
			require.True(t, ok, "no message received")
			msg = m
			break loop
		case <-deadline:
			t.Fatal("timed out waiting for audit row")
		case <-time.After(50 * time.Millisecond):
		}
	}

	var got model.AuditTrail
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, uint(3), got.ID)
	assert.Equal(t, "POST Case", got.Action)
	assert.JSONEq(t, `{"case_type":"Homicide"}`, string(got.Details))
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer*2; i++ {
			hub.Publish(&model.AuditTrail{ID: uint(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/ws/audit", nil)
	assert.True(t, check(req), "non-browser clients send no origin")

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(req))
}

func TestHandlerAfterShutdownDoesNotHang(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	returned := make(chan struct{}, 1)
	r := gin.New()
	r.GET("/ws/audit", func(c *gin.Context) {
		hub.Handler()(c)
		returned <- struct{}{}
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/audit"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("handler blocked registering with a stopped hub")
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "server closes the connection")
}
