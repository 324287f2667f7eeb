package events

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-supplier-backend/models"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func dialTestClient(t *testing.T) (*websocket.Conn, func()) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		RegisterClient(ws, "cashier")
	}))

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		server.Close()
		t.Fatalf("failed to dial test server: %v", err)
	}

	return client, func() {
		client.Close()
		server.Close()
	}
}

func TestBroadcastReachesRegisteredClient(t *testing.T) {
	client, teardown := dialTestClient(t)
	defer teardown()

	assert.Equal(t, 1, ClientCount())

	BroadcastSupplierUpdate(models.Supplier{
		ID: 7, Name: "Budi", Attendance: models.AttendancePresent,
		Status: models.SupplierBusy,
	})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := client.ReadMessage()
	assert.NoError(t, err)

	var msg Message
	assert.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventSupplierUpdate, msg.Event)

	data := msg.Data.(map[string]interface{})
	assert.Equal(t, "busy", data["status"])
}
