package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-supplier-backend/models"
)

// Event types
const (
	EventOrderUpdate    = "order_update"
	EventOrderCancelled = "order_cancelled"
	EventOrderCompleted = "order_completed"
	EventTablePaid      = "table_paid"
	EventSupplierUpdate = "supplier_update"
	EventAssignment     = "assignment"
	EventStaffNotif     = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client dashboard (cashier, food_incharge, supplier,
// admin) dan melakukan broadcast ke semuanya. Menggantikan polling
// per-5-30 detik dari client.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// ClientCount dipakai untuk monitoring/test
func ClientCount() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

// BroadcastOrderUpdate -> menyiarkan perubahan order ke semua dashboard
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastOrderCancelled -> order pending dibatalkan
func BroadcastOrderCancelled(orderID uint, tableNumber int) {
	broadcast(Message{
		Event: EventOrderCancelled,
		Data: map[string]interface{}{
			"order_id":     orderID,
			"table_number": tableNumber,
		},
	})
}

// BroadcastOrderCompleted -> projection baru dibuat
func BroadcastOrderCompleted(completed models.CompletedOrder) {
	broadcast(Message{
		Event: EventOrderCompleted,
		Data:  completed,
	})
}

// BroadcastTablePaid -> seluruh order meja sudah dibayar
func BroadcastTablePaid(tableNumber int, count int64) {
	broadcast(Message{
		Event: EventTablePaid,
		Data: map[string]interface{}{
			"table_number": tableNumber,
			"orders_paid":  count,
		},
	})
}

// BroadcastSupplierUpdate -> perubahan attendance/availability supplier
func BroadcastSupplierUpdate(supplier models.Supplier) {
	broadcast(Message{
		Event: EventSupplierUpdate,
		Data:  supplier,
	})
}

// BroadcastAssignment -> notifikasi assignment meja ke supplier
func BroadcastAssignment(notif models.SupplierNotification) {
	broadcast(Message{
		Event: EventAssignment,
		Data:  notif,
	})
}

// BroadcastStaffNotification -> notifikasi teks untuk staff
func BroadcastStaffNotification(message string) {
	broadcast(Message{
		Event: EventStaffNotif,
		Data:  message,
	})
}

// broadcast -> fungsi internal untuk mengirim pesan
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			continue
		}
	}
}
