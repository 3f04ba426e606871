package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesSent counts messages accepted by the router.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatrelay_messages_sent_total",
		Help: "Number of messages persisted and routed.",
	})

	// ActiveConnections tracks currently registered WebSocket clients.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chatrelay_ws_connections",
		Help: "Currently connected WebSocket clients.",
	})

	// DroppedClients counts clients disconnected for not keeping up.
	DroppedClients = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatrelay_ws_dropped_clients_total",
		Help: "Clients dropped because their send buffer was full.",
	})

	// PresenceBroadcasts counts status transitions actually fanned out.
	PresenceBroadcasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatrelay_presence_broadcasts_total",
		Help: "Presence transitions broadcast, by status.",
	}, []string{"status"})

	// NotificationsStored counts notification rows written.
	NotificationsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatrelay_notifications_stored_total",
		Help: "Notification records created.",
	})
)
