package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RelayConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gurukul_relay_connections",
		Help: "Number of currently connected realtime clients.",
	})

	RelayMessagesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gurukul_relay_messages_delivered_total",
		Help: "Chat messages delivered to room members.",
	})

	RelayMessagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gurukul_relay_messages_dropped_total",
		Help: "Chat messages dropped because a client buffer was full.",
	})

	RelayEventsMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gurukul_relay_events_malformed_total",
		Help: "Inbound realtime events rejected by payload validation.",
	})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gurukul_payment_orders_created_total",
		Help: "Payment orders successfully created with the provider.",
	})

	OrdersFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gurukul_payment_orders_failed_total",
		Help: "Payment order attempts that failed at the provider.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
