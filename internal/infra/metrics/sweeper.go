package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(expiredRecordsSweptTotal) }

var expiredRecordsSweptTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "expired_records_swept_total",
		Help: "Expired sessions and invite records removed by the sweeper.",
	},
	[]string{"kind"}, // session, invite_link
)

func AddSwept(kind string, n int) {
	expiredRecordsSweptTotal.WithLabelValues(norm(kind)).Add(float64(n))
}
