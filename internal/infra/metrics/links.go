package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(inviteLinksTotal) }

var inviteLinksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "invite_links_total",
		Help: "Invite link issuance attempts by result.",
	},
	[]string{"result"}, // issued, failed, not_configured
)

func IncInviteLink(result string) {
	inviteLinksTotal.WithLabelValues(norm(result)).Inc()
}
