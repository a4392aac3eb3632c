package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		captchaChallengesIssuedTotal,
		captchaOutcomesTotal,
		captchaSessionsActive,
	)
}

var (
	captchaChallengesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "captcha_challenges_issued_total",
			Help: "Total number of captcha challenges sent to users.",
		},
	)

	captchaOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captcha_outcomes_total",
			Help: "Verdicts on submitted captcha answers.",
		},
		[]string{"outcome"}, // expired, correct, incorrect, exhausted
	)

	captchaSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "captcha_sessions_active",
			Help: "Number of open captcha sessions.",
		},
	)
)

func IncChallengeIssued() {
	captchaChallengesIssuedTotal.Inc()
}

func IncCaptchaOutcome(outcome string) {
	captchaOutcomesTotal.WithLabelValues(norm(outcome)).Inc()
}

func SetActiveSessions(n int) {
	captchaSessionsActive.Set(float64(n))
}
