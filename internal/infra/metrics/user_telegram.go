package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		telegramCommandsReceivedTotal,
		telegramChannelsRegisteredTotal,
		telegramHandlerErrorsTotal,
	)
}

var (
	telegramCommandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Counts incoming messages, commands and callbacks from users.",
		},
		[]string{"command"},
	)

	telegramChannelsRegisteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_channels_registered_total",
			Help: "Times the bot was granted admin rights in a gateable chat.",
		},
	)

	telegramHandlerErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_handler_errors_total",
			Help: "Update handlers that returned an error or panicked.",
		},
	)
)

func IncTelegramCommand(command string) {
	telegramCommandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

func IncChannelRegistered() {
	telegramChannelsRegisteredTotal.Inc()
}

func IncHandlerError() {
	telegramHandlerErrorsTotal.Inc()
}
