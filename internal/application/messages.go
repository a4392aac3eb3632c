package application

import "fmt"

// CallbackRequestLink is the callback data of the "Request link" button.
const CallbackRequestLink = "request_link"

const (
	msgNotAdmin          = "The bot has not been added to the channel as an administrator yet. Please add the bot to your channel and grant it administrator rights."
	msgWelcome           = "Hi! Tap the button to get a link to the channel."
	msgRequestButton     = "Request link"
	msgNotSetUp          = "The bot is not set up for a channel yet."
	msgCaptchaCaption    = "Please enter the text from the image:"
	msgCaptchaFailed     = "Could not generate a captcha right now. Please try again."
	msgSessionExpired    = "Session expired. Start again with /start"
	msgAttemptsExhausted = "You have used all attempts. Start again with /start"
	msgLinkFailed        = "Failed to create the link. Please make sure the bot has permission to create invite links."
	msgChannelNotSet     = "The channel is not configured."
	msgChannelReady      = "Captcha is set up for this channel!"
	msgHelp              = "Commands:\n/start - request a link to the channel\n/help - show this message\n\nAfter tapping \"Request link\" reply with the text from the image. You have 3 attempts and 5 minutes."
)

func msgWrongCode(left int) string {
	return fmt.Sprintf("Wrong code. Attempts left: %d", left)
}

func msgInvite(url string) string {
	return "Congratulations! Here is your single-use link to the channel:\n" + url
}
