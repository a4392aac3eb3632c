package adapter

// CaptchaRenderer produces a random challenge and its PNG image.
type CaptchaRenderer interface {
	Render() (challenge string, image []byte, err error)
}
