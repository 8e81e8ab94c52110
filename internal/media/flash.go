package media

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot user-facing notice produced by an admin save.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func success(msg string) Flash {
	return Flash{Level: FlashSuccess, Message: msg}
}

func failure(msg string) Flash {
	return Flash{Level: FlashError, Message: msg}
}
