package port

// Notifier surfaces outcomes to the user and to the diagnostic log.
type Notifier interface {
	Alert(message string)
	Log(message string, data any)
	LogError(message string, err error)
}
