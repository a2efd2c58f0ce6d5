package primary

// Logger is the logging port services depend on; keyed pairs follow the
// zap sugared convention.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}
