package provisioning

import "log"

// Observer receives progress output during a run.
type Observer interface {
	Printf(format string, v ...any)
}

// ConsoleObserver logs progress via the standard logger.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...any) {
	log.Printf(format, v...)
}
