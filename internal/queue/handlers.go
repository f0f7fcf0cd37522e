package queue

import "github.com/hibiken/asynq"

// HandlersRegistry collects task handlers before the worker starts serving.
type HandlersRegistry struct {
	mux *asynq.ServeMux
}

func NewHandlersRegistry() *HandlersRegistry {
	return &HandlersRegistry{mux: asynq.NewServeMux()}
}

// Register binds a task type to its handler.
func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
}

// Mux returns the assembled handler mux for asynq.Server.Run.
func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}
