package notify

import (
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/port"
)

type Entry struct {
	Message string
	Data    any
	Err     error
}

// Recorder keeps every notification in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	alerts []string
	logs   []Entry
	errors []Entry
}

var _ port.Notifier = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
}

func (r *Recorder) Log(message string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, Entry{Message: message, Data: data})
}

func (r *Recorder) LogError(message string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, Entry{Message: message, Err: err})
}

func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

func (r *Recorder) Logs() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.logs...)
}

func (r *Recorder) Errors() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.errors...)
}
