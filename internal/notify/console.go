package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/logkey"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
)

// Console writes alerts as lines to a writer and sends log calls to zap.
type Console struct {
	logger *zap.Logger

	mu     sync.Mutex
	alerts io.Writer
}

var _ port.Notifier = (*Console)(nil)

func NewConsole(logger *zap.Logger, alerts io.Writer) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	if alerts == nil {
		alerts = io.Discard
	}

	return &Console{logger: logger, alerts: alerts}
}

func (c *Console) Alert(message string) {
	c.logger.Warn("alert", zap.String("message", message))

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintln(c.alerts, message); err != nil {
		c.logger.Error("write alert", zap.String(logkey.ERROR, err.Error()))
	}
}

func (c *Console) Log(message string, data any) {
	c.logger.Info(message, zap.Any(logkey.Data, data))
}

func (c *Console) LogError(message string, err error) {
	c.logger.Error(message, zap.String(logkey.ERROR, errorText(err)))
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
