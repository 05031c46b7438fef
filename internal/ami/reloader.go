package ami

import (
	"time"

	"dialplan/internal/logs"
)

// Reloader — политика повторов для операций бокового канала:
// ограниченное число попыток с фиксированной паузой. Каждый сбой
// логируется; итог — bool, исключений наружу нет.
type Reloader struct {
	Attempts int
	Delay    time.Duration
}

// Run выполняет операцию op с повторами до исчерпания попыток.
func (r Reloader) Run(op string, fn func() error) bool {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 1; i <= attempts; i++ {
		err := fn()
		if err == nil {
			logs.Logger.Infof("%s succeeded (attempt %d/%d)", op, i, attempts)
			return true
		}
		logs.Logger.Warnf("%s attempt %d/%d failed: %v", op, i, attempts, err)
		if i < attempts {
			time.Sleep(r.Delay)
		}
	}
	logs.Logger.Errorf("%s failed after %d attempts", op, attempts)
	return false
}
