package govim

import "go.uber.org/zap"

var log = zap.NewNop()

// SetLogger sets the logger used by the engine. nil turns logging off.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l.Named("govim")
}
