package logger

import "go.uber.org/zap"

// Log is the process-wide logger. It defaults to a no-op logger so
// packages can log safely from tests without calling Init.
var Log = zap.NewNop()

func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	if environment == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}

	if err != nil {
		return err
	}

	Log = l
	return nil
}

func Sync() {
	_ = Log.Sync()
}
