package logger

import "go.uber.org/zap"

var Log = zap.NewNop()

func Init() {
	l, err := zap.NewProduction()
	if err != nil {
		return
	}
	Log = l
}
