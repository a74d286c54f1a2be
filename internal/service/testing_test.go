package service

import (
	"lingo_plan_backend/pkg/logger"

	"go.uber.org/zap"
)

func testInitLogger() {
	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}
}
