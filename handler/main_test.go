// handler/main_test.go
package handler

import (
	"os"
	"stellarone-api/config"
	"stellarone-api/logger"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	config.AppConfig.JWT.SecretKey = "test-secret"
	config.AppConfig.JWT.ExpiryHours = 72
	os.Exit(m.Run())
}
