package config

import "time"

// Defaults applied when the matching environment variable is unset
const (
	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultLogDir      = "logs"
	DefaultEnvironment = "dev"
	DefaultServiceName = "reelspin"
	DefaultVersion     = "dev"

	DefaultPlayServiceURL     = "http://localhost:8081"
	DefaultPlayRequestTimeout = 5 * time.Second
	DefaultOutcomeCacheSize   = 1024
	DefaultOutcomeCacheTTL    = 10 * time.Minute

	DefaultWatchdogTimeout  = 3 * time.Second
	DefaultSpinBaseDuration = 1200 * time.Millisecond
	DefaultSpinStagger      = 350 * time.Millisecond
	DefaultDecelDuration    = 400 * time.Millisecond
	DefaultFrameInterval    = 16 * time.Millisecond

	DefaultPlayerID        = "local"
	DefaultStartingBalance = "1000"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultWorkerCount     = 2
	DefaultWorkerQueueSize = 64

	DefaultPlaysvcPort    = 8081
	DefaultPlaysvcLatency = 150 * time.Millisecond

	DefaultPlaysvcFailureMode = "status"
)

var validFailureModes = map[string]bool{"status": true, "malformed": true, "hang": true}
