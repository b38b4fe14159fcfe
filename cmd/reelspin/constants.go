package main

import "time"

// shutdownTimeout bounds graceful shutdown of either server
const shutdownTimeout = 10 * time.Second
