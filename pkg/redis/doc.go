// Package redis provides the connection bootstrap for the process-wide
// Redis instance used as the session cache. Connect retries until the server
// answers a ping or the configured budget runs out; everything after that is
// plain go-redis.
package redis
