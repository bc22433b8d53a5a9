// Package clientip extracts the originating client IP from HTTP requests
// that may have passed through reverse proxies or load balancers. Values are
// validated with net.ParseIP so header spoofing can inject at worst a
// different valid IP, never arbitrary strings.
package clientip
