// Package fingerprint derives a coarse device identifier from HTTP request
// headers. It is provenance metadata, not an authentication factor: the
// session subsystem records it on creation and the suspicious-activity
// detector may consult it, but nothing grants access based on it.
package fingerprint
