// Package orderdesk holds module-level metadata.
package orderdesk

// Version is the release version of the orderdesk module.
const Version = "v0.1.0"
