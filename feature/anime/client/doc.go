// Package client talks to the upstream catalog list API.
//
// The feed is paginated: each response carries a results slice and a
// next_page URL (null on the last page). FetchPage retries transient
// failures with exponential backoff and gives up after the configured
// attempt count; exhaustion is the driver's signal to abort the pass.
package client
