// Package localserver serves operational endpoints on a Unix domain socket.
//
// The socket is created with mode 0600, so file system permissions decide
// who may read it. Requests skip rate limiting and authentication:
//
//	GET /status    build info, uptime and store reachability
//	GET /metrics   Prometheus metrics, when a registry is configured
package localserver
