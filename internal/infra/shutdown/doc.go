// Package shutdown provides graceful shutdown for liftlog-server.
//
// Hooks registered with OnShutdown run in reverse order once SIGINT or
// SIGTERM arrives or the context passed to Wait is cancelled. All hooks
// share one timeout.
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
