// Package httpserver runs an http.Handler with timeouts from Config and a
// graceful shutdown triggered by context cancellation or SIGINT/SIGTERM.
//
//	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
package httpserver
