package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
)

// ListenAndServe runs svc's router until ctx is cancelled. It returns
// immediately with a nil error if svc has no endpoints (the exporter
// was disabled).
func ListenAndServe(ctx context.Context, svc *Service) error {
	endpoints := svc.ExposeOn()
	if len(endpoints) == 0 {
		return nil
	}

	srv := &http.Server{
		Addr:              endpoints[0].AddrConf,
		Handler:           svc.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
