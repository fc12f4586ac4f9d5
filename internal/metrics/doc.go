// Package metrics records sequence, step, child process and update-check metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics can be
// switched on without nil checks at the call sites:
//
//	rec := metrics.NewPrometheusRecorder(reg)
//	orchestrator := app.New(cfg, app.WithRecorder(rec))
//
// When metrics.listen_address is configured the registry is exposed over HTTP by
// Serve; otherwise the process keeps the NoopRecorder.
package metrics
