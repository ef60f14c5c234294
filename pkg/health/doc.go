// Package health serves liveness and readiness probes.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "optimizer": optimizerConfigured,
//	}, health.WithLogger(log)))
//
// Probes answer plain text ("OK" or "Service Unavailable") unless the client
// sends Accept: application/json or ?format=json, in which case the body is
//
//	{"status":"unhealthy","checks":{"optimizer":{"status":"unhealthy","error":"...","elapsed":"0s"}}}
//
// Checks run concurrently under one shared timeout (5s by default).
package health
