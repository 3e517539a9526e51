// Package health serves liveness and readiness probes.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "database": db.Healthcheck(conn),
//	}, health.WithTimeout(3*time.Second)))
//
// Readiness checks run concurrently under one deadline. Responses are plain
// text by default ("OK", or "Service Unavailable: <failed checks>") and JSON
// when the client sends Accept: application/json or ?format=json:
//
//	{"status":"unhealthy","checks":{"database":{"status":"unhealthy","error":"...","duration":"2ms"}}}
//
// [Run] exposes the same aggregation without HTTP, for CLI preflight checks.
package health
