// Package health provides liveness, readiness and version endpoints for the
// exporter.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("heartbeat", beat.Check)
//	r.Get("/health", checker.LivenessHandler())
//	r.Get("/ready", checker.ReadinessHandler())
//	r.Get("/version", health.VersionHandler(version, commit, buildTime))
//
// The handlers do not check the method; the router only mounts them for GET
// and HEAD.
package health
