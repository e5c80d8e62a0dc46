// Package health provides the liveness and readiness probes.
//
// Liveness answers 200 whenever the process is serving HTTP. Readiness
// runs every registered check concurrently, each under its own timeout,
// and answers 503 if any fails. The server registers two checks:
//
//   - providers: at least one provider is eligible today
//   - usage_store: the usage store answers a load for today
//
// Example readiness body:
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "providers": {"status": "unhealthy", "message": "no eligible providers", "duration_ms": 0.01},
//	        "usage_store": {"status": "ok", "duration_ms": 0.4}
//	    },
//	    "timestamp": "2026-01-05T10:30:00Z"
//	}
package health
