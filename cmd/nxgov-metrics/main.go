// nxgov-metrics exposes the runtime metrics of a canister in the Prometheus
// text exposition format.
//
// Usage:
//
//	# Serve /metrics with the default configuration
//	nxgov-metrics serve
//
//	# Serve with a configuration file
//	nxgov-metrics serve --config /etc/nxgov/metrics.yaml
//
//	# Print one metrics response without starting a server
//	nxgov-metrics dump --stub
//
//	# Check a configuration file
//	nxgov-metrics validate --config metrics.yaml
package main

func main() {
	Execute()
}
