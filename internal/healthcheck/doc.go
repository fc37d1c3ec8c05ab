// Package healthcheck serves the /health endpoint. It answers 200 with a
// summary of the loaded dataset, which is what upstream load balancers
// probe for.
package healthcheck
