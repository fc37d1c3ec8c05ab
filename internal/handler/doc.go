// Package handler implements the average temperature query endpoint.
// It reads the shared dataset, formats the mean as plain text and reports
// each query to the metrics collector.
package handler
