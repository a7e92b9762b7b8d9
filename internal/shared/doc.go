// Package shared holds helpers used by more than one layer of the dashboard.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and sample sensor CSV files used across package tests.
package shared
