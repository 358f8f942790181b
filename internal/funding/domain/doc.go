// Package domain holds the pure campaign-funding records and rules: project
// validation, the time-gated lifecycle phases, and the ledger conservation
// check. Nothing here performs I/O; orchestration lives in the service layer.
package domain
