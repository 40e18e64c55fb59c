// Package diag provides the diagnostics sink contract (spec §6.7): a
// leveled, formatted-string sink that every analysis pass writes to
// instead of calling fmt.Println directly, plus the AnalysisIncomplete
// signal (spec §7), which is never returned as an error and is only
// ever observable through this sink.
package diag
