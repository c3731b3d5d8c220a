// Package testutil provides testing helpers shared by initkit packages.
//
// The main piece is LogRecorder, a writer that captures JSON log lines from a
// logger.Logger so tests can assert on exact message text and severity:
//
//	log, rec := testutil.NewLogRecorder()
//	_, err := initialize.SelectOnly(log, slices.Values(none), "Storage")
//	testutil.T(t).AssertMessages(rec, "fatal", "No implementations found for: Storage")
package testutil
