// Package paraphrase implements the hybrid paraphrase strategy
// selector and its oracle adapters.
//
// Two paths can produce a candidate: the contextual synonym selector
// (always available, pure data lookup) and an external paraphrase
// oracle (optional, slow, may be absent). The Hybrid selector chooses
// which paths to run based on input length and oracle availability,
// scores every candidate through a quality oracle, and returns the
// winner as a single canonical ParaphraseResult.
//
// Design decision: oracle availability is decided once at
// construction, not probed per call. A Hybrid built without an oracle
// simply never schedules the oracle path; there is no exception-driven
// fallback inside the hot path. Oracle errors and timeouts at call
// time degrade to the selector path and are reported in logs only.
package paraphrase
