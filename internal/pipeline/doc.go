// Package pipeline provides a framework for executing transformation steps
// in sequence.
//
// The pipeline pattern is used to process documents through multiple stages:
// paraphrasing, homoglyph substitution, invisible-character injection, and
// risk assessment. Each stage is implemented as a Step that receives the
// accumulated report and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running oracle calls
// 4. Stage order matters (paraphrase must run before substitution so the
//    synonym selector sees clean text), and the pipeline makes the order
//    explicit in one place
//
// The pipeline supports both individual transforms and batch processing with
// concurrency control using errgroup.
package pipeline
