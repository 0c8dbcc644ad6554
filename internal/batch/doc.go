// Package batch groups work so it is applied in as few steps as possible.
//
// Two helpers live here:
//   - Fragment collects rendered elements off-screen and mounts them into a
//     viewport in one pass, so a render never leaves a half-built viewport.
//   - Processor splits a slice into fixed-size batches and runs a callback per
//     batch, sequentially or with bounded concurrency, reporting progress.
package batch
