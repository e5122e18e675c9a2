// Package pipeline runs an analysis as a sequence of steps.
//
// A website analysis runs PageFetchStep, StylesheetStep, ColorExtractStep
// and ScoreStep. An image analysis runs ImagePaletteStep and ScoreStep.
// Each step reads and fills the shared *model.Analysis.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. Website and image analyses share the scoring tail
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between network-bound stages
//
// BatchProcessor runs one pipeline per target with bounded concurrency
// using errgroup.
package pipeline
