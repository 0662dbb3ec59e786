// Package preparer invokes the external dataset preparation routine after
// staging completes. The routine is treated as a black box; only its exit
// status matters to the pipeline.
package preparer
