// Package pipeline orchestrates a staging run: create the scratch directory,
// fetch the three split archives, stage each into its dataset directory,
// invoke the preparation routine, and remove the scratch area.
//
// Execution is strictly sequential and deliberately not idempotent. A run
// marker guards against two runs mutating the working directory at once.
package pipeline
