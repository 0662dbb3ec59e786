// Package stager turns downloaded archives into the canonical dataset layout.
//
// Each archive is extracted in the scratch directory, its split directory is
// renamed out to the final dataset name, the intermediate VOCdevkit wrapper is
// discarded, and the consumed archive is deleted. Both 2007 archives extract
// the same VOCdevkit/VOC2007 tree, so staging is strictly sequential and the
// test split carries a distinct target name.
package stager
