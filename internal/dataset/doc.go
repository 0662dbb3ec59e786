// Package dataset is the catalog of Pascal VOC split archives: what to
// download, what each archive extracts, and which final dataset directory
// each split is promoted to.
package dataset
