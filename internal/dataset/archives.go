package dataset

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
)

// Archive describes one remote split archive and the directory moves needed
// to promote its contents out of the scratch area.
type Archive struct {
	// Filename is the archive's name on the mirror and in the scratch directory.
	Filename string
	// RemotePath is the archive location relative to the mirror base URL.
	RemotePath string
	// Wrapper is the top-level directory the archive extracts
	// (VOCdevkit for every Pascal VOC release).
	Wrapper string
	// Source is the split directory inside the wrapper.
	Source string
	// Target is the final dataset directory name in the output directory.
	// Both 2007 archives extract Wrapper/VOC2007, so the test split is
	// retargeted to keep the trainval tree from being overwritten.
	Target string
}

// Splits returns the three Pascal VOC archives in staging order. The 2007
// trainval split must be promoted before the 2007 test split recreates the
// same VOCdevkit/VOC2007 tree in the scratch directory.
func Splits() []Archive {
	return []Archive{
		{
			Filename:   "VOCtrainval_06-Nov-2007.tar",
			RemotePath: "voc2007/VOCtrainval_06-Nov-2007.tar",
			Wrapper:    "VOCdevkit",
			Source:     "VOC2007",
			Target:     "VOC2007",
		},
		{
			Filename:   "VOCtest_06-Nov-2007.tar",
			RemotePath: "voc2007/VOCtest_06-Nov-2007.tar",
			Wrapper:    "VOCdevkit",
			Source:     "VOC2007",
			Target:     "VOC2007_test",
		},
		{
			Filename:   "VOCtrainval_11-May-2012.tar",
			RemotePath: "voc2012/VOCtrainval_11-May-2012.tar",
			Wrapper:    "VOCdevkit",
			Source:     "VOC2012",
			Target:     "VOC2012",
		},
	}
}

// URL joins the mirror base URL with the archive's remote path,
// normalizing duplicate slashes.
func (a Archive) URL(mirror string) (string, error) {
	u, err := url.Parse(mirror)
	if err != nil {
		return "", fmt.Errorf("parse mirror URL: %w", err)
	}

	u.Path = path.Join(u.Path, a.RemotePath)

	return u.String(), nil
}

// LocalPath is where the downloaded archive lives inside the scratch directory.
func (a Archive) LocalPath(scratchDir string) string {
	return filepath.Join(scratchDir, a.Filename)
}

// SourcePath is where the split directory lands after extraction.
func (a Archive) SourcePath(scratchDir string) string {
	return filepath.Join(scratchDir, a.Wrapper, a.Source)
}

// WrapperPath is the intermediate extraction directory discarded after promotion.
func (a Archive) WrapperPath(scratchDir string) string {
	return filepath.Join(scratchDir, a.Wrapper)
}

// TargetPath is the final dataset directory in the output directory.
func (a Archive) TargetPath(outputDir string) string {
	return filepath.Join(outputDir, a.Target)
}
