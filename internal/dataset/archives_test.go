package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSplits verifies the catalog invariants: three splits, pairwise distinct
// targets, and the 2007 trainval/test collision resolved by retargeting.
func TestSplits(t *testing.T) {
	t.Parallel()

	splits := Splits()
	require.Len(t, splits, 3)

	targets := make(map[string]struct{}, len(splits))
	for _, a := range splits {
		require.NotEmpty(t, a.Filename)
		require.NotEmpty(t, a.Wrapper)
		require.NotEmpty(t, a.Source)
		require.NotContains(t, targets, a.Target)
		targets[a.Target] = struct{}{}
	}

	// Both 2007 archives extract the identical wrapper/source tree.
	trainval, test := splits[0], splits[1]
	require.Equal(t, trainval.Wrapper, test.Wrapper)
	require.Equal(t, trainval.Source, test.Source)
	require.NotEqual(t, trainval.Target, test.Target)

	// Trainval must be staged before test recreates the same source tree.
	require.Equal(t, "VOC2007", trainval.Target)
	require.Equal(t, "VOC2007_test", test.Target)
}

// TestArchiveURL checks URL composition against mirrors with and without trailing slashes.
func TestArchiveURL(t *testing.T) {
	t.Parallel()

	a := Archive{RemotePath: "voc2012/VOCtrainval_11-May-2012.tar"}

	for _, mirror := range []string{
		"http://host.robots.ox.ac.uk/pascal/VOC/",
		"http://host.robots.ox.ac.uk/pascal/VOC",
	} {
		got, err := a.URL(mirror)
		require.NoError(t, err)
		require.Equal(t, "http://host.robots.ox.ac.uk/pascal/VOC/voc2012/VOCtrainval_11-May-2012.tar", got)
	}

	_, err := a.URL("://bad")
	require.Error(t, err)
}

// TestArchivePaths checks the scratch and output path helpers.
func TestArchivePaths(t *testing.T) {
	t.Parallel()

	a := Archive{
		Filename: "VOCtest_06-Nov-2007.tar",
		Wrapper:  "VOCdevkit",
		Source:   "VOC2007",
		Target:   "VOC2007_test",
	}

	require.Equal(t, filepath.Join("scratch", "VOCtest_06-Nov-2007.tar"), a.LocalPath("scratch"))
	require.Equal(t, filepath.Join("scratch", "VOCdevkit", "VOC2007"), a.SourcePath("scratch"))
	require.Equal(t, filepath.Join("scratch", "VOCdevkit"), a.WrapperPath("scratch"))
	require.Equal(t, filepath.Join("out", "VOC2007_test"), a.TargetPath("out"))
}
