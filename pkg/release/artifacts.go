package release

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/ulikunitz/xz"
)

// ArtifactKind describes what kind of package archive a file in the dist
// directory is.
type ArtifactKind int

const (
	// KindUnknown marks files that are neither an sdist nor a wheel. The
	// upload glob still picks them up, which is why check reports them.
	KindUnknown ArtifactKind = iota
	// KindSdist is a source distribution (a tarball or zip of the source tree).
	KindSdist
	// KindWheel is a pre-built binary distribution (.whl).
	KindWheel
)

func (k ArtifactKind) String() string {
	switch k {
	case KindSdist:
		return "sdist"
	case KindWheel:
		return "wheel"
	default:
		return "unknown"
	}
}

// Artifact is one file found in the artifact directory.
type Artifact struct {
	Path    string
	Kind    ArtifactKind
	Size    int64
	Entries int
}

// Classify determines the artifact kind from the file name.
func Classify(name string) ArtifactKind {
	switch {
	case strings.HasSuffix(name, ".whl"):
		return KindWheel
	case strings.HasSuffix(name, ".tar.gz"),
		strings.HasSuffix(name, ".tgz"),
		strings.HasSuffix(name, ".tar.bz2"),
		strings.HasSuffix(name, ".tar.xz"),
		strings.HasSuffix(name, ".zip"):
		return KindSdist
	default:
		return KindUnknown
	}
}

// Inspect opens the archive and counts its entries which doubles as a sanity
// check: a truncated or corrupt archive fails here before twine ever sees it.
func Inspect(path string) (Artifact, error) {
	result := Artifact{
		Path: path,
		Kind: Classify(path),
	}

	info, err := os.Stat(path)
	if err != nil {
		return result, eris.Wrapf(err, "failed to check %s", path)
	}
	result.Size = info.Size()

	switch {
	case result.Kind == KindWheel, strings.HasSuffix(path, ".zip"):
		result.Entries, err = countZipEntries(path, info.Size())
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		result.Entries, err = countTarEntries(path, func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		})
	case strings.HasSuffix(path, ".tar.bz2"):
		result.Entries, err = countTarEntries(path, func(r io.Reader) (io.Reader, error) {
			return bzip2.NewReader(r), nil
		})
	case strings.HasSuffix(path, ".tar.xz"):
		result.Entries, err = countTarEntries(path, func(r io.Reader) (io.Reader, error) {
			return xz.NewReader(r)
		})
	default:
		// not an archive, nothing to inspect
		return result, nil
	}

	if err != nil {
		return result, eris.Wrapf(err, "failed to read archive %s", path)
	}

	if result.Entries == 0 {
		return result, eris.Errorf("archive %s contains no files", path)
	}

	return result, nil
}

// Scan inspects every file in the artifact directory. It returns the
// artifacts sorted by name so the output is stable. An empty or missing
// directory is not an error; it returns an empty slice, matching the upload
// behavior which simply passes an empty glob to the upload tool.
func Scan(distDir string) ([]Artifact, error) {
	entries, err := os.ReadDir(distDir)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return []Artifact{}, nil
		}
		return nil, eris.Wrapf(err, "failed to read %s", distDir)
	}

	result := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		artifact, err := Inspect(filepath.Join(distDir, entry.Name()))
		if err != nil {
			return nil, err
		}

		result = append(result, artifact)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result, nil
}

func countZipEntries(path string, size int64) (int, error) {
	handle, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer handle.Close()

	archive, err := zip.NewReader(handle, size)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range archive.File {
		if strings.HasSuffix(item.Name, "/") {
			continue
		}
		count++
	}

	return count, nil
}

func countTarEntries(path string, wrap func(io.Reader) (io.Reader, error)) (int, error) {
	handle, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer handle.Close()

	reader, err := wrap(handle)
	if err != nil {
		return 0, err
	}

	if closer, ok := reader.(io.Closer); ok {
		defer closer.Close()
	}

	count := 0
	archive := tar.NewReader(reader)
	for {
		item, err := archive.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}

		if item.FileInfo().IsDir() {
			continue
		}
		count++
	}

	return count, nil
}
