package hwpx

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/roboco-io/typodiff/internal/backend"
)

// 패키지 안의 고정 경로
const (
	ManifestPath = "Contents/content.hpf"
	HeaderPath   = "Contents/header.xml"
)

// Opener opens HWPX files as tree backends.
type Opener struct{}

// NewOpener creates a new HWPX opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Format implements backend.Opener.
func (o *Opener) Format() backend.Format {
	return backend.FormatHWPX
}

// Open implements backend.Opener.
func (o *Opener) Open(filename string) (*backend.Handle, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open HWPX file: %w", err)
	}
	defer zr.Close()

	files := make(map[string][]byte)
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".xml") && !strings.HasSuffix(f.Name, ".hpf") {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		files[f.Name] = data
	}

	tree, err := Decode(files)
	if err != nil {
		return nil, err
	}
	return &backend.Handle{Format: backend.FormatHWPX, Tree: tree}, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Decode builds a tree from the package files keyed by their zip path.
func Decode(files map[string][]byte) (*backend.Tree, error) {
	header, ok := lookup(files, HeaderPath)
	if !ok {
		return nil, fmt.Errorf("header not found: %s", HeaderPath)
	}
	styles, err := ParseStyles(header)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	sections, err := sectionPaths(files)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("no section found in package")
	}

	r := &sectionReader{styles: styles}
	tree := &backend.Tree{}
	for _, name := range sections {
		blocks, err := r.readSection(files[name])
		if err != nil {
			return nil, fmt.Errorf("failed to parse section %s: %w", name, err)
		}
		tree.Blocks = append(tree.Blocks, blocks...)
	}
	return tree, nil
}

// sectionPaths resolves section files through the manifest, falling back
// to Contents/sectionN.xml when there is none.
func sectionPaths(files map[string][]byte) ([]string, error) {
	if data, ok := lookup(files, ManifestPath); ok {
		manifest, err := ParseManifest(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse manifest: %w", err)
		}
		var paths []string
		for _, href := range manifest.SectionHrefs() {
			for _, candidate := range []string{href, path.Join(path.Dir(ManifestPath), href)} {
				if _, ok := files[candidate]; ok {
					paths = append(paths, candidate)
					break
				}
			}
		}
		if len(paths) > 0 {
			return paths, nil
		}
	}

	var paths []string
	for name := range files {
		if strings.HasPrefix(name, "Contents/") && isSection(name) {
			paths = append(paths, name)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) < len(paths[j])
		}
		return paths[i] < paths[j]
	})
	return paths, nil
}

// lookup finds a package file by path, ignoring case.
func lookup(files map[string][]byte, name string) ([]byte, bool) {
	if data, ok := files[name]; ok {
		return data, true
	}
	for k, data := range files {
		if strings.EqualFold(k, name) {
			return data, true
		}
	}
	return nil, false
}
