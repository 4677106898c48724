package hwp5

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/roboco-io/typodiff/internal/backend"
)

// Opener opens HWP 5.x files as range backends.
type Opener struct{}

// NewOpener creates a new HWP 5.x opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Format implements backend.Opener.
func (o *Opener) Format() backend.Format {
	return backend.FormatHWP
}

// Open implements backend.Opener.
func (o *Opener) Open(path string) (*backend.Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("HWP 파일을 열 수 없습니다: %w", err)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, err
	}
	return &backend.Handle{Format: backend.FormatHWP, Range: doc}, nil
}

// Read parses an OLE2 compound file into a range document.
func Read(r io.ReaderAt) (*backend.RangeDocument, error) {
	cfb, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("OLE2 문서 파싱 실패: %w", err)
	}

	streams := make(map[string][]byte)
	for entry, err := cfb.Next(); err == nil; entry, err = cfb.Next() {
		if len(entry.Path) > 0 && entry.Path[0] != StreamBodyText {
			continue
		}
		if entry.Name != StreamFileHeader && entry.Name != StreamDocInfo && !strings.HasPrefix(entry.Name, "Section") {
			continue
		}
		data, err := io.ReadAll(entry)
		if err != nil {
			return nil, fmt.Errorf("스트림 %s 읽기 실패: %w", entry.Name, err)
		}
		name := entry.Name
		if len(entry.Path) > 0 {
			name = strings.Join(entry.Path, "/") + "/" + name
		}
		streams[name] = data
	}

	return Decode(streams)
}

// Decode builds a range document from the FileHeader, DocInfo and
// BodyText/SectionN streams keyed by their storage path.
func Decode(streams map[string][]byte) (*backend.RangeDocument, error) {
	raw, ok := streams[StreamFileHeader]
	if !ok {
		return nil, fmt.Errorf("FileHeader 스트림을 찾을 수 없습니다")
	}
	header, err := ParseFileHeader(raw)
	if err != nil {
		return nil, err
	}
	if header.IsEncrypted() {
		return nil, fmt.Errorf("암호화된 HWP 문서는 지원하지 않습니다")
	}
	if header.HasDRM() {
		return nil, fmt.Errorf("DRM 보호된 HWP 문서는 지원하지 않습니다")
	}

	inflate := func(data []byte) ([]byte, error) {
		if !header.IsCompressed() {
			return data, nil
		}
		return DecompressStream(data)
	}

	raw, ok = streams[StreamDocInfo]
	if !ok {
		return nil, fmt.Errorf("DocInfo 스트림을 찾을 수 없습니다")
	}
	data, err := inflate(raw)
	if err != nil {
		return nil, fmt.Errorf("DocInfo 압축 해제 실패: %w", err)
	}
	info, err := ParseDocInfo(data)
	if err != nil {
		return nil, fmt.Errorf("DocInfo 파싱 실패: %w", err)
	}

	w := &bodyWriter{info: info, doc: backend.NewRangeDocument()}
	for _, name := range sectionNames(streams) {
		data, err := inflate(streams[name])
		if err != nil {
			return nil, fmt.Errorf("섹션 %s 압축 해제 실패: %w", name, err)
		}
		if err := w.writeSection(data); err != nil {
			return nil, fmt.Errorf("섹션 %s 파싱 실패: %w", name, err)
		}
	}
	return w.doc, nil
}

// sectionNames returns BodyText/SectionN paths in numeric order.
func sectionNames(streams map[string][]byte) []string {
	prefix := StreamBodyText + "/Section"
	var names []string
	for name := range streams {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := strconv.Atoi(strings.TrimPrefix(names[i], prefix))
		b, _ := strconv.Atoi(strings.TrimPrefix(names[j], prefix))
		return a < b
	})
	return names
}
