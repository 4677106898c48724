// Package hwp5 opens HWP 5.x binary documents as range backends.
package hwp5

// HWP 5.x 파일 포맷 상수 정의
// 참조: https://cdn.hancom.com/link/docs/한글문서파일형식_5.0_revision1.3.pdf

const (
	// FileHeader 시그니처
	Signature = "HWP Document File"

	// FileHeader 크기 (고정)
	FileHeaderSize = 256

	FlagCompressed uint32 = 1 << 0 // 압축 여부
	FlagEncrypted  uint32 = 1 << 1 // 암호화 여부
	FlagDRM        uint32 = 1 << 4 // DRM 보안
)

// 스트림 이름
const (
	StreamFileHeader = "FileHeader"
	StreamDocInfo    = "DocInfo"
	StreamBodyText   = "BodyText"
)

// 레코드 태그 ID (HWPTAG_*)
const (
	TagFaceName      uint16 = 0x0013 // 글꼴
	TagCharShape     uint16 = 0x0015 // 글자 모양
	TagParaShape     uint16 = 0x0019 // 문단 모양
	TagParaHeader    uint16 = 0x0042 // 문단 헤더
	TagParaText      uint16 = 0x0043 // 문단 텍스트
	TagParaCharShape uint16 = 0x0044 // 문단 글자 모양
	TagCtrlHeader    uint16 = 0x0047 // 컨트롤 헤더
	TagListHeader    uint16 = 0x0048 // 리스트 헤더
	TagTable         uint16 = 0x004D // 표
)

// 컨트롤 ID. 레코드에는 바이트 순서가 뒤집혀 저장된다.
const (
	CtrlTable         = "tbl "
	CtrlHiddenComment = "tdut"
)

// 특수 문자 코드
const (
	CharLine           = 0x000A // 줄 나눔
	CharPara           = 0x000D // 문단 나눔
	CharTab            = 0x0009 // 탭
	CharDrawingObj     = 0x000B // 그리기 개체/표
	CharHyphen         = 0x001E // 하이픈
	CharNBSP           = 0x001F // 줄바꿈 방지 공백
	CharFixedWidthNBSP = 0x0018 // 고정폭 빈칸
)
