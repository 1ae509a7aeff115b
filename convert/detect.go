package convert

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// headSize is enough for filetype matchers and for markup sniffing.
const headSize = 512

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

func (e srcEncoding) String() string {
	switch e {
	case encUTF8:
		return "utf-8"
	case encUTF16BigEndian:
		return "utf-16be"
	case encUTF16LittleEndian:
		return "utf-16le"
	case encUTF32BigEndian:
		return "utf-32be"
	case encUTF32LittleEndian:
		return "utf-32le"
	}
	return "unknown"
}

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks at byte order mark. UTF-32LE must be checked before
// UTF-16LE, they share first two bytes.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// selectReader returns reader producing UTF-8 without byte order mark.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return unicode.UTF8BOM.NewDecoder().Reader(r)
	case encUTF16BigEndian:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Reader(r)
	case encUTF16LittleEndian:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Reader(r)
	case encUTF32BigEndian:
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder().Reader(r)
	case encUTF32LittleEndian:
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder().Reader(r)
	}
	// this should never happen
	panic(fmt.Sprintf("unsupported source encoding %d", enc))
}

var markupType = filetype.NewType("html", "text/html")

func init() {
	filetype.AddMatcher(markupType, isMarkup)
}

// isMarkup accepts text whose first tag-like construct is an element,
// declaration, comment or processing instruction. Leading text is allowed:
// fragments often start with it.
func isMarkup(buf []byte) bool {
	if enc := detectUTF(buf); enc != encUnknown {
		if decoded, err := io.ReadAll(io.LimitReader(selectReader(bytes.NewReader(buf), enc), headSize)); err == nil || len(decoded) > 0 {
			buf = decoded
		}
	}
	if bytes.IndexByte(buf, 0) >= 0 {
		return false
	}
	for {
		i := bytes.IndexByte(buf, '<')
		if i < 0 || i+1 >= len(buf) {
			return false
		}
		c := buf[i+1]
		if c == '!' || c == '?' || c == '/' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			return true
		}
		buf = buf[i+1:]
	}
}

func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, headSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}

func isMarkupHead(head []byte) (bool, srcEncoding) {
	kind, err := filetype.Match(head)
	if err != nil || kind != markupType {
		return false, encUnknown
	}
	return true, detectUTF(head)
}

// isArchiveFile checks extension and zip signature.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return false, err
	}
	return filetype.Is(head, "zip"), nil
}

// isDocumentFile checks that file has one of accepted extensions and its
// content looks like markup.
func isDocumentFile(path string, accepts func(string) bool) (bool, srcEncoding, error) {
	if !accepts(path) {
		return false, encUnknown, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := isMarkupHead(head)
	return ok, enc, nil
}

func isDocumentInArchive(f *zip.File, name string, accepts func(string) bool) (bool, srcEncoding, error) {
	if !accepts(name) {
		return false, encUnknown, nil
	}
	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	head, err := readHead(r)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := isMarkupHead(head)
	return ok, enc, nil
}

var prologEncoding = regexp.MustCompile(`^(\s*<\?xml[^>]*?encoding\s*=\s*["'])([^"']*)(["'])`)

// decodeDocument converts document bytes to UTF-8 and names the encoding it
// used. Input is expected to have byte order mark already removed. XHTML
// without forced encoding keeps its bytes: encoding declared in XML prolog
// is honored when it is read. After conversion the prolog always declares
// UTF-8.
func decodeDocument(data []byte, xhtml bool, forced encoding.Encoding) ([]byte, string, error) {
	var name string
	switch {
	case forced != nil:
		decoded, err := forced.NewDecoder().Bytes(data)
		if err != nil {
			return nil, "", fmt.Errorf("unable to decode document: %w", err)
		}
		data = decoded
		if name, err = ianaindex.IANA.Name(forced); err != nil {
			name = "forced"
		}
		if xhtml {
			data = prologEncoding.ReplaceAll(data, []byte("${1}utf-8${3}"))
		}
	case xhtml:
		name = "declared"
		if m := prologEncoding.FindSubmatch(data); m != nil {
			name = strings.ToLower(string(m[2]))
			// prolog readable as ASCII means BOM was already consumed
			if strings.HasPrefix(name, "utf-16") || strings.HasPrefix(name, "utf-32") {
				data = prologEncoding.ReplaceAll(data, []byte("${1}utf-8${3}"))
			}
		}
	default:
		e, n, _ := charset.DetermineEncoding(data, "text/html")
		name = n
		if n != "utf-8" {
			decoded, err := e.NewDecoder().Bytes(data)
			if err != nil {
				return nil, "", fmt.Errorf("unable to decode document as %s: %w", n, err)
			}
			data = decoded
		}
	}
	return data, name, nil
}
