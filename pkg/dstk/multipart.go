package dstk

import (
	"bytes"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	// FileFieldName is the form field the service reads uploads from.
	FileFieldName = "inputfile"

	defaultContentType = "application/octet-stream"
	maxBoundaryDraws   = 8
)

// knownContentTypes covers every format the file2text converter handles.
var knownContentTypes = map[string]string{
	"txt":  "text/plain",
	"htm":  "text/html",
	"html": "text/html",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// formPart is one section of a multipart/form-data body. A part with a
// FileName is a file upload and carries a Content-Type header.
type formPart struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

// multipartBody is an encoded request body plus the header that announces it.
type multipartBody struct {
	Boundary string
	Data     []byte
}

// ContentType is the value for the request's Content-Type header.
func (b multipartBody) ContentType() string {
	return "multipart/form-data; boundary=" + b.Boundary
}

// newMultipartBody picks a boundary that does not occur in any part and
// encodes the parts with it.
func newMultipartBody(parts []formPart) (multipartBody, error) {
	for range maxBoundaryDraws {
		boundary := newBoundary()
		if collides(boundary, parts) {
			continue
		}
		return multipartBody{Boundary: boundary, Data: encodeMultipart(boundary, parts)}, nil
	}
	return multipartBody{}, fmt.Errorf("no collision-free multipart boundary after %d attempts", maxBoundaryDraws)
}

func newBoundary() string {
	return "dstk" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func collides(boundary string, parts []formPart) bool {
	marker := []byte("--" + boundary)
	for _, p := range parts {
		if bytes.Contains(p.Data, marker) {
			return true
		}
	}
	return false
}

// encodeMultipart frames parts exactly the way mime/multipart.Writer does:
// CRLF line endings, a CRLF before every delimiter after the first, and a
// closing delimiter followed by CRLF.
func encodeMultipart(boundary string, parts []formPart) []byte {
	var buf bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			buf.WriteString("\r\n")
		}
		buf.WriteString("--" + boundary + "\r\n")
		disposition := fmt.Sprintf(`form-data; name="%s"`, escapeQuotes(p.FieldName))
		if p.FileName != "" {
			disposition += fmt.Sprintf(`; filename="%s"`, escapeQuotes(p.FileName))
		}
		buf.WriteString("Content-Disposition: " + disposition + "\r\n")
		if p.FileName != "" {
			contentType := p.ContentType
			if contentType == "" {
				contentType = defaultContentType
			}
			buf.WriteString("Content-Type: " + contentType + "\r\n")
		}
		buf.WriteString("\r\n")
		buf.Write(p.Data)
	}
	buf.WriteString("\r\n--" + boundary + "--\r\n")
	return buf.Bytes()
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// contentTypeFor guesses an upload's media type from its name, falling back
// to sniffing the content. Parameters such as charset are dropped because the
// converter compares bare media types.
func contentTypeFor(fileName string, data []byte) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ct, ok := knownContentTypes[ext]; ok {
		return ct
	}
	if ext != "" {
		if ct := bareMediaType(mime.TypeByExtension("." + ext)); ct != "" {
			return ct
		}
	}
	if len(data) > 0 {
		if ct := bareMediaType(mimetype.Detect(data).String()); ct != "" {
			return ct
		}
	}
	return defaultContentType
}

func bareMediaType(value string) string {
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return ""
	}
	return mediaType
}
