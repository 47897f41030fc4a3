package wire

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported wire format")
)

// Format is one of the negotiated encodings for peer messages.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	default:
		return "", errors.Wrap(ErrUnsupportedFormat, s)
	}
}

func (f Format) ContentType() string {
	if f == FormatMsgpack {
		return ContentTypeMsgpack
	}
	return ContentTypeJSON
}

func (f Format) Encode(w io.Writer, v interface{}) error {
	switch f {
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(v)
	default:
		return json.NewEncoder(w).Encode(v)
	}
}

func (f Format) Decode(r io.Reader, v interface{}) error {
	switch f {
	case FormatMsgpack:
		return msgpack.NewDecoder(r).Decode(v)
	default:
		return json.NewDecoder(r).Decode(v)
	}
}

// FromContentType maps a Content-Type header to a Format. Missing headers
// default to JSON.
func FromContentType(ct string) (Format, error) {
	if ct == "" {
		return FormatJSON, nil
	}

	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(err, "parsing content type")
	}

	switch mt {
	case ContentTypeJSON:
		return FormatJSON, nil
	case ContentTypeMsgpack, "application/x-msgpack":
		return FormatMsgpack, nil
	default:
		return "", errors.Wrap(ErrUnsupportedFormat, mt)
	}
}

// Negotiate picks the response format from the Accept header, falling back
// to the request body format.
func Negotiate(r *http.Request) Format {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case ContentTypeMsgpack, "application/x-msgpack":
			return FormatMsgpack
		case ContentTypeJSON:
			return FormatJSON
		}
	}

	if f, err := FromContentType(r.Header.Get("Content-Type")); err == nil {
		return f
	}

	return FormatJSON
}

// DecodeRequest decodes r's body according to its Content-Type.
func DecodeRequest(r *http.Request, v interface{}) error {
	f, err := FromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	if err := f.Decode(r.Body, v); err != nil {
		return errors.Wrap(err, "decoding body")
	}

	return nil
}

// Respond writes v with status using the negotiated format.
func Respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	f := Negotiate(r)

	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(status)

	if v != nil {
		f.Encode(w, v)
	}
}

// Message is the small status body returned by peer endpoints.
type Message struct {
	Message string `msgpack:"m" json:"message"`
}
