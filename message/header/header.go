package header

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/quillmail/go-mimeutil/message/header/field"
	"github.com/quillmail/go-mimeutil/message/header/param"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation being
	// performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrNoSuchFieldParameter is returned by Header methods when the header
	// exists, but the requested parameter of the header does not.
	ErrNoSuchFieldParameter = errors.New("no such header field parameter")

	// ErrManyFields is returned by Header methods when the operation being
	// performed failed because there are multiple fields with the given name.
	ErrManyFields = errors.New("many header fields found")
)

// These are standard headers defined in RFC 5322 and RFC 2045.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	ContentDisposition      = "Content-disposition"
	ContentID               = "Content-id"
	ContentTransferEncoding = "Content-transfer-encoding"
	ContentType             = "Content-type"
	Date                    = "Date"
	From                    = "From"
	InReplyTo               = "In-reply-to"
	MessageID               = "Message-id"
	MIMEVersion             = "MIME-version"
	ReplyTo                 = "Reply-to"
	Sender                  = "Sender"
	Subject                 = "Subject"
	To                      = "To"
)

// Even more custom date formats, built from those seen in the wild that the
// usual parsers have trouble with.
const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

// Header wraps a Base, which does the actual storage and low-level field
// manipulation. This provides several methods to make reading the header
// more convenient and some caching for complex values parsed from header
// fields.
//
// The getter methods of this object return ErrNoSuchField if the field being
// fetched has not been set on the header.
type Header struct {
	// Base provides the low-level storage of header fields.
	Base

	// valueCache holds the semantic value parsed from a header field. Only
	// immutable values may be stored here.
	valueCache map[string]any
}

// Clone returns a deep copy of the header object.
func (h *Header) Clone() *Header {
	vc := make(map[string]any, len(h.valueCache))
	for k, v := range h.valueCache {
		vc[k] = v
	}

	return &Header{
		Base:       *h.Base.Clone(),
		valueCache: vc,
	}
}

func (h *Header) getValue(name string) (any, bool) {
	v, found := h.valueCache[strings.ToLower(name)]
	return v, found
}

func (h *Header) setValue(name string, value any) {
	if h.valueCache == nil {
		h.valueCache = make(map[string]any, h.Len())
	}
	h.valueCache[strings.ToLower(name)] = value
}

func (h *Header) dropValue(name string) {
	delete(h.valueCache, strings.ToLower(name))
}

// Set replaces the body of the named field, discarding any cached semantic
// value for it.
func (h *Header) Set(name, body string) {
	h.dropValue(name)
	h.Base.Set(name, body)
}

// Add appends a field with the given name and body, discarding any cached
// semantic value for the name.
func (h *Header) Add(name, body string) {
	h.dropValue(name)
	h.Base.Add(name, body)
}

// Delete removes all fields with the given name.
func (h *Header) Delete(name string) {
	h.dropValue(name)
	h.Base.Delete(name)
}

// Get retrieves the raw string value of the named field, as stored, which
// may still contain folding and encoded words.
//
// If the named field is not set in the header, it will return an empty
// string with ErrNoSuchField. If there are multiple fields with the given
// name, it will return the first value found along with ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	b := h.GetField(ixs[0]).Body()
	if len(ixs) > 1 {
		return b, ErrManyFields
	}

	return b, nil
}

// GetAll retrieves the raw string values of every field with the given
// name, in document order. It returns nil with ErrNoSuchField when no field
// with the name is present.
func (h *Header) GetAll(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.Body()
	}

	return bs, nil
}

// GetDecoded retrieves the named field unfolded and with any RFC 2047
// encoded words decoded. Decoding is a read-time transform: the stored value
// is never modified.
func (h *Header) GetDecoded(name string) (string, error) {
	b, err := h.Get(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return "", err
	}
	return field.UnfoldAndDecode(b), nil
}

// GetParamValue returns a param.Value for the header field matching the
// given name. The field body is unfolded before parsing. Parsing itself is
// lenient and cannot fail; only a missing field produces an error.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	if v, found := h.getValue(name); found {
		if pv, isPV := v.(*param.Value); isPV {
			return pv, nil
		}
	}

	body, err := h.Get(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return nil, err
	}

	pv := param.Parse(field.Unfold(body))
	h.setValue(name, pv)

	return pv, nil
}

// GetMediaType returns the primary value of the Content-type header, e.g.,
// "text/plain" or "multipart/mixed". It returns ErrNoSuchField when the
// header is not set.
func (h *Header) GetMediaType() (string, error) {
	pv, err := h.GetParamValue(ContentType)
	if err != nil {
		return "", err
	}
	return pv.MediaType(), nil
}

// SetMediaType sets the Content-type header to the given media type,
// discarding any parameters previously set on the field.
func (h *Header) SetMediaType(mt string) {
	h.Set(ContentType, mt)
}

// GetCharset returns the charset parameter of the Content-type header. It
// returns ErrNoSuchField when Content-type is not set and
// ErrNoSuchFieldParameter when the parameter is missing.
func (h *Header) GetCharset() (string, error) {
	pv, err := h.GetParamValue(ContentType)
	if err != nil {
		return "", err
	}

	if pv.Charset() == "" {
		return "", ErrNoSuchFieldParameter
	}
	return pv.Charset(), nil
}

// GetBoundary returns the boundary parameter of the Content-type header. It
// returns ErrNoSuchField when Content-type is not set and
// ErrNoSuchFieldParameter when the parameter is missing.
func (h *Header) GetBoundary() (string, error) {
	pv, err := h.GetParamValue(ContentType)
	if err != nil {
		return "", err
	}

	if pv.Boundary() == "" {
		return "", ErrNoSuchFieldParameter
	}
	return pv.Boundary(), nil
}

// SetBoundary replaces the boundary parameter of the Content-type header,
// keeping the media type and other parameters as they are. It returns
// ErrNoSuchField if no Content-type is set.
func (h *Header) SetBoundary(boundary string) error {
	pv, err := h.GetParamValue(ContentType)
	if err != nil {
		return err
	}

	mt := pv.MediaType()
	segments := []string{mt}
	if cs := pv.Charset(); cs != "" {
		segments = append(segments, fmt.Sprintf("%s=%s", param.Charset, cs))
	}
	segments = append(segments, fmt.Sprintf("%s=%q", param.Boundary, boundary))

	h.Set(ContentType, strings.Join(segments, "; "))
	return nil
}

// SetTransferEncoding sets the Content-transfer-encoding header.
func (h *Header) SetTransferEncoding(cte string) {
	h.Set(ContentTransferEncoding, cte)
}

// GetDisposition returns the primary value of the Content-disposition
// header, either "inline" or "attachment" for conformant mail. It returns
// ErrNoSuchField when the header is not set.
func (h *Header) GetDisposition() (string, error) {
	pv, err := h.GetParamValue(ContentDisposition)
	if err != nil {
		return "", err
	}
	return pv.Disposition(), nil
}

// GetFilename returns the filename parameter of the Content-disposition
// header. It returns ErrNoSuchField when the header is not set and
// ErrNoSuchFieldParameter when the parameter is missing.
func (h *Header) GetFilename() (string, error) {
	pv, err := h.GetParamValue(ContentDisposition)
	if err != nil {
		return "", err
	}

	if pv.Filename() == "" {
		return "", ErrNoSuchFieldParameter
	}
	return field.UnfoldAndDecode(pv.Filename()), nil
}

// SetDisposition sets the Content-disposition header to the given primary
// value, discarding any parameters previously set on the field.
func (h *Header) SetDisposition(d string) {
	h.Set(ContentDisposition, d)
}

// SetFilename replaces the filename parameter of the Content-disposition
// header, keeping the disposition as it is. When no Content-disposition is
// set yet, the disposition defaults to "attachment".
func (h *Header) SetFilename(fn string) {
	d, err := h.GetDisposition()
	if err != nil || d == "" {
		d = "attachment"
	}
	h.Set(ContentDisposition, fmt.Sprintf("%s; %s=%q", d, param.Filename, fn))
}

// GetTransferEncoding returns the Content-transfer-encoding token,
// lowercased and trimmed, ready for lookup in the transfer registry. It
// returns ErrNoSuchField when the header is not set.
func (h *Header) GetTransferEncoding() (string, error) {
	b, err := h.Get(ContentTransferEncoding)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(field.Unfold(b))), nil
}

// GetContentID returns the Content-id of this part with any angle-bracket
// wrapping removed. Stored values both with and without brackets appear in
// real mail, so comparisons must always go through this normalization. It
// returns ErrNoSuchField when the header is not set.
func (h *Header) GetContentID() (string, error) {
	b, err := h.Get(ContentID)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return "", err
	}
	return UnwrapContentID(field.UnfoldAndDecode(b)), nil
}

// SetContentID sets the Content-id header, adding the conventional angle
// brackets when the given value has none.
func (h *Header) SetContentID(cid string) {
	if !strings.HasPrefix(cid, "<") {
		cid = "<" + cid + ">"
	}
	h.Set(ContentID, cid)
}

// UnwrapContentID strips a single layer of angle-bracket wrapping from a
// content-id value, after trimming surrounding whitespace. Values without
// brackets are returned unchanged.
func UnwrapContentID(cid string) string {
	cid = strings.TrimSpace(cid)
	if len(cid) >= 2 && cid[0] == '<' && cid[len(cid)-1] == '>' {
		return cid[1 : len(cid)-1]
	}
	return cid
}

// GetSubject returns the Subject header, unfolded and decoded for display.
func (h *Header) GetSubject() (string, error) {
	return h.GetDecoded(Subject)
}

// SetSubject sets the Subject header. Non-ASCII text is stored as given;
// encoding happens when the field is serialized.
func (h *Header) SetSubject(s string) {
	h.Set(Subject, s)
}

// ParseTime provides the time parsing used by GetTime() and GetDate(). It
// attempts to parse the date using the format specified by RFC 5322 first
// and falls back to parsing it in many other formats seen in the wild.
//
// It either returns a parsed time or the parse error.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime gets the given date header field as a time.Time. It will attempt
// to parse the date in many formats, not just the format specified by RFC
// 5322 (though, it will try that first).
//
// It returns the zero value and ErrNoSuchField if the header does not
// exist, or the zero value and a parse error if the value is unparseable.
func (h *Header) GetTime(name string) (time.Time, error) {
	if v, found := h.getValue(name); found {
		if t, isTime := v.(time.Time); isTime {
			return t, nil
		}
	}

	body, err := h.Get(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return time.Time{}, err
	}

	t, err := ParseTime(field.Unfold(body))
	if err != nil {
		return t, err
	}

	h.setValue(name, t)
	return t, nil
}

// GetDate returns the Date header as a time.Time.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}

// ParseAddressList parses an address list the forgiving way: a strict parse
// is attempted first and on failure nil is returned rather than an error,
// since a bad address field must not prevent message display.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		return nil
	}
	return al
}

// GetAddressList returns an addr.AddressList for the named field. This
// method works hard to avoid parse errors: a badly formatted address field
// yields a nil list, not an error. It returns nil and ErrNoSuchField if the
// field is not set on the header.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	if v, found := h.getValue(name); found {
		if al, isAL := v.(addr.AddressList); isAL {
			return al, nil
		}
	}

	body, err := h.Get(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return nil, err
	}

	al := ParseAddressList(field.UnfoldAndDecode(body))
	h.setValue(name, al)

	return al, nil
}
