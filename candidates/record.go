package candidates

import (
	"strconv"
	"strings"

	"github.com/randalmurphal/webfit/truncate"
)

// canonicalOrder is the field order a record's document leads with. Fields
// outside this list follow in their construction order.
var canonicalOrder = []string{"tag", "xpath", "text", "bbox", "attributes", "children"}

// DefaultProtected are the fields excluded from truncation when the caller
// does not name any: the tag identifies the element and the bounding box is
// too short to be worth splicing.
var DefaultProtected = []string{"tag", "bbox"}

// Field is one key/value pair of a candidate record. Values are strings;
// callers render numbers and structured values once, at construction, so the
// truncation pipeline only ever sees text.
type Field struct {
	Key   string
	Value string
}

// Record is one ranked candidate element: an ordered set of string fields
// plus the set of fields protected from truncation. The protected set is
// fixed at construction and never appears in a removal plan.
type Record struct {
	// UID identifies the underlying element, when known.
	UID string

	// Rank is the candidate's position in the ranked list.
	Rank int

	fields    []Field
	protected map[string]bool
	doc       string
}

// New builds a record from ordered fields. The protected field names are
// excluded from truncation; pass none to use DefaultProtected. The record's
// document is rendered immediately with empty fields kept.
func New(uid string, rank int, fields []Field, protected ...string) *Record {
	if len(protected) == 0 {
		protected = DefaultProtected
	}
	set := make(map[string]bool, len(protected))
	for _, p := range protected {
		set[p] = true
	}
	r := &Record{
		UID:       uid,
		Rank:      rank,
		fields:    append([]Field(nil), fields...),
		protected: set,
	}
	r.refreshDoc(false)
	return r
}

// Fields returns a copy of the record's fields in document order.
func (r *Record) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// Get returns the value of the named field.
func (r *Record) Get(key string) (string, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Protected reports whether the named field is excluded from truncation.
func (r *Record) Protected(key string) bool {
	return r.protected[key]
}

// Doc returns the record's current document: the rendered form that rank
// formatting and token measurement operate on.
func (r *Record) Doc() string {
	return r.doc
}

func (r *Record) set(key, value string) {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = value
			return
		}
	}
}

func (r *Record) clone() *Record {
	c := &Record{
		UID:       r.UID,
		Rank:      r.Rank,
		fields:    append([]Field(nil), r.fields...),
		protected: r.protected,
		doc:       r.doc,
	}
	return c
}

// refreshDoc re-renders the cached document from the current field values.
func (r *Record) refreshDoc(removeEmpty bool) {
	r.doc = r.Format(removeEmpty)
}

// Format renders the record as its document form. Canonical fields come
// first, each on a "[[key]] value" line; any remaining fields are appended
// in construction order. With removeEmpty, fields whose value is empty are
// left out entirely.
func (r *Record) Format(removeEmpty bool) string {
	var b strings.Builder

	canonical := make(map[string]bool, len(canonicalOrder))
	for _, key := range canonicalOrder {
		canonical[key] = true
		value, ok := r.Get(key)
		if !ok || (removeEmpty && value == "") {
			continue
		}
		b.WriteString("[[")
		b.WriteString(key)
		b.WriteString("]] ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	for _, f := range r.fields {
		if canonical[f.Key] || (removeEmpty && f.Value == "") {
			continue
		}
		b.WriteString("\n[[")
		b.WriteString(f.Key)
		b.WriteString("]] ")
		b.WriteString(f.Value)
	}

	return b.String()
}

// FormatList renders ranked candidates as one "(rank) doc" line each.
// Newlines inside a document are flattened to spaces. When maxCharLen > 0
// each document is capped at that many characters. With useUIDRank the rank
// is rendered as "uid = <uid>" instead of the numeric rank.
func FormatList(records []*Record, maxCharLen int, useUIDRank bool) string {
	var b strings.Builder
	for _, r := range records {
		doc := strings.ReplaceAll(r.Doc(), "\n", " ")
		if maxCharLen > 0 {
			doc = truncate.ToLength(doc, maxCharLen)
		}

		b.WriteString("(")
		if useUIDRank {
			b.WriteString("uid = ")
			b.WriteString(r.UID)
		} else {
			b.WriteString(strconv.Itoa(r.Rank))
		}
		b.WriteString(") ")
		b.WriteString(doc)
		b.WriteString("\n")
	}
	return b.String()
}
