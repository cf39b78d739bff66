// Package sdn reads the OFAC Specially Designated Nationals list published
// as SDN.xml and adapts it to the monitor: Entry is the record type, Equal
// the change rule, and Retriever the source.
package sdn

import "strings"

// Namespace is the default XML namespace of SDN.xml documents.
const Namespace = "http://tempuri.org/sdnList.xsd"

const (
	rootElement  = "sdnList"
	entryElement = "sdnEntry"
)

// Entry is one <sdnEntry>. Only single-level properties are decoded; nested
// lists such as programs, aliases, and addresses are ignored.
type Entry struct {
	UID       int    `xml:"uid" json:"uid"`
	FirstName string `xml:"firstName,omitempty" json:"first_name,omitempty"`
	LastName  string `xml:"lastName" json:"last_name"`
	Title     string `xml:"title,omitempty" json:"title,omitempty"`
	SDNType   string `xml:"sdnType" json:"sdn_type"`
	Remarks   string `xml:"remarks,omitempty" json:"remarks,omitempty"`
}

// Key returns the entry UID.
func (e *Entry) Key() int {
	return e.UID
}

// Name joins the first and last name.
func (e *Entry) Name() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Equal reports whether two entries carry the same single-level properties.
// Two nil entries are equal; a nil and a non-nil entry are not. The SDN type
// is compared case-insensitively, everything else exactly.
func Equal(a, b *Entry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.UID == b.UID &&
		a.FirstName == b.FirstName &&
		a.LastName == b.LastName &&
		a.Title == b.Title &&
		strings.EqualFold(a.SDNType, b.SDNType) &&
		a.Remarks == b.Remarks
}
