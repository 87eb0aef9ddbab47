// Package mefxml loads an XML fault-tree document into a *mef.Model
// (component J). It decodes the outer element structure with
// encoding/xml's struct tags, keeping each element's raw inner markup
// alongside its attributes, and walks the polymorphic formula/expression
// grammar itself with a small recursive-descent parser.
//
// The document root's own tag name is never inspected, so a document can
// be wrapped in any single root element. Unrecognized elements are
// skipped rather than rejected, so a document built for a newer dialect
// still loads the parts this loader understands.
package mefxml

import (
	"bytes"
	"encoding/xml"
	"io"
)

// rawElement captures one XML element's attributes and un-decoded inner
// markup, deferring the decision of how to interpret its children to the
// caller. offset is the byte position, in whatever buffer this element was
// decoded from, of its opening '<' — it is only meaningful when the
// element came directly off the original document's decoder (see
// scanRoot); elements reached through a re-wrapped InnerXML snippet leave
// it zero, since the snippet's offsets no longer correlate with the
// source file (see DESIGN.md's note on location tracking).
type rawElement struct {
	XMLName xml.Name
	Name    string `xml:"name,attr"`
	Value   string `xml:"value,attr"`
	Unit    string `xml:"unit,attr"`
	Min     string `xml:"min,attr"`
	Model   string `xml:"model,attr"`
	InnerXML []byte `xml:",innerxml"`

	offset int64
}

// childElements decodes every direct child element of a snippet of inner
// markup, preserving document order. It wraps the snippet in a synthetic
// root so encoding/xml can decode a fragment that may have more than one
// top-level element.
func childElements(inner []byte) ([]rawElement, error) {
	wrapped := make([]byte, 0, len(inner)+16)
	wrapped = append(wrapped, []byte("<_root>")...)
	wrapped = append(wrapped, inner...)
	wrapped = append(wrapped, []byte("</_root>")...)

	dec := xml.NewDecoder(bytes.NewReader(wrapped))
	var out []rawElement
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local == "_root" {
			continue
		}
		var raw rawElement
		if err := dec.DecodeElement(&raw, &se); err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
}

// decodeRoot decodes the document's single root element, whatever it is
// named, returning its attributes and inner markup.
func decodeRoot(data []byte) (rawElement, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return rawElement{}, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		var raw rawElement
		if err := dec.DecodeElement(&raw, &se); err != nil {
			return rawElement{}, err
		}
		return raw, nil
	}
}

// scanRoot decodes the document root's direct children off the real
// top-level decoder rather than a re-wrapped snippet, so each one can be
// stamped with its true byte offset before location tracking is lost to
// the snippet boundary (see rawElement.offset).
func scanRoot(data []byte) ([]rawElement, error) {
	root, err := decodeRoot(data)
	if err != nil {
		return nil, err
	}
	// The root's InnerXML is itself a snippet cut from data, but its
	// children were the document's direct top-level definitions in the
	// common case of a single flat wrapper; recover their real offsets by
	// locating each child's opening tag in the original buffer in order.
	children, err := childElements(root.InnerXML)
	if err != nil {
		return nil, err
	}
	search := 0
	for i := range children {
		tag := "<" + children[i].XMLName.Local
		pos := bytes.Index(data[search:], []byte(tag))
		if pos < 0 {
			continue
		}
		children[i].offset = int64(search + pos)
		search += pos + len(tag)
	}
	return children, nil
}
