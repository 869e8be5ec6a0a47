package ast

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode parses a single JSON document from r into a Document.
//
// The stdlib tokenizer is used directly so that object member order is
// preserved and numbers keep their original lexeme (json.Number). Input
// after the first document is rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	doc := NewDocument()
	root, err := decodeValue(dec, doc)
	if err != nil {
		return nil, err
	}
	doc.Root = root

	// Anything but EOF after the document is trailing garbage.
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("unexpected data after JSON document")
		}
		return nil, fmt.Errorf("unexpected data after JSON document: %w", err)
	}

	return doc, nil
}

func decodeValue(dec *json.Decoder, doc *Document) (NodeID, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return InvalidNode, fmt.Errorf("unexpected end of JSON input")
		}
		return InvalidNode, fmt.Errorf("invalid JSON: %w", err)
	}
	return decodeToken(dec, doc, tok)
}

func decodeToken(dec *json.Decoder, doc *Document, tok json.Token) (NodeID, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec, doc)
		case '[':
			return decodeArray(dec, doc)
		}
		return InvalidNode, fmt.Errorf("invalid JSON: unexpected %q", t.String())
	case string:
		return doc.AddString(t), nil
	case json.Number:
		return doc.AddNumber(t.String()), nil
	case bool:
		return doc.AddBool(t), nil
	case nil:
		return doc.AddNull(), nil
	}
	return InvalidNode, fmt.Errorf("invalid JSON: unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder, doc *Document) (NodeID, error) {
	var members []Member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return InvalidNode, fmt.Errorf("invalid JSON: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return InvalidNode, fmt.Errorf("invalid JSON: object key %v", keyTok)
		}
		value, err := decodeValue(dec, doc)
		if err != nil {
			return InvalidNode, err
		}
		members = append(members, Member{Key: key, Value: value})
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return InvalidNode, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc.AddObject(members), nil
}

func decodeArray(dec *json.Decoder, doc *Document) (NodeID, error) {
	var elems []NodeID
	for dec.More() {
		value, err := decodeValue(dec, doc)
		if err != nil {
			return InvalidNode, err
		}
		elems = append(elems, value)
	}
	if _, err := dec.Token(); err != nil {
		return InvalidNode, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc.AddArray(elems), nil
}
