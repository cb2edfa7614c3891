package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The corpus JSON is free-form: pages mix keyed fields, ordered lists and
// leaf strings at arbitrary depth. encoding/json's map[string]any loses the
// source key order, so documents are decoded token-by-token into a small
// tagged variant that keeps members in file order.

type kind int

const (
	kindOther kind = iota
	kindMapping
	kindSequence
	kindText
)

type member struct {
	key string
	val value
}

type value struct {
	kind    kind
	members []member // kindMapping, in source order
	items   []value  // kindSequence
	text    string   // kindText
	raw     any      // kindOther: number, bool or null as decoded
}

func decodeDocument(data []byte) (value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return value{}, err
	}
	// trailing garbage after the root value
	if dec.More() {
		return value{}, fmt.Errorf("unexpected data after JSON root")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value{}, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := value{kind: kindMapping}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return value{}, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return value{}, err
				}
				v.members = append(v.members, member{key: key, val: child})
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return value{}, err
			}
			return v, nil
		case '[':
			v := value{kind: kindSequence}
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return value{}, err
				}
				v.items = append(v.items, child)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return value{}, err
			}
			return v, nil
		default:
			return value{}, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return value{kind: kindText, text: t}, nil
	default:
		// numbers, booleans, null
		return value{kind: kindOther, raw: t}, nil
	}
}

// get returns the first member with the given key.
func (v value) get(key string) (value, bool) {
	if v.kind != kindMapping {
		return value{}, false
	}
	for _, m := range v.members {
		if m.key == key {
			return m.val, true
		}
	}
	return value{}, false
}

// toAny converts back to the plain forms json.Marshal understands, for
// metadata carried through verbatim.
func (v value) toAny() any {
	switch v.kind {
	case kindMapping:
		m := make(map[string]any, len(v.members))
		for _, mem := range v.members {
			m[mem.key] = mem.val.toAny()
		}
		return m
	case kindSequence:
		items := make([]any, len(v.items))
		for i, it := range v.items {
			items[i] = it.toAny()
		}
		return items
	case kindText:
		return v.text
	default:
		return v.raw
	}
}
