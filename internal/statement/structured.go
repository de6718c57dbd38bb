package statement

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// parseJSON accepts an array of flat objects or a single flat object. Key
// order is taken from the document itself so that repeated runs see the same
// column ordering.
func parseJSON(data []byte) (RawTable, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || (trimmed[0] != '[' && trimmed[0] != '{') {
		return RawTable{}, errors.New("not a json document")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var objects []map[string]string
	var headers []string
	seen := make(map[string]struct{})

	appendObject := func(dec *json.Decoder) error {
		obj, keys, err := decodeFlatObject(dec)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				headers = append(headers, k)
			}
		}
		objects = append(objects, obj)
		return nil
	}

	tok, err := dec.Token()
	if err != nil {
		return RawTable{}, err
	}
	switch tok {
	case json.Delim('['):
		for dec.More() {
			if err := appendObject(dec); err != nil {
				return RawTable{}, err
			}
		}
	case json.Delim('{'):
		// Rewind: decodeFlatObject consumes the opening brace itself.
		dec = json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := appendObject(dec); err != nil {
			return RawTable{}, err
		}
	default:
		return RawTable{}, errors.New("not a json table")
	}

	if len(objects) == 0 || len(headers) == 0 {
		return RawTable{}, errors.New("json document has no records")
	}

	table := RawTable{Headers: headers, Source: "json"}
	for _, obj := range objects {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = obj[h]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// decodeFlatObject reads one object from the decoder, flattening scalar
// values to strings and rejecting nested structures.
func decodeFlatObject(dec *json.Decoder) (map[string]string, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if tok != json.Delim('{') {
		return nil, nil, errors.New("expected object")
	}
	obj := make(map[string]string)
	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, errors.New("malformed object key")
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		switch v := valTok.(type) {
		case string:
			obj[key] = v
		case json.Number:
			obj[key] = v.String()
		case bool:
			obj[key] = fmt.Sprintf("%t", v)
		case nil:
			obj[key] = ""
		default:
			return nil, nil, errors.New("nested json values are not tabular")
		}
		keys = append(keys, key)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, nil, err
	}
	return obj, keys, nil
}

// parseXML walks the token stream looking for repeated record elements under
// the document root; each child element of a record becomes a column.
func parseXML(data []byte) (RawTable, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	table := RawTable{Source: "xml"}
	seen := make(map[string]struct{})
	depth := 0
	var current map[string]string
	var currentField string
	var fieldText strings.Builder

	flushRow := func() {
		if current == nil {
			return
		}
		row := make([]string, len(table.Headers))
		for i, h := range table.Headers {
			row[i] = current[h]
		}
		table.Rows = append(table.Rows, row)
		current = nil
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawTable{}, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 2:
				current = make(map[string]string)
			case 3:
				currentField = el.Name.Local
				fieldText.Reset()
			}
		case xml.CharData:
			if depth == 3 && currentField != "" {
				fieldText.Write(el)
			}
		case xml.EndElement:
			switch depth {
			case 3:
				if currentField != "" && current != nil {
					if _, ok := seen[currentField]; !ok {
						seen[currentField] = struct{}{}
						table.Headers = append(table.Headers, currentField)
					}
					current[currentField] = strings.TrimSpace(fieldText.String())
				}
				currentField = ""
			case 2:
				flushRow()
			}
			depth--
		}
	}

	if table.Empty() || len(table.Headers) == 0 {
		return RawTable{}, errors.New("xml document has no records")
	}
	return table, nil
}
