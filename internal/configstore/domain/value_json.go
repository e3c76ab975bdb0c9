package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
)

// MarshalJSON writes Value as its bare underlying representation: the raw
// JSON scalar/array/object for everything except Secret, which serializes
// as its Ciphertext object. This matches the on-disk "value (untagged
// union)" format in the wire spec — there is no {"kind":...} wrapper.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.String)
	case KindInteger:
		return json.Marshal(v.Integer)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindBoolean:
		return json.Marshal(v.Boolean)
	case KindArray:
		return json.Marshal(v.Array)
	case KindObject:
		return json.Marshal(v.Object)
	case KindSecret:
		return json.Marshal(v.Ciphertext)
	default:
		return nil, fmt.Errorf("value: unknown kind %q", v.Kind)
	}
}

// ciphertextShape is used only to detect whether a JSON object is a
// Ciphertext record, per the design notes' "shape check for ciphertext
// (presence of algorithm and nonce)".
type ciphertextShape struct {
	Algorithm *string `json:"algorithm"`
	Nonce     *string `json:"nonce"`
}

// UnmarshalJSON recovers Kind from the JSON token type, with a shape check
// distinguishing a plain Object from an embedded Ciphertext.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("value: empty JSON")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = BooleanValue(b)
		return nil

	case '[':
		var arr []Value
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return err
		}
		*v = ArrayValue(arr)
		return nil

	case '{':
		var shape ciphertextShape
		if err := json.Unmarshal(trimmed, &shape); err == nil && shape.Algorithm != nil && shape.Nonce != nil {
			var ct cryptoDomain.Ciphertext
			if err := json.Unmarshal(trimmed, &ct); err != nil {
				return err
			}
			*v = SecretValue(&ct)
			return nil
		}

		var obj map[string]Value
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*v = ObjectValue(obj)
		return nil

	default:
		// Numeric token: json.Number preserves exact precision; integers
		// without a fractional part or exponent are stored as Integer.
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err != nil {
			return fmt.Errorf("value: unrecognized JSON token: %w", err)
		}
		if i, err := num.Int64(); err == nil {
			*v = IntegerValue(i)
			return nil
		}
		f, err := num.Float64()
		if err != nil {
			return fmt.Errorf("value: malformed number: %w", err)
		}
		*v = FloatValue(f)
		return nil
	}
}
