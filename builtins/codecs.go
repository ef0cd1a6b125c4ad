package builtins

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"sync"

	"github.com/deepnoodle-ai/cardscript/errz"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

var (
	mutex  sync.RWMutex
	codecs = map[string]*Codec{}
)

// Codec contains an Encode and a Decode function
type Codec struct {
	Encode func(object.Object) (object.Object, error)
	Decode func(object.Object) (object.Object, error)
}

func init() {
	RegisterCodec("base64", &Codec{Encode: encodeBase64, Decode: decodeBase64})
	RegisterCodec("hex", &Codec{Encode: encodeHex, Decode: decodeHex})
	RegisterCodec("json", &Codec{Encode: encodeJSON, Decode: decodeJSON})
	RegisterCodec("urlquery", &Codec{Encode: encodeURLQuery, Decode: decodeURLQuery})
}

// RegisterCodec registers a new codec
func RegisterCodec(name string, codec *Codec) error {
	mutex.Lock()
	defer mutex.Unlock()

	if _, exists := codecs[name]; exists {
		return errors.New("codec already registered: " + name)
	}
	codecs[name] = codec
	return nil
}

// GetCodec retrieves a codec by its name
func GetCodec(name string) (*Codec, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	codec, exists := codecs[name]
	if !exists {
		return nil, errz.RuntimeErrorf("codec not found: %s", name)
	}
	return codec, nil
}

// CodecNames returns the names of the registered codecs, sorted.
func CodecNames() []string {
	mutex.RLock()
	defer mutex.RUnlock()

	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func codecArgs(ctx object.Context) (object.Object, *Codec, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, nil, err
	}
	name, err := object.AsString(object.OptionalParam(ctx, symbol.Arg1, object.NewString("json")))
	if err != nil {
		return nil, nil, err
	}
	codec, err := GetCodec(name)
	if err != nil {
		return nil, nil, err
	}
	return value, codec, nil
}

// Encode encodes the input with the codec named by the second argument,
// JSON by default.
func Encode(ctx object.Context) (object.Object, error) {
	value, codec, err := codecArgs(ctx)
	if err != nil {
		return nil, err
	}
	return codec.Encode(value)
}

// Decode is the inverse of Encode.
func Decode(ctx object.Context) (object.Object, error) {
	value, codec, err := codecArgs(ctx)
	if err != nil {
		return nil, err
	}
	return codec.Decode(value)
}

func encodeBase64(obj object.Object) (object.Object, error) {
	s, err := object.AsString(obj)
	if err != nil {
		return nil, err
	}
	return object.NewString(base64.StdEncoding.EncodeToString([]byte(s))), nil
}

func decodeBase64(obj object.Object) (object.Object, error) {
	s, err := object.AsString(obj)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errz.From(err)
	}
	return object.NewString(string(data)), nil
}

func encodeHex(obj object.Object) (object.Object, error) {
	s, err := object.AsString(obj)
	if err != nil {
		return nil, err
	}
	return object.NewString(hex.EncodeToString([]byte(s))), nil
}

func decodeHex(obj object.Object) (object.Object, error) {
	s, err := object.AsString(obj)
	if err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errz.From(err)
	}
	return object.NewString(string(data)), nil
}

func encodeJSON(obj object.Object) (object.Object, error) {
	if err, ok := obj.(*object.Error); ok {
		return nil, err.Value()
	}
	var value interface{} = obj.Interface()
	if m, ok := obj.(json.Marshaler); ok {
		value = m
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, errz.From(err)
	}
	return object.NewString(string(data)), nil
}

func decodeJSON(obj object.Object) (object.Object, error) {
	s, err := object.AsString(obj)
	if err != nil {
		return nil, err
	}
	var value interface{}
	if err := json.Unmarshal([]byte(s), &value); err != nil {
		return nil, errz.From(err)
	}
	return object.FromGoType(value)
}

func encodeURLQuery(obj object.Object) (object.Object, error) {
	s, err := object.AsString(obj)
	if err != nil {
		return nil, err
	}
	return object.NewString(url.QueryEscape(s)), nil
}

func decodeURLQuery(obj object.Object) (object.Object, error) {
	s, err := object.AsString(obj)
	if err != nil {
		return nil, err
	}
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return nil, errz.From(err)
	}
	return object.NewString(decoded), nil
}
