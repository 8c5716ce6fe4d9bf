package jsonvalue

import (
	jsoniter "github.com/json-iterator/go"
)

// MarshalJSON writes the value back out with member order intact, so debug
// payloads show upstream data as it arrived.
func (v Value) MarshalJSON() ([]byte, error) {
	stream := jsoniter.ConfigDefault.BorrowStream(nil)
	defer jsoniter.ConfigDefault.ReturnStream(stream)

	write(stream, v, map[any]struct{}{})
	if stream.Error != nil {
		return nil, stream.Error
	}
	out := make([]byte, len(stream.Buffer()))
	copy(out, stream.Buffer())
	return out, nil
}

func write(stream *jsoniter.Stream, v Value, seen map[any]struct{}) {
	switch v.kind {
	case KindBool:
		stream.WriteBool(v.b)
	case KindNumber:
		stream.WriteRaw(v.raw)
	case KindString:
		stream.WriteString(v.raw)
	case KindArray:
		if _, ok := seen[v.arr]; ok {
			stream.WriteNil()
			return
		}
		seen[v.arr] = struct{}{}
		defer delete(seen, v.arr)

		stream.WriteArrayStart()
		for i, item := range v.arr.Items {
			if i > 0 {
				stream.WriteMore()
			}
			write(stream, item, seen)
		}
		stream.WriteArrayEnd()
	case KindObject:
		if _, ok := seen[v.obj]; ok {
			stream.WriteNil()
			return
		}
		seen[v.obj] = struct{}{}
		defer delete(seen, v.obj)

		stream.WriteObjectStart()
		for i, m := range v.obj.Members {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(m.Key)
			write(stream, m.Value, seen)
		}
		stream.WriteObjectEnd()
	default:
		stream.WriteNil()
	}
}
