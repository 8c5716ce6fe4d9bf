package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrEmptyBody    = errors.New("empty body")
	ErrTrailingData = errors.New("trailing data after JSON value")
	ErrBadNumber    = errors.New("malformed number")
)

// maxDepth bounds nesting so hostile payloads cannot exhaust the stack.
const maxDepth = 512

// Parse decodes a single JSON document, keeping object member order.
func Parse(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, ErrEmptyBody
	}

	iter := jsoniter.ConfigDefault.BorrowIterator(data)
	defer jsoniter.ConfigDefault.ReturnIterator(iter)

	v := read(iter, 0)
	switch {
	case iter.Error == io.EOF && v.Kind() != KindNumber:
		// only a bare top-level number may legitimately run into the end
		return Value{}, fmt.Errorf("parse json: %w", io.ErrUnexpectedEOF)
	case iter.Error != nil && iter.Error != io.EOF:
		return Value{}, fmt.Errorf("parse json: %w", iter.Error)
	}
	// at the end of input the iterator records io.EOF; any other byte
	// leaves Error unset
	iter.WhatIsNext()
	if iter.Error == nil {
		return Value{}, ErrTrailingData
	}
	return v, nil
}

func read(iter *jsoniter.Iterator, depth int) Value {
	if depth > maxDepth {
		iter.ReportError("read", "maximum nesting depth exceeded")
		return Value{}
	}

	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.Skip()
		return Value{}
	case jsoniter.BoolValue:
		return Bool(iter.ReadBool())
	case jsoniter.NumberValue:
		literal := string(iter.ReadNumber())
		if !numberGrammar.MatchString(literal) {
			iter.Error = fmt.Errorf("%w: %q", ErrBadNumber, literal)
			return Value{}
		}
		return NumberLiteral(literal)
	case jsoniter.StringValue:
		return String(iter.ReadString())
	case jsoniter.ArrayValue:
		arr := &Array{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			arr.Items = append(arr.Items, read(it, depth+1))
			return it.Error == nil
		})
		return FromArray(arr)
	case jsoniter.ObjectValue:
		obj := NewObject()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			obj.Set(key, read(it, depth+1))
			return it.Error == nil
		})
		return FromObject(obj)
	default:
		iter.ReportError("read", "unexpected token")
		return Value{}
	}
}
