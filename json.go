package main

import (
	jsoniter "github.com/json-iterator/go"
)

var jsonConfig = jsoniter.Config{
	OnlyTaggedField: true,
	CaseSensitive:   true,
}.Froze()

// JSON encodes r into a fresh slice.
func (r Result) JSON() []byte {
	stream := jsonConfig.BorrowStream(nil)
	defer jsonConfig.ReturnStream(stream)
	stream.WriteVal(r)
	out := make([]byte, len(stream.Buffer()))
	copy(out, stream.Buffer())
	return out
}

func ParseResult(data []byte) (Result, error) {
	var r Result
	err := jsonConfig.Unmarshal(data, &r)
	return r, err
}
