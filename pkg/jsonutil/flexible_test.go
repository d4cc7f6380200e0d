package jsonutil

import (
	"encoding/json"
	"testing"
)

func TestFlexibleString(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   string
		wantOK bool
	}{
		{name: "string value", input: "hello", want: "hello", wantOK: true},
		{name: "whole float", input: float64(42), want: "42", wantOK: true},
		{name: "fractional float", input: 3.14, want: "3.14", wantOK: true},
		{name: "int", input: 7, want: "7", wantOK: true},
		{name: "bool", input: true, want: "true", wantOK: true},
		{name: "json number", input: json.Number("9007199254740992"), want: "9007199254740992", wantOK: true},
		{name: "nil", input: nil, want: "", wantOK: false},
		{name: "object has no scalar form", input: map[string]any{"a": 1}, want: "", wantOK: false},
		{name: "array has no scalar form", input: []any{1}, want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FlexibleString(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FlexibleString(%v) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFlexibleFloat(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{name: "float", input: 2.5, want: 2.5, wantOK: true},
		{name: "int", input: 3, want: 3, wantOK: true},
		{name: "numeric string", input: "12.25", want: 12.25, wantOK: true},
		{name: "json number", input: json.Number("7"), want: 7, wantOK: true},
		{name: "non-numeric string", input: "12 nM", wantOK: false},
		{name: "nil", input: nil, wantOK: false},
		{name: "bool is not numeric", input: true, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FlexibleFloat(tt.input)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("FlexibleFloat(%v) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
