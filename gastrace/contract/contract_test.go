package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateREX(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{name: "five digits", raw: "96121", valid: true},
		{name: "six digits", raw: "961214", valid: true},
		{name: "seven digits", raw: "9612145", valid: true},
		{name: "prefixed", raw: "K#961214", valid: true},
		{name: "lowercase prefix", raw: "k#961214", valid: true},
		{name: "four digits", raw: "9612", valid: false},
		{name: "eight digits", raw: "96121456", valid: false},
		{name: "letters", raw: "AB1234", valid: false},
		{name: "prefix only", raw: "K#", valid: false},
		{name: "embedded space", raw: "961 214", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.raw, PipelineREX, "42234")
			assert.Equal(t, tt.valid, got.Valid)

			if !tt.valid {
				assert.NotEmpty(t, got.Message)
			}
		})
	}
}

func TestValidateRuby(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{name: "two letters four digits", raw: "RB1234", valid: true},
		{name: "two letters six digits", raw: "rb123456", valid: true},
		{name: "prefixed", raw: "K#RB12345", valid: true},
		{name: "one letter", raw: "R1234", valid: false},
		{name: "three letters", raw: "RBX1234", valid: false},
		{name: "three digits", raw: "RB123", valid: false},
		{name: "seven digits", raw: "RB1234567", valid: false},
		{name: "digits only", raw: "961214", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.raw, PipelineRuby, "")
			assert.Equal(t, tt.valid, got.Valid)
		})
	}
}

func TestValidateRequiresInput(t *testing.T) {
	got := Validate("   ", PipelineRuby, "")
	require.False(t, got.Valid)
	assert.Equal(t, "contract number is required", got.Message)
}

func TestValidateREXRequiresReceiptLocation(t *testing.T) {
	// The receipt-location check short-circuits before the pattern check:
	// even a well-formed number is rejected without one.
	got := Validate("961214", PipelineREX, "  ")
	require.False(t, got.Valid)
	assert.Contains(t, got.Message, "receipt location")

	got = Validate("", PipelineREX, "")
	require.False(t, got.Valid)
	assert.Contains(t, got.Message, "receipt location")
}

func TestIdentifierForms(t *testing.T) {
	tests := []struct {
		raw       string
		canonical string
		clean     string
	}{
		{raw: "961214", canonical: "K#961214", clean: "961214"},
		{raw: "K#961214", canonical: "K#961214", clean: "961214"},
		{raw: "k#rb1234", canonical: "K#RB1234", clean: "RB1234"},
		{raw: "  961214  ", canonical: "K#961214", clean: "961214"},
	}

	for _, tt := range tests {
		id := Identifier{Raw: tt.raw, Pipeline: PipelineREX}
		assert.Equal(t, tt.canonical, id.Canonical())
		assert.Equal(t, tt.clean, id.Clean())
	}
}

func TestParsePipeline(t *testing.T) {
	p, ok := ParsePipeline("rex")
	require.True(t, ok)
	assert.Equal(t, PipelineREX, p)

	p, ok = ParsePipeline(" Ruby ")
	require.True(t, ok)
	assert.Equal(t, PipelineRuby, p)

	_, ok = ParsePipeline("ANR")
	assert.False(t, ok)
}
