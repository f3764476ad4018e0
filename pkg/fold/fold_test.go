// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/identra/identra/pkg/fold"
)

/*
TestCasefold verifies the full normalization pipeline.
*/
func TestCasefold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "John", "john"},
		{"accents", "Jóhn Dóe", "john doe"},
		{"whitespace_collapse", "  john   doe  ", "john doe"},
		{"mixed", "  JÓhn  Doe ", "john doe"},
		{"already_normal", "john", "john"},
		{"empty", "", ""},
		{"only_whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fold.Casefold(tt.input))
		})
	}
}
