// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/identra/identra/pkg/pagination"
)

/*
TestParams_Clamp verifies normalization of out-of-range values.
*/
func TestParams_Clamp(t *testing.T) {
	tests := []struct {
		name     string
		input    pagination.Params
		expected pagination.Params
	}{
		{"valid", pagination.Params{Page: 2, Limit: 50}, pagination.Params{Page: 2, Limit: 50}},
		{"zero_page", pagination.Params{Page: 0, Limit: 10}, pagination.Params{Page: 1, Limit: 10}},
		{"negative_page", pagination.Params{Page: -3, Limit: 10}, pagination.Params{Page: 1, Limit: 10}},
		{"zero_limit", pagination.Params{Page: 1, Limit: 0}, pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"excessive_limit", pagination.Params{Page: 1, Limit: 5000}, pagination.Params{Page: 1, Limit: pagination.MaxLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Clamp())
		})
	}
}

/*
TestParams_Offset verifies the 1-indexed page to SQL offset mapping.
*/
func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, pagination.Params{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 90, pagination.Params{Page: 10, Limit: 10}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
}

/*
TestNewMeta verifies total page computation.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(1, 20, 45)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 45, meta.Total)

	meta = pagination.NewMeta(1, 20, 0)
	assert.Equal(t, 0, meta.TotalPages)

	meta = pagination.NewMeta(1, 20, 20)
	assert.Equal(t, 1, meta.TotalPages)
}

/*
TestFromRequest verifies query parameter parsing with clamping.
*/
func TestFromRequest(t *testing.T) {
	request := httptest.NewRequest("GET", "/?page=3&limit=40", nil)
	params := pagination.FromRequest(request)
	assert.Equal(t, pagination.Params{Page: 3, Limit: 40}, params)

	request = httptest.NewRequest("GET", "/?page=abc&limit=99999", nil)
	params = pagination.FromRequest(request)
	assert.Equal(t, pagination.Params{Page: 1, Limit: pagination.MaxLimit}, params)

	request = httptest.NewRequest("GET", "/", nil)
	params = pagination.FromRequest(request)
	assert.Equal(t, pagination.Params{Page: 1, Limit: pagination.DefaultLimit}, params)
}
