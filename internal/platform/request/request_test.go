// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/identra/identra/internal/platform/apperr"
	"github.com/identra/identra/internal/platform/ctxutil"
	requestutil "github.com/identra/identra/internal/platform/request"
	"github.com/identra/identra/internal/platform/sec"
)

// newRequestWithParam builds a request carrying a chi URL parameter, the way
// the router provides it to mounted handlers.
func newRequestWithParam(name, value string) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	routeContext := chi.NewRouteContext()
	routeContext.URLParams.Add(name, value)

	return request.WithContext(
		context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
}

/*
TestUUID_AcceptsValidIdentifier verifies that a well-formed parameter passes
through unchanged.
*/
func TestUUID_AcceptsValidIdentifier(t *testing.T) {
	request := newRequestWithParam("accountID", "0190d6a1-5f2b-7cc3-9a1e-3b8f00000000")

	value, err := requestutil.UUID(request, "accountID")
	require.NoError(t, err)
	assert.Equal(t, "0190d6a1-5f2b-7cc3-9a1e-3b8f00000000", value)
}

/*
TestUUID_RejectsMalformedIdentifier verifies that a malformed parameter
becomes a field-level validation error instead of reaching storage.
*/
func TestUUID_RejectsMalformedIdentifier(t *testing.T) {
	request := newRequestWithParam("accountID", "not-a-uuid")

	_, err := requestutil.UUID(request, "accountID")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "accountID", ae.Details[0].Field)
}

/*
TestActorRole_DefaultsToGuest verifies anonymous requests act as guests and
authenticated requests carry their claimed role.
*/
func TestActorRole_DefaultsToGuest(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, sec.RoleGuest, requestutil.ActorRole(request))

	claims := &sec.AuthClaims{AccountID: "a1", Role: string(sec.RoleAdmin)}
	request = request.WithContext(ctxutil.WithActor(request.Context(), claims))
	assert.Equal(t, sec.RoleAdmin, requestutil.ActorRole(request))
}

/*
TestDecodeJSON verifies body decoding and its single failure mode.
*/
func TestDecodeJSON(t *testing.T) {
	var payload struct {
		Name string `json:"name"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Identra"}`))
	require.NoError(t, requestutil.DecodeJSON(request, &payload))
	assert.Equal(t, "Identra", payload.Name)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))
	err := requestutil.DecodeJSON(request, &payload)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}
