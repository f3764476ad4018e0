// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/identra/identra/internal/platform/ctxutil"
	"github.com/identra/identra/internal/platform/sec"
	"github.com/identra/identra/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUID retrieves a named URL parameter and validates it as a UUID.

Rejecting malformed IDs here turns them into a field-level validation error
instead of a storage-layer type error further down.

Returns:
  - string: The validated parameter value
  - error: apperr.ValidationError when the value is not a UUID
*/
func UUID(request *http.Request, name string) (string, error) {
	value := chi.URLParam(request, name)

	validator := &validate.Validator{}
	if err := validator.UUID(name, value).Err(); err != nil {
		return "", err
	}

	return value, nil
}

/*
ActorRole returns the role of the acting identity, defaulting to guest for
anonymous requests.
*/
func ActorRole(request *http.Request) sec.Role {
	claims := ctxutil.GetActor(request.Context())
	if claims == nil {
		return sec.RoleGuest
	}
	return sec.Role(claims.Role)
}
