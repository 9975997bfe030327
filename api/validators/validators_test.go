package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dbtypes "github.com/angelmondragon/mechanicshop-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

func newBodyRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSONBodyValid(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(newBodyRequest(`{"name":"Jo","email":"jo@example.com","quantity":2}`), &dest)
	require.NoError(t, err)
	require.Equal(t, "Jo", dest.Name)
}

func TestDecodeJSONBodyFieldErrors(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(newBodyRequest(`{"name":"","email":"nope","quantity":0}`), &dest)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "is required", details["name"])
	require.Equal(t, "must be a valid email", details["email"])
	require.Equal(t, "must be greater than 0", details["quantity"])
}

func TestDecodeJSONBodyRejectsUnknownAndEmpty(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(newBodyRequest(`{"name":"Jo","email":"jo@example.com","quantity":1,"extra":true}`), &dest)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	err = DecodeJSONBody(newBodyRequest(``), &dest)
	require.Equal(t, "request body is required", pkgerrors.As(err).Message())
}

func TestParsePathID(t *testing.T) {
	withParam := func(value string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := ParsePathID(withParam("12"), "id", "Service id is not found.", http.StatusNotFound)
	require.NoError(t, err)
	require.EqualValues(t, 12, id)

	_, err = ParsePathID(withParam("abc"), "id", "service not found.", http.StatusBadRequest)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, http.StatusBadRequest, typed.HTTPStatus())
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	require.Equal(t, "service not found.", typed.Message())

	_, err = ParsePathID(withParam("0"), "id", "Service id is not found.", http.StatusNotFound)
	require.Error(t, err)
}

func TestParseBearerToken(t *testing.T) {
	token, err := ParseBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	token, err = ParseBearerToken("bearer   xyz")
	require.NoError(t, err)
	require.Equal(t, "xyz", token)

	_, err = ParseBearerToken("")
	require.ErrorIs(t, err, ErrMissingToken)
	_, err = ParseBearerToken("Bearer ")
	require.ErrorIs(t, err, ErrMissingToken)
}

type datedPayload struct {
	ServiceDate dbtypes.Date `json:"service_date" validate:"required"`
}

func TestDecodeJSONBodyRequiredDate(t *testing.T) {
	var dest datedPayload
	err := DecodeJSONBody(newBodyRequest(`{}`), &dest)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details := typed.Details().(map[string]string)
	require.Equal(t, "is required", details["service_date"])

	dest = datedPayload{}
	require.NoError(t, DecodeJSONBody(newBodyRequest(`{"service_date":"2025-03-14"}`), &dest))
	require.Equal(t, "2025-03-14", dest.ServiceDate.String())
}
