package hsb21030

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Strut/internal/calc/fastener"
	"Strut/internal/calc/loads"
	"Strut/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleInput() Input {
	return Input{
		Name:        "Hsb2103001",
		Group:       "test",
		Fasteners:   exampleFasteners(),
		Forces:      exampleForces,
		Moments:     exampleMoments,
		Application: examplePointP,
		Reference:   examplePointU,
	}
}

func post(t *testing.T, h *Handler, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	rec := httptest.NewRecorder()
	h.Calc(rec, req)
	return rec
}

func TestCalculateDefaults(t *testing.T) {
	in := exampleInput()
	in.Name = ""

	resp, res, err := Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, "hsb21030", resp.Name)
	assert.Equal(t, loads.CaseLimit, resp.Case)
	assert.Equal(t, 0, resp.Iterations)
	assert.False(t, resp.Converged)
	assert.Equal(t, []string{"fast1", "fast4"}, resp.Compression)
	assert.Len(t, res.Tension, 4)
}

func TestCalculateUltimate(t *testing.T) {
	limit, _, err := Calculate(exampleInput())
	require.NoError(t, err)

	in := exampleInput()
	in.Case = loads.CaseUltimate
	ult, _, err := Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, loads.CaseUltimate, ult.Case)
	for i := range limit.Fasteners {
		assert.InDelta(t, 1.5*limit.Fasteners[i].TensionForce, ult.Fasteners[i].TensionForce, 1e-6)
		assert.InDelta(t, 1.5*limit.Fasteners[i].ShearForce, ult.Fasteners[i].ShearForce, 1e-6)
	}
	assert.Equal(t, limit.Alpha, ult.Alpha)
}

func TestHandlerCalcIterate(t *testing.T) {
	h := &Handler{MaxIterations: DefaultMaxIterations}
	rec := post(t, h, "/api/tools/fasteners/calc?iterate=true", exampleInput())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "Hsb2103001_iteration", resp.Name)
	assert.Equal(t, "test_iter", resp.Group)
	assert.True(t, resp.Converged)
	assert.Equal(t, 1, resp.Iterations)
	assert.Empty(t, resp.Compression)
	require.Len(t, resp.Fasteners, 5)
	assert.True(t, resp.Fasteners[4].Dummy)
	assert.InDelta(t, 6166.67, resp.Fasteners[1].TensionForce, 0.01)
	require.NotNil(t, resp.MinRFTension)
}

func TestHandlerCalcWithoutIterate(t *testing.T) {
	rec := post(t, &Handler{}, "/api/tools/fasteners/calc", exampleInput())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Iterations)
	assert.Equal(t, []string{"fast1", "fast4"}, resp.Compression)
	assert.Contains(t, resp.Notes, "compression")
}

func TestHandlerCalcErrors(t *testing.T) {
	square := []fastener.Fastener{
		{Name: "a", ShearAllowable: 1, TensionAllowable: 1, Y: -10, Z: -10},
		{Name: "b", ShearAllowable: 1, TensionAllowable: 1, Y: 10, Z: -10},
		{Name: "c", ShearAllowable: 1, TensionAllowable: 1, Y: 10, Z: 10},
		{Name: "d", ShearAllowable: 1, TensionAllowable: 1, Y: -10, Z: 10},
	}
	dup := exampleFasteners()
	dup[1].Name = dup[0].Name

	tests := []struct {
		name string
		in   Input
		code int
		msg  string
	}{
		{
			name: "degenerate",
			in:   Input{Fasteners: square, Forces: loads.Forces{X: 100}, Moments: loads.Moments{Y: 10}},
			code: http.StatusUnprocessableEntity,
			msg:  "Degenerate",
		},
		{
			name: "empty group",
			in:   Input{Forces: exampleForces},
			code: http.StatusBadRequest,
			msg:  "Invalid fastener group",
		},
		{
			name: "duplicate names",
			in:   Input{Fasteners: dup, Forces: exampleForces},
			code: http.StatusBadRequest,
			msg:  "duplicate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, &Handler{}, "/api/tools/fasteners/calc", tt.in)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}
}

func TestHandlerCalcBadPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/tools/fasteners/calc", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	(&Handler{}).Calc(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request payload")
}

func TestCalculateDegenerateDoesNotIterate(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.L()
	logger.Set(logger.New(&buf, "debug"))
	t.Cleanup(func() { logger.Set(prev) })

	square := []fastener.Fastener{
		{Name: "a", ShearAllowable: 1, TensionAllowable: 1, Y: -10, Z: -10},
		{Name: "b", ShearAllowable: 1, TensionAllowable: 1, Y: 10, Z: -10},
		{Name: "c", ShearAllowable: 1, TensionAllowable: 1, Y: 10, Z: 10},
		{Name: "d", ShearAllowable: 1, TensionAllowable: 1, Y: -10, Z: 10},
	}
	_, res, err := Calculate(Input{
		Fasteners:     square,
		Forces:        loads.Forces{X: 100},
		Moments:       loads.Moments{Y: 10},
		Iterate:       true,
		MaxIterations: 3,
	})

	assert.ErrorIs(t, err, ErrDegenerate)
	assert.Nil(t, res)
	assert.NotContains(t, buf.String(), "contact fastener added")
}
