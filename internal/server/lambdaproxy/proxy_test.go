package lambdaproxy

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Auth", r.Header.Get("Authorization"))
		w.Header().Set("X-Query", r.URL.Query().Get("goal_id"))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(r.URL.Path + "|" + string(b)))
	})
}

func TestHandle(t *testing.T) {
	a := New(echoHandler(t))

	res, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodPost,
		Path:                  "/api/save_goal",
		Headers:               map[string]string{"Authorization": "Bearer t"},
		QueryStringParameters: map[string]string{"goal_id": "g1"},
		Body:                  `{"goal_text":"x"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, res.StatusCode)
	assert.Equal(t, "/api/save_goal|{\"goal_text\":\"x\"}", res.Body)
	assert.Equal(t, "POST", res.Headers["X-Method"])
	assert.Equal(t, "Bearer t", res.Headers["X-Auth"])
	assert.Equal(t, "g1", res.Headers["X-Query"])
}

func TestHandle_Base64Body(t *testing.T) {
	a := New(echoHandler(t))

	res, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/p",
		Body:            base64.StdEncoding.EncodeToString([]byte("hello")),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/p|hello", res.Body)

	res, err = a.Handle(context.Background(), events.APIGatewayProxyRequest{
		Path:            "/p",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHandle_MultiValue(t *testing.T) {
	a := New(echoHandler(t))

	res, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{
		Path:                            "/p",
		MultiValueHeaders:               map[string][]string{"Authorization": {"Bearer m"}},
		Headers:                         map[string]string{"Authorization": "Bearer single"},
		MultiValueQueryStringParameters: map[string][]string{"goal_id": {"a", "b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "GET", res.Headers["X-Method"])
	assert.Equal(t, "Bearer m", res.Headers["X-Auth"])
	assert.Equal(t, "a", res.Headers["X-Query"])
}
