// Package lambdaproxy serves API Gateway proxy events with an ordinary
// http.Handler.
package lambdaproxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

type Adapter struct {
	handler http.Handler
}

func New(h http.Handler) *Adapter {
	return &Adapter{handler: h}
}

// Handle converts the event into a request, runs it through the handler and
// converts the recorded response back.
func (a *Adapter) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := toRequest(ctx, event)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"detail":"invalid request"}`,
		}, nil
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return toResponse(rec), nil
}

func toRequest(ctx context.Context, event events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		body = decoded
	}

	u := &url.URL{Path: event.Path}
	q := url.Values{}
	for k, vs := range event.MultiValueQueryStringParameters {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	for k, v := range event.QueryStringParameters {
		if _, ok := q[k]; !ok {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	method := event.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	for k, vs := range event.MultiValueHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range event.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	req.RemoteAddr = event.RequestContext.Identity.SourceIP
	return req, nil
}

func toResponse(rec *httptest.ResponseRecorder) events.APIGatewayProxyResponse {
	res := rec.Result()
	defer res.Body.Close()

	headers := make(map[string]string, len(res.Header))
	multi := make(map[string][]string, len(res.Header))
	for k, vs := range res.Header {
		headers[k] = strings.Join(vs, ",")
		multi[k] = vs
	}

	return events.APIGatewayProxyResponse{
		StatusCode:        res.StatusCode,
		Headers:           headers,
		MultiValueHeaders: multi,
		Body:              rec.Body.String(),
	}
}
