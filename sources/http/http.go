// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/joamaki/pushstream/logging"
	"github.com/joamaki/pushstream/logging/logfields"
	"github.com/joamaki/pushstream/requests"
	"github.com/joamaki/pushstream/stream"
)

// Response is an HTTP response with the body read in full. The body is read
// before the response is emitted, so it stays valid after the subscription
// has been torn down.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type Option func(*http.Request)

func WithBasicAuth(username, password string) Option {
	return func(req *http.Request) {
		req.SetBasicAuth(username, password)
	}
}

// WithBody sets the request body. The same bytes are sent on every subscription.
func WithBody(body []byte) Option {
	return func(req *http.Request) {
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
	}
}

func WithHeader(key, value string) Option {
	return func(req *http.Request) {
		req.Header.Add(key, value)
	}
}

// Client creates observables that perform HTTP requests. Each subscription
// issues its own request from a new goroutine and unsubscribing cancels it.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

type ClientOption func(*Client)

// WithHTTPClient sets the underlying client. Defaults to http.DefaultClient.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithLimiter makes every request wait on 'limiter' before it is sent.
// The limiter is shared by all subscriptions.
func WithLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		client: http.DefaultClient,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultClient = NewClient()

func Get(url string, options ...Option) stream.Observable[Response] {
	return defaultClient.Get(url, options...)
}

func Post(url string, body []byte, options ...Option) stream.Observable[Response] {
	return defaultClient.Post(url, body, options...)
}

func (c *Client) Get(url string, options ...Option) stream.Observable[Response] {
	return c.do(http.MethodGet, url, options)
}

func (c *Client) Post(url string, body []byte, options ...Option) stream.Observable[Response] {
	return c.do(http.MethodPost, url, append([]Option{WithBody(body)}, options...))
}

// Send sends 'req' to 'base', or to the request's own host if 'base' is nil.
// The user in the request body is encoded as JSON.
func (c *Client) Send(base *url.URL, req requests.Request, options ...Option) stream.Observable[Response] {
	opts := []Option{WithHeader("X-Request-ID", req.ID)}
	if req.Body != nil {
		body, err := json.Marshal(req.Body)
		if err != nil {
			return stream.Error[Response](errors.Wrapf(err, "encoding body of request %s", req.ID))
		}
		opts = append(opts, WithBody(body), WithHeader("Content-Type", "application/json"))
	}
	return c.do(string(req.Method), req.URL(base).String(), append(opts, options...))
}

func (c *Client) do(method, url string, options []Option) stream.Observable[Response] {
	return stream.FuncObservable[Response](
		func(o *stream.Observer[Response]) stream.Teardown {
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				resp, err := c.roundTrip(ctx, method, url, options)
				if err != nil {
					// A cancelled request means the observer is already
					// terminated and the error would be dropped.
					o.Error(err)
					return
				}
				o.Next(resp)
				o.Complete()
			}()
			return stream.Teardown(cancel)
		})
}

func (c *Client) roundTrip(ctx context.Context, method, url string, options []Option) (Response, error) {
	log := c.log.WithFields(logrus.Fields{
		logfields.Method: method,
		logfields.URL:    url,
	})

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Response{}, errors.Wrap(err, "waiting for rate limiter")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return Response{}, errors.Wrap(err, "creating request")
	}
	for _, opt := range options {
		opt(req)
	}

	log.Debug("Sending request")
	resp, err := c.client.Do(req)
	if err != nil {
		return Response{}, errors.Wrapf(err, "%s %s", method, url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, errors.Wrapf(err, "reading response to %s %s", method, url)
	}
	log.WithField(logfields.Status, resp.StatusCode).Debug("Received response")

	return Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
