// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package requests

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Status is the outcome of handling a request, expressed as an HTTP status code.
type Status int

const (
	StatusOK                  Status = 200
	StatusInternalServerError Status = 500
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	Name      string    `yaml:"name" json:"name"`
	Age       int       `yaml:"age" json:"age"`
	Roles     []Role    `yaml:"roles" json:"roles"`
	CreatedAt time.Time `yaml:"createdAt" json:"createdAt"`
	IsDeleted bool      `yaml:"isDeleted" json:"isDeleted"`
}

// Request describes an HTTP request to a service.
type Request struct {
	// ID identifies the request in logs. Assigned when loading if missing.
	ID string `yaml:"id,omitempty" json:"id,omitempty"`

	Method Method            `yaml:"method" json:"method"`
	Host   string            `yaml:"host" json:"host"`
	Path   string            `yaml:"path" json:"path"`
	Body   *User             `yaml:"body,omitempty" json:"body,omitempty"`
	Params map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
}

// Validate checks that the request can be sent.
func (r *Request) Validate() error {
	switch r.Method {
	case MethodGet, MethodPost:
	default:
		return errors.Errorf("unsupported method %q", r.Method)
	}
	if r.Host == "" {
		return errors.New("missing host")
	}
	if r.Method == MethodGet && r.Body != nil {
		return errors.New("GET request with a body")
	}
	return nil
}

// URL returns the address of the request relative to 'base'. If 'base' is
// nil the request's own host is used over plain HTTP.
func (r *Request) URL(base *url.URL) *url.URL {
	u := url.URL{Scheme: "http", Host: r.Host}
	if base != nil {
		u = *base
	}
	u.Path = joinPath(u.Path, r.Path)
	if len(r.Params) > 0 {
		q := u.Query()
		for k, v := range r.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return &u
}

func joinPath(base, p string) string {
	switch {
	case base == "" || base == "/":
		return "/" + strings.Trim(p, "/")
	case p == "":
		return base
	default:
		return "/" + strings.Trim(base, "/") + "/" + strings.Trim(p, "/")
	}
}
