// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package requests

import (
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type file struct {
	Requests []Request `yaml:"requests"`
}

// Parse decodes a YAML document with a top-level 'requests' list. Every
// request is validated and requests without an ID are given a random one.
func Parse(data []byte) ([]Request, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decoding requests")
	}
	for i := range f.Requests {
		req := &f.Requests[i]
		if err := req.Validate(); err != nil {
			return nil, errors.Wrapf(err, "request %d", i)
		}
		if req.ID == "" {
			req.ID = uuid.New().String()
		}
	}
	return f.Requests, nil
}

// LoadFile reads and parses a request file.
func LoadFile(path string) ([]Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading request file")
	}
	reqs, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return reqs, nil
}
