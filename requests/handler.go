// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package requests

import (
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/joamaki/pushstream/logging/logfields"
	"github.com/joamaki/pushstream/stream"
)

// Summary is the tally kept by a Handler.
type Summary struct {
	// Handled is the number of requests handled, successfully or not.
	Handled int

	// Failed is the number of handled requests with a non-2xx status.
	Failed int

	// Completed is true if the stream of requests completed.
	Completed bool

	// Err is the error the stream of requests terminated with, if any.
	Err error
}

// Handler consumes a stream of requests.
type Handler struct {
	log logrus.FieldLogger

	mu      sync.Mutex
	summary Summary
}

func NewHandler(log logrus.FieldLogger) *Handler {
	return &Handler{log: log}
}

// HandleRequest handles a request locally, which always succeeds.
func (h *Handler) HandleRequest(req Request) Status {
	return h.HandleResult(req, req.URL(nil), StatusOK)
}

// HandleResult records the status a request was handled with elsewhere,
// e.g. the response code of a remote service. 'target' is the URL the
// request was sent to.
func (h *Handler) HandleResult(req Request, target *url.URL, status Status) Status {
	h.mu.Lock()
	h.summary.Handled++
	if status < 200 || status > 299 {
		h.summary.Failed++
	}
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{
		logfields.RequestID: req.ID,
		logfields.Method:    req.Method,
		logfields.URL:       target.String(),
		logfields.Status:    int(status),
	}).Info("Request handled")
	return status
}

// HandleError handles the error that terminated the stream of requests.
func (h *Handler) HandleError(err error) Status {
	h.mu.Lock()
	h.summary.Err = err
	h.mu.Unlock()

	h.log.WithError(err).Error("Request stream failed")
	return StatusInternalServerError
}

func (h *Handler) HandleComplete() {
	h.mu.Lock()
	h.summary.Completed = true
	h.mu.Unlock()

	h.log.Info("complete")
}

func (h *Handler) Summary() Summary {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.summary
}

// Handlers returns the handler set for subscribing to a stream of requests.
func (h *Handler) Handlers() stream.Handlers[Request] {
	return stream.Handlers[Request]{
		Next:     func(req Request) { h.HandleRequest(req) },
		Error:    func(err error) { h.HandleError(err) },
		Complete: h.HandleComplete,
	}
}
