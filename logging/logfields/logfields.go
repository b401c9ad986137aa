// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package logfields defines common logging fields which are used across packages
package logfields

const (
	// LogSubsys is the field denoting the subsystem when logging
	LogSubsys = "subsys"

	// Delivered is the number of items delivered to a subscriber
	Delivered = "delivered"

	// Total is the number of items a source holds
	Total = "total"

	// RequestID is the identifier of a request
	RequestID = "requestID"

	// Method is the HTTP method of a request
	Method = "method"

	// URL is the target URL of a request
	URL = "url"

	// Status is the status code resulting from handling a request
	Status = "status"

	// Handled is the number of requests handled
	Handled = "handled"

	// Failed is the number of requests that failed
	Failed = "failed"

	// Completed tells whether a stream completed normally
	Completed = "completed"

	// File is a path to a file
	File = "file"
)
