// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package requests

import "time"

// MockUser returns the sample user, created at 'now'.
func MockUser(now time.Time) User {
	return User{
		Name:      "User Name",
		Age:       26,
		Roles:     []Role{RoleUser, RoleAdmin},
		CreatedAt: now,
		IsDeleted: false,
	}
}

// Mock returns the sample request set: a POST creating the mock user
// followed by a GET of a user by id.
func Mock(now time.Time) []Request {
	user := MockUser(now)
	return []Request{
		{
			ID:     "mock-post-user",
			Method: MethodPost,
			Host:   "service.example",
			Path:   "user",
			Body:   &user,
			Params: map[string]string{},
		},
		{
			ID:     "mock-get-user",
			Method: MethodGet,
			Host:   "service.example",
			Path:   "user",
			Params: map[string]string{
				"id": "3f5h67s4s",
			},
		},
	}
}
