package store

import (
	"github.com/campusadmin/campusctl/internal/client"
	"github.com/campusadmin/campusctl/internal/model"
)

// NewColleges creates the college resource store.
func NewColleges(c *client.Client, opts ...Option[model.College]) *Store[model.College] {
	return New[model.College](c, Config{
		Path:     "/colleges",
		Singular: "college",
		SortKey:  "college_code",
	}, opts...)
}

// NewPrograms creates the program resource store.
func NewPrograms(c *client.Client, opts ...Option[model.Program]) *Store[model.Program] {
	return New[model.Program](c, Config{
		Path:     "/programs",
		Singular: "program",
		SortKey:  "program_code",
	}, opts...)
}
